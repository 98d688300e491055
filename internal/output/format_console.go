package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fpgo/freelance-planner/internal/projection"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 2).
			Width(30)

	cardLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Bold(true)

	cardValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// FormatConsole renders the report for terminal display: summary cards for
// the headline figures, then detail and projection tables.
func FormatConsole(report *Report) string {
	var sb strings.Builder

	sb.WriteString(sectionStyle.Render("FREELANCE INCOME PLAN"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04")))

	if report.Result != nil {
		res := report.Result
		cur := report.Currency

		cards := lipgloss.JoinHorizontal(lipgloss.Top,
			renderCard("Annual Net", FormatMoney(res.AnnualNet, cur)),
			renderCard("Monthly Net", FormatMoney(res.MonthlyNet, cur)),
			renderCard("Effective Rate", FormatMoney(res.EffectiveHourlyRate, cur)+"/h"),
		)
		sb.WriteString(cards)
		sb.WriteString("\n\n")

		sb.WriteString(sectionStyle.Render("BREAKDOWN"))
		sb.WriteString("\n")
		rows := []struct {
			label string
			value string
		}{
			{"Annual gross", FormatMoney(res.AnnualGross, cur)},
			{"Business expenses", FormatMoney(res.AnnualBusinessExpenses, cur)},
			{"Taxable income", FormatMoney(res.AnnualTaxableIncome, cur)},
			{"Tax paid", FormatMoney(res.AnnualTaxPaid, cur)},
			{"Annual net", FormatMoney(res.AnnualNet, cur)},
			{"Monthly net", FormatMoney(res.MonthlyNet, cur)},
			{"Weekly net", FormatMoney(res.WeeklyNet, cur)},
			{"Daily net", FormatMoney(res.DailyNet, cur)},
			{"Take-home per billable hour", FormatMoney(res.TakeHomePerBillableHour, cur)},
			{"Unbillable share", res.UnbillablePercentage.StringFixed(1) + "%"},
		}
		for _, row := range rows {
			sb.WriteString(fmt.Sprintf("  %-28s %18s\n", row.label, row.value))
		}

		sb.WriteString("\n")
		sb.WriteString(sectionStyle.Render("CASH FLOW"))
		sb.WriteString("\n")
		switch {
		case res.MonthlyCashFlow == nil:
			sb.WriteString("  No monthly personal need tracked.\n")
		case res.RunwayIsSustainable:
			sb.WriteString(fmt.Sprintf("  Monthly cash flow %s - income covers your needs indefinitely.\n",
				FormatMoney(*res.MonthlyCashFlow, cur)))
		case res.RunwayMonths == nil:
			sb.WriteString(warnStyle.Render(fmt.Sprintf("  Monthly cash flow %s - unsustainable, savings unknown.",
				FormatMoney(*res.MonthlyCashFlow, cur))))
			sb.WriteString("\n")
		default:
			sb.WriteString(warnStyle.Render(fmt.Sprintf("  Monthly cash flow %s - savings last %s months.",
				FormatMoney(*res.MonthlyCashFlow, cur), res.RunwayMonths.StringFixed(1))))
			sb.WriteString("\n")
		}
	}

	if report.RequiredRate != nil {
		sb.WriteString("\n")
		sb.WriteString(sectionStyle.Render("TARGET"))
		sb.WriteString("\n")
		if report.TargetAnnualNet != nil {
			sb.WriteString(fmt.Sprintf("  Target annual net: %.2f\n", *report.TargetAnnualNet))
		}
		sb.WriteString(fmt.Sprintf("  Required hourly rate: %s\n",
			FormatMoney(*report.RequiredRate, report.Currency)))
	}

	if len(report.Seasonal) > 0 {
		sb.WriteString("\n")
		sb.WriteString(sectionStyle.Render("SEASONAL PROJECTION (monthly net)"))
		sb.WriteString("\n")
		sb.WriteString(renderProjectionTable(report.Seasonal, report))
	}

	if len(report.Runway) > 0 {
		sb.WriteString("\n")
		sb.WriteString(sectionStyle.Render("RUNWAY PROJECTION (savings balance)"))
		sb.WriteString("\n")
		sb.WriteString(renderProjectionTable(report.Runway, report))
	}

	if report.FXDegraded {
		sb.WriteString("\n")
		sb.WriteString(warnStyle.Render("Note: no valid exchange rate was available; amounts are shown unconverted."))
		sb.WriteString("\n")
	}

	return sb.String()
}

func renderCard(label, value string) string {
	content := cardLabelStyle.Render(label) + "\n" + cardValueStyle.Render(value)
	return cardStyle.Render(content)
}

func renderProjectionTable(points []projection.Point, report *Report) string {
	cur := report.Currency
	if report.DisplayCurrency != "" {
		cur = report.DisplayCurrency
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  %-5s %16s %16s %16s\n", "Month", "Pessimistic", "Realistic", "Optimistic"))
	sb.WriteString("  " + strings.Repeat("-", 56) + "\n")
	for _, pt := range points {
		sb.WriteString(fmt.Sprintf("  %-5s %16s %16s %16s\n",
			pt.Month,
			FormatMoney(pt.Pessimistic, cur),
			FormatMoney(pt.Realistic, cur),
			FormatMoney(pt.Optimistic, cur),
		))
	}
	return sb.String()
}
