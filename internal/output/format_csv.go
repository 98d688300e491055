package output

import (
	"encoding/csv"
	"strings"

	"github.com/fpgo/freelance-planner/internal/projection"
)

// FormatCSV renders the report as CSV: a metric/value section for the income
// result, then one section per projection series.
func FormatCSV(report *Report) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if report.Result != nil {
		res := report.Result
		rows := [][]string{
			{"metric", "value"},
			{"annualGross", res.AnnualGross.StringFixed(2)},
			{"annualNet", res.AnnualNet.StringFixed(2)},
			{"monthlyGross", res.MonthlyGross.StringFixed(2)},
			{"monthlyNet", res.MonthlyNet.StringFixed(2)},
			{"weeklyGross", res.WeeklyGross.StringFixed(2)},
			{"weeklyNet", res.WeeklyNet.StringFixed(2)},
			{"dailyGross", res.DailyGross.StringFixed(2)},
			{"dailyNet", res.DailyNet.StringFixed(2)},
			{"effectiveHourlyRate", res.EffectiveHourlyRate.StringFixed(2)},
			{"takeHomePerBillableHour", res.TakeHomePerBillableHour.StringFixed(2)},
			{"unbillablePercentage", res.UnbillablePercentage.StringFixed(2)},
			{"annualBusinessExpenses", res.AnnualBusinessExpenses.StringFixed(2)},
			{"annualTaxableIncome", res.AnnualTaxableIncome.StringFixed(2)},
			{"annualTaxPaid", res.AnnualTaxPaid.StringFixed(2)},
		}
		if res.MonthlyCashFlow != nil {
			rows = append(rows, []string{"monthlyCashFlow", res.MonthlyCashFlow.StringFixed(2)})
		}
		if res.RunwayMonths != nil {
			rows = append(rows, []string{"runwayMonths", res.RunwayMonths.StringFixed(2)})
		}
		if err := w.WriteAll(rows); err != nil {
			return "", err
		}
	}

	if report.RequiredRate != nil {
		if err := w.Write([]string{"requiredHourlyRate", report.RequiredRate.StringFixed(2)}); err != nil {
			return "", err
		}
	}

	if err := writeProjectionCSV(w, "seasonal", report.Seasonal); err != nil {
		return "", err
	}
	if err := writeProjectionCSV(w, "runway", report.Runway); err != nil {
		return "", err
	}

	w.Flush()
	return sb.String(), w.Error()
}

func writeProjectionCSV(w *csv.Writer, series string, points []projection.Point) error {
	if len(points) == 0 {
		return nil
	}
	if err := w.Write([]string{"series", "month", "pessimistic", "realistic", "optimistic"}); err != nil {
		return err
	}
	for _, pt := range points {
		row := []string{
			series,
			pt.Month,
			pt.Pessimistic.StringFixed(0),
			pt.Realistic.StringFixed(0),
			pt.Optimistic.StringFixed(0),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
