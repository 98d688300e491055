package output

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/fpgo/freelance-planner/internal/domain"
	"github.com/fpgo/freelance-planner/internal/projection"
)

const (
	pdfContentWidth = 180.0
	pdfRowHeight    = 7.0
)

// WritePDFReport writes the report as a single-document PDF to path.
func WritePDFReport(report *Report, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(pdfContentWidth, 12, "Freelance Income Plan", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "I", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(pdfContentWidth, 6,
		fmt.Sprintf("Generated %s", report.GeneratedAt.Format("2 January 2006")), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	if report.Result != nil {
		res := report.Result
		cur := report.Currency

		writePDFSection(pdf, "Income Summary")
		writePDFRow(pdf, "Annual gross", pdfMoney(res.AnnualGross.StringFixed(2), cur))
		writePDFRow(pdf, "Business expenses", pdfMoney(res.AnnualBusinessExpenses.StringFixed(2), cur))
		writePDFRow(pdf, "Taxable income", pdfMoney(res.AnnualTaxableIncome.StringFixed(2), cur))
		writePDFRow(pdf, "Tax paid", pdfMoney(res.AnnualTaxPaid.StringFixed(2), cur))
		writePDFRow(pdf, "Annual net", pdfMoney(res.AnnualNet.StringFixed(2), cur))
		writePDFRow(pdf, "Monthly net", pdfMoney(res.MonthlyNet.StringFixed(2), cur))
		writePDFRow(pdf, "Effective hourly rate", pdfMoney(res.EffectiveHourlyRate.StringFixed(2), cur))
		writePDFRow(pdf, "Take-home per billable hour", pdfMoney(res.TakeHomePerBillableHour.StringFixed(2), cur))
		writePDFRow(pdf, "Unbillable share", res.UnbillablePercentage.StringFixed(1)+"%")
		pdf.Ln(4)

		writePDFSection(pdf, "Cash Flow")
		switch {
		case res.MonthlyCashFlow == nil:
			writePDFRow(pdf, "Monthly cash flow", "not tracked")
		case res.RunwayIsSustainable:
			writePDFRow(pdf, "Monthly cash flow", pdfMoney(res.MonthlyCashFlow.StringFixed(2), cur)+" (sustainable)")
		case res.RunwayMonths == nil:
			writePDFRow(pdf, "Monthly cash flow", pdfMoney(res.MonthlyCashFlow.StringFixed(2), cur)+" (savings unknown)")
		default:
			writePDFRow(pdf, "Monthly cash flow", pdfMoney(res.MonthlyCashFlow.StringFixed(2), cur))
			writePDFRow(pdf, "Runway", res.RunwayMonths.StringFixed(1)+" months")
		}
		pdf.Ln(4)
	}

	if report.RequiredRate != nil {
		writePDFSection(pdf, "Target")
		if report.TargetAnnualNet != nil {
			writePDFRow(pdf, "Target annual net", fmt.Sprintf("%.2f", *report.TargetAnnualNet))
		}
		writePDFRow(pdf, "Required hourly rate", pdfMoney(report.RequiredRate.StringFixed(2), report.Currency))
		pdf.Ln(4)
	}

	if len(report.Seasonal) > 0 {
		writePDFProjection(pdf, "Seasonal Projection (monthly net)", report.Seasonal)
	}
	if len(report.Runway) > 0 {
		writePDFProjection(pdf, "Runway Projection (savings balance)", report.Runway)
	}

	return pdf.OutputFileAndClose(path)
}

func writePDFSection(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 51, 102)
	pdf.SetFillColor(245, 247, 250)
	pdf.CellFormat(pdfContentWidth, 8, title, "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(50, 50, 50)
}

func writePDFRow(pdf *fpdf.Fpdf, label, value string) {
	pdf.CellFormat(pdfContentWidth/2, pdfRowHeight, label, "LB", 0, "L", false, 0, "")
	pdf.CellFormat(pdfContentWidth/2, pdfRowHeight, value, "RB", 1, "R", false, 0, "")
}

func writePDFProjection(pdf *fpdf.Fpdf, title string, points []projection.Point) {
	writePDFSection(pdf, title)

	colWidth := pdfContentWidth / 4
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(colWidth, pdfRowHeight, "Month", "LB", 0, "L", false, 0, "")
	pdf.CellFormat(colWidth, pdfRowHeight, "Pessimistic", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colWidth, pdfRowHeight, "Realistic", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colWidth, pdfRowHeight, "Optimistic", "RB", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, pt := range points {
		pdf.CellFormat(colWidth, pdfRowHeight, pt.Month, "LB", 0, "L", false, 0, "")
		pdf.CellFormat(colWidth, pdfRowHeight, pt.Pessimistic.StringFixed(0), "B", 0, "R", false, 0, "")
		pdf.CellFormat(colWidth, pdfRowHeight, pt.Realistic.StringFixed(0), "B", 0, "R", false, 0, "")
		pdf.CellFormat(colWidth, pdfRowHeight, pt.Optimistic.StringFixed(0), "RB", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

// pdfMoney prefixes an amount with the currency code: the built-in PDF fonts
// are Latin-1, so symbols like the euro sign are avoided.
func pdfMoney(amount string, currency domain.Currency) string {
	return fmt.Sprintf("%s %s", currency, amount)
}
