// Package output renders calculation results and projections as console,
// JSON, CSV, or PDF reports.
package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fpgo/freelance-planner/internal/domain"
	"github.com/fpgo/freelance-planner/internal/projection"
)

// Report bundles everything a formatter may render. Optional sections are nil
// when not computed.
type Report struct {
	GeneratedAt     time.Time            `json:"generatedAt"`
	Currency        domain.Currency      `json:"currency"`
	DisplayCurrency domain.Currency      `json:"displayCurrency,omitempty"`
	Config          domain.IncomeConfig  `json:"config"`
	Result          *domain.IncomeResult `json:"result,omitempty"`
	TargetAnnualNet *float64             `json:"targetAnnualNet,omitempty"`
	RequiredRate    *decimal.Decimal     `json:"requiredRate,omitempty"`
	Seasonal        []projection.Point   `json:"seasonal,omitempty"`
	Runway          []projection.Point   `json:"runway,omitempty"`
	FXDegraded      bool                 `json:"fxDegraded,omitempty"`
}

// FormatReport renders a report in the named format. PDF output writes files
// and lives in WritePDFReport instead.
func FormatReport(report *Report, format string) (string, error) {
	switch format {
	case "console", "":
		return FormatConsole(report), nil
	case "json":
		return FormatJSON(report, true)
	case "csv":
		return FormatCSV(report)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// FormatMoney renders a decimal as a currency string with thousands
// separators, e.g. $1,234,567.89.
func FormatMoney(d decimal.Decimal, currency domain.Currency) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	fixed := d.Abs().StringFixed(2)

	intPart := fixed
	fracPart := ""
	if idx := strings.IndexByte(fixed, '.'); idx >= 0 {
		intPart, fracPart = fixed[:idx], fixed[idx:]
	}

	return sign + currency.Symbol() + groupThousands(intPart) + fracPart
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var sb strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		sb.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(digits[i : i+3])
	}
	return sb.String()
}
