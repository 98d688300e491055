package domain

import "github.com/shopspring/decimal"

// IncomeResult is the fully derived output of one income calculation. It has
// no identity of its own: it is recomputed on every call and never mutated.
//
// Daily, weekly, and monthly figures are fixed calendar fractions of the
// annual figures (365 days, 52 weeks, 12 months) independent of how many
// weeks are actually worked.
type IncomeResult struct {
	DailyGross   decimal.Decimal `json:"dailyGross"`
	DailyNet     decimal.Decimal `json:"dailyNet"`
	WeeklyGross  decimal.Decimal `json:"weeklyGross"`
	WeeklyNet    decimal.Decimal `json:"weeklyNet"`
	MonthlyGross decimal.Decimal `json:"monthlyGross"`
	MonthlyNet   decimal.Decimal `json:"monthlyNet"`
	AnnualGross  decimal.Decimal `json:"annualGross"`
	AnnualNet    decimal.Decimal `json:"annualNet"`

	// EffectiveHourlyRate is annual net divided by all hours worked per year,
	// billable and unbillable.
	EffectiveHourlyRate decimal.Decimal `json:"effectiveHourlyRate"`
	// TakeHomePerBillableHour is annual net divided by billable hours only.
	TakeHomePerBillableHour decimal.Decimal `json:"takeHomePerBillableHour"`
	// UnbillablePercentage is the share of weekly worked hours that are not
	// billed, as a percentage.
	UnbillablePercentage decimal.Decimal `json:"unbillablePercentage"`

	AnnualBusinessExpenses decimal.Decimal `json:"annualBusinessExpenses"`
	AnnualTaxableIncome    decimal.Decimal `json:"annualTaxableIncome"`
	AnnualTaxPaid          decimal.Decimal `json:"annualTaxPaid"`

	// MonthlyCashFlow is monthly net minus the monthly personal need; nil when
	// no personal need is tracked. May be negative.
	MonthlyCashFlow *decimal.Decimal `json:"monthlyCashFlow,omitempty"`
	// RunwayMonths is how long current savings cover a negative cash flow.
	// Nil when cash flow is untracked, non-negative, or savings are unknown.
	RunwayMonths *decimal.Decimal `json:"runwayMonths,omitempty"`
	// RunwayIsSustainable is true only when income alone covers the tracked
	// personal need indefinitely.
	RunwayIsSustainable bool `json:"runwayIsSustainable"`
}
