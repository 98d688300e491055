package domain

import "github.com/shopspring/decimal"

// TaxMode selects how annual tax is computed.
type TaxMode string

const (
	// TaxModeSimple applies a flat percentage to taxable income.
	TaxModeSimple TaxMode = "simple"
	// TaxModeSmart applies progressive marginal brackets.
	TaxModeSmart TaxMode = "smart"
)

// TaxBracket is one band of a progressive tax table. Brackets are consumed in
// slice order; UpTo is the band's upper bound, nil marking the unbounded top
// bracket. Tables are assumed to be supplied in ascending UpTo order with
// exactly one nil terminal bracket.
type TaxBracket struct {
	UpTo *decimal.Decimal `yaml:"upTo" json:"upTo"`
	Rate decimal.Decimal  `yaml:"rate" json:"rate"`
}

// IncomeConfig is the full input to an income calculation. All fields are
// treated as immutable for the duration of a calculation call; the engine
// holds no state between calls.
type IncomeConfig struct {
	HourlyRate              float64      `yaml:"hourlyRate" json:"hourlyRate"`
	HoursPerWeek            float64      `yaml:"hoursPerWeek" json:"hoursPerWeek"`
	UnbillableHoursPerWeek  float64      `yaml:"unbillableHoursPerWeek" json:"unbillableHoursPerWeek"`
	VacationWeeks           float64      `yaml:"vacationWeeks" json:"vacationWeeks"`
	MonthlyBusinessExpenses float64      `yaml:"monthlyBusinessExpenses" json:"monthlyBusinessExpenses"`
	MonthlyPersonalNeed     *float64     `yaml:"monthlyPersonalNeed" json:"monthlyPersonalNeed,omitempty"`
	CurrentSavings          *float64     `yaml:"currentSavings" json:"currentSavings,omitempty"`
	TaxRate                 float64      `yaml:"taxRate" json:"taxRate"`
	TaxMode                 TaxMode      `yaml:"taxMode" json:"taxMode,omitempty"`
	TaxBrackets             []TaxBracket `yaml:"taxBrackets" json:"taxBrackets,omitempty"`
}

// ConfigPatch is a partial IncomeConfig used to build a safe, fully populated
// config. Nil fields take the planner defaults; for the optional cash-flow
// fields nil means "not tracked".
type ConfigPatch struct {
	HourlyRate              *float64
	HoursPerWeek            *float64
	UnbillableHoursPerWeek  *float64
	VacationWeeks           *float64
	MonthlyBusinessExpenses *float64
	MonthlyPersonalNeed     *float64
	CurrentSavings          *float64
	TaxRate                 *float64
	TaxMode                 TaxMode
	TaxBrackets             []TaxBracket
}
