package calculation

import (
	"math"

	"github.com/fpgo/freelance-planner/internal/domain"
)

// Input bounds applied by ValidateAndClampConfig and by the engine's internal
// normalization pass.
const (
	MaxHourlyRate      = 100_000
	MaxWeeklyHours     = 168
	MaxVacationWeeks   = 52
	MaxTaxRate         = 100
	MaxMonthlyExpenses = 10_000_000
	MaxPersonalNeed    = 10_000_000
	MaxSavings         = 100_000_000
)

// Defaults used when a ConfigPatch leaves a required field unset.
const (
	DefaultHourlyRate    = 500
	DefaultHoursPerWeek  = 40
	DefaultVacationWeeks = 2
	DefaultTaxRate       = 25
)

// clampValue bounds v to [min, max]. Non-finite values pass through so the
// engine's finiteness validation can reject them with the right error kind.
func clampValue(v, min, max float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Max(min, math.Min(max, v))
}

// ValidateAndClampConfig normalizes an arbitrary partial input into a safe,
// fully populated config. Unset required fields take the planner defaults;
// unset optional fields stay absent.
func ValidateAndClampConfig(patch domain.ConfigPatch) domain.IncomeConfig {
	pick := func(p *float64, def float64) float64 {
		if p == nil {
			return def
		}
		return *p
	}

	cfg := domain.IncomeConfig{
		HourlyRate:              clampValue(pick(patch.HourlyRate, DefaultHourlyRate), 0, MaxHourlyRate),
		HoursPerWeek:            clampValue(pick(patch.HoursPerWeek, DefaultHoursPerWeek), 0, MaxWeeklyHours),
		UnbillableHoursPerWeek:  clampValue(pick(patch.UnbillableHoursPerWeek, 0), 0, MaxWeeklyHours),
		VacationWeeks:           clampValue(pick(patch.VacationWeeks, DefaultVacationWeeks), 0, MaxVacationWeeks),
		MonthlyBusinessExpenses: clampValue(pick(patch.MonthlyBusinessExpenses, 0), 0, MaxMonthlyExpenses),
		TaxRate:                 clampValue(pick(patch.TaxRate, DefaultTaxRate), 0, MaxTaxRate),
		TaxMode:                 patch.TaxMode,
		TaxBrackets:             patch.TaxBrackets,
	}

	if patch.MonthlyPersonalNeed != nil {
		need := clampValue(*patch.MonthlyPersonalNeed, 0, MaxPersonalNeed)
		cfg.MonthlyPersonalNeed = &need
	}
	if patch.CurrentSavings != nil {
		savings := clampValue(*patch.CurrentSavings, 0, MaxSavings)
		cfg.CurrentSavings = &savings
	}

	return cfg
}

// normalizeConfig bounds a full config before calculation. Required fields
// are clamped to the public bounds. Optional cash-flow fields normalize
// invalid values (non-finite, and negative personal need) to absent so the
// cash-flow state machine reports "untracked" instead of fabricating a zero.
func normalizeConfig(cfg domain.IncomeConfig) domain.IncomeConfig {
	out := cfg
	out.HourlyRate = clampValue(cfg.HourlyRate, 0, MaxHourlyRate)
	out.HoursPerWeek = clampValue(cfg.HoursPerWeek, 0, MaxWeeklyHours)
	out.UnbillableHoursPerWeek = clampValue(cfg.UnbillableHoursPerWeek, 0, MaxWeeklyHours)
	out.VacationWeeks = clampValue(cfg.VacationWeeks, 0, MaxVacationWeeks)
	out.MonthlyBusinessExpenses = clampValue(cfg.MonthlyBusinessExpenses, 0, MaxMonthlyExpenses)
	out.TaxRate = clampValue(cfg.TaxRate, 0, MaxTaxRate)

	out.MonthlyPersonalNeed = nil
	if cfg.MonthlyPersonalNeed != nil {
		need := *cfg.MonthlyPersonalNeed
		if isFinite(need) && need >= 0 {
			need = math.Min(need, MaxPersonalNeed)
			out.MonthlyPersonalNeed = &need
		}
	}

	out.CurrentSavings = nil
	if cfg.CurrentSavings != nil {
		savings := *cfg.CurrentSavings
		if isFinite(savings) {
			// Negative savings survive as-is: the runway logic reports zero
			// months for them instead of treating them as unknown.
			savings = math.Min(savings, MaxSavings)
			out.CurrentSavings = &savings
		}
	}

	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
