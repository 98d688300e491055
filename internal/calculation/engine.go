package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/fpgo/freelance-planner/internal/domain"
)

// Fixed calendar divisors for deriving sub-annual figures. These are
// deliberately independent of the billable-week count: "monthly" means
// annual/12, not an average over worked months.
var (
	daysPerYear   = decimal.NewFromInt(365)
	weeksPerYear  = decimal.NewFromInt(52)
	monthsPerYear = decimal.NewFromInt(12)
	hundred       = decimal.NewFromInt(100)
	two           = decimal.NewFromInt(2)
)

// CalculationEngine evaluates income configurations. It is stateless and safe
// for concurrent use; every calculation is a pure function of its input.
type CalculationEngine struct {
	Logger Logger
}

// NewCalculationEngine creates an engine with a no-op logger.
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{Logger: NopLogger{}}
}

// SetLogger replaces the engine logger. A nil logger installs NopLogger.
func (e *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	e.Logger = l
}

// CalculateIncome converts a config into a complete IncomeResult. Required
// numeric fields must be finite; otherwise the calculation fails atomically
// with a KindInvalidInput error and no partial result. Unexpected panics are
// recovered and surfaced as KindInternal errors: the engine never throws past
// this boundary.
func (e *CalculationEngine) CalculateIncome(cfg domain.IncomeConfig) (result *domain.IncomeResult, err error) {
	const op = "calculate_income"

	defer func() {
		if r := recover(); r != nil {
			e.Logger.Errorf("income calculation panicked: %v", r)
			result = nil
			err = newError(KindInternal, op, "calculation failed")
		}
	}()

	if !isFinite(cfg.HourlyRate) ||
		!isFinite(cfg.HoursPerWeek) ||
		!isFinite(cfg.UnbillableHoursPerWeek) ||
		!isFinite(cfg.VacationWeeks) ||
		!isFinite(cfg.MonthlyBusinessExpenses) ||
		!isFinite(cfg.TaxRate) {
		return nil, newError(KindInvalidInput, op, "invalid input values")
	}

	cfg = normalizeConfig(cfg)

	// At least one week is always assumed worked, so a full-year vacation
	// cannot zero out the divisors below.
	billableWeeksF := 52 - cfg.VacationWeeks
	if billableWeeksF < 1 {
		billableWeeksF = 1
	}

	rate := decimal.NewFromFloat(cfg.HourlyRate)
	hours := decimal.NewFromFloat(cfg.HoursPerWeek)
	unbillable := decimal.NewFromFloat(cfg.UnbillableHoursPerWeek)
	billableWeeks := decimal.NewFromFloat(billableWeeksF)

	annualGross := rate.Mul(hours).Mul(billableWeeks)
	annualExpenses := decimal.NewFromFloat(cfg.MonthlyBusinessExpenses).Mul(monthsPerYear)

	// Expenses reduce taxable income but never push it negative.
	annualTaxable := decimal.Max(decimal.Zero, annualGross.Sub(annualExpenses))

	var annualTax decimal.Decimal
	if cfg.TaxMode == domain.TaxModeSmart && len(cfg.TaxBrackets) > 0 {
		annualTax = ProgressiveTax(annualTaxable, cfg.TaxBrackets)
	} else {
		annualTax = annualTaxable.Mul(decimal.NewFromFloat(cfg.TaxRate)).Div(hundred)
	}

	annualNet := decimal.Max(decimal.Zero, annualTaxable.Sub(annualTax))

	totalWorkHours := hours.Add(unbillable).Mul(billableWeeks)
	billableHours := hours.Mul(billableWeeks)

	effectiveRate := decimal.Zero
	if totalWorkHours.IsPositive() {
		effectiveRate = annualNet.Div(totalWorkHours)
	}
	takeHome := decimal.Zero
	if billableHours.IsPositive() {
		takeHome = annualNet.Div(billableHours)
	}

	unbillablePct := decimal.Zero
	if weeklyTotal := hours.Add(unbillable); weeklyTotal.IsPositive() {
		unbillablePct = unbillable.Div(weeklyTotal).Mul(hundred)
	}

	res := &domain.IncomeResult{
		DailyGross:              annualGross.Div(daysPerYear),
		DailyNet:                annualNet.Div(daysPerYear),
		WeeklyGross:             annualGross.Div(weeksPerYear),
		WeeklyNet:               annualNet.Div(weeksPerYear),
		MonthlyGross:            annualGross.Div(monthsPerYear),
		MonthlyNet:              annualNet.Div(monthsPerYear),
		AnnualGross:             annualGross,
		AnnualNet:               annualNet,
		EffectiveHourlyRate:     effectiveRate,
		TakeHomePerBillableHour: takeHome,
		UnbillablePercentage:    unbillablePct,
		AnnualBusinessExpenses:  annualExpenses,
		AnnualTaxableIncome:     annualTaxable,
		AnnualTaxPaid:           annualTax,
	}

	e.applyCashFlow(res, cfg)

	return res, nil
}

// applyCashFlow fills the cash-flow and runway fields. Exactly one of four
// outcomes applies:
//
//  1. no tracked personal need: cash flow and runway stay nil, unsustainable;
//  2. non-negative cash flow: income alone covers the need, runway nil;
//  3. negative cash flow with unknown savings: unsustainable, duration unknown;
//  4. negative cash flow with known savings: runway = savings / |cash flow|,
//     zero when savings are non-positive.
func (e *CalculationEngine) applyCashFlow(res *domain.IncomeResult, cfg domain.IncomeConfig) {
	if cfg.MonthlyPersonalNeed == nil {
		return
	}

	need := decimal.NewFromFloat(*cfg.MonthlyPersonalNeed)
	cashFlow := res.MonthlyNet.Sub(need)
	res.MonthlyCashFlow = &cashFlow

	if cashFlow.GreaterThanOrEqual(decimal.Zero) {
		res.RunwayIsSustainable = true
		return
	}

	if cfg.CurrentSavings == nil {
		return
	}

	savings := decimal.NewFromFloat(*cfg.CurrentSavings)
	if savings.LessThanOrEqual(decimal.Zero) {
		runway := decimal.Zero
		res.RunwayMonths = &runway
		return
	}

	runway := savings.Div(cashFlow.Abs())
	res.RunwayMonths = &runway
}
