package calculation

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/fpgo/freelance-planner/internal/domain"
)

// Solver iteration budgets. Bracketing doubles the upper bound at most 20
// times before declaring the target unreachable; 30 bisection steps give
// relative precision beyond practical currency rounding (over 10^9 dynamic
// range). These are design constants, not tunables.
const (
	bracketingSteps = 20
	bisectionSteps  = 30
	minUpperRate    = 50
)

// RequiredHourlyRate solves for the hourly rate at which the config's annual
// net income reaches targetAnnualNet. The base config is clamped to the
// public input bounds before searching, then the solver brackets the target
// by doubling an upper bound and bisects the bracket. Any failure while
// evaluating a candidate rate propagates immediately.
func (e *CalculationEngine) RequiredHourlyRate(cfg domain.IncomeConfig, targetAnnualNet float64) (decimal.Decimal, error) {
	const op = "required_hourly_rate"

	if !isFinite(targetAnnualNet) || targetAnnualNet <= 0 {
		return decimal.Zero, newError(KindInvalidInput, op, "invalid target income")
	}

	base := normalizeConfig(cfg)
	target := decimal.NewFromFloat(targetAnnualNet)

	evalAt := func(rate decimal.Decimal) (decimal.Decimal, error) {
		c := base
		c.HourlyRate = rate.InexactFloat64()
		res, err := e.CalculateIncome(c)
		if err != nil {
			return decimal.Zero, err
		}
		return res.AnnualNet, nil
	}

	low := decimal.Zero
	high := decimal.NewFromFloat(math.Max(minUpperRate, base.HourlyRate))

	for i := 0; i < bracketingSteps; i++ {
		net, err := evalAt(high)
		if err != nil {
			return decimal.Zero, err
		}
		if net.GreaterThanOrEqual(target) {
			break
		}
		high = high.Mul(two)
	}

	net, err := evalAt(high)
	if err != nil {
		return decimal.Zero, err
	}
	if net.LessThan(target) {
		return decimal.Zero, newError(KindUnreachableTarget, op, "unable to reach target with current constraints")
	}

	for i := 0; i < bisectionSteps; i++ {
		mid := low.Add(high).Div(two)
		net, err := evalAt(mid)
		if err != nil {
			return decimal.Zero, err
		}
		if net.GreaterThanOrEqual(target) {
			high = mid
		} else {
			low = mid
		}
	}

	return high, nil
}

// RequiredRateFlatTax is the closed-form fast path for the flat-tax case:
//
//	requiredRate = target / ((1 - taxRate/100) * hoursPerWeek * billableWeeks)
//
// It is exact only for simple tax mode with no business-expense deduction and
// must not replace the general solver when progressive brackets or expenses
// participate.
func (e *CalculationEngine) RequiredRateFlatTax(cfg domain.IncomeConfig, targetAnnualNet float64) (decimal.Decimal, error) {
	const op = "required_rate_flat_tax"

	if !isFinite(targetAnnualNet) || targetAnnualNet <= 0 {
		return decimal.Zero, newError(KindInvalidInput, op, "invalid target income")
	}
	if !isFinite(cfg.HoursPerWeek) || !isFinite(cfg.VacationWeeks) || !isFinite(cfg.TaxRate) {
		return decimal.Zero, newError(KindInvalidInput, op, "invalid input values")
	}

	billableWeeks := math.Max(1, 52-cfg.VacationWeeks)
	taxMultiplier := 1 - cfg.TaxRate/100

	if cfg.HoursPerWeek == 0 || billableWeeks == 0 || taxMultiplier == 0 {
		return decimal.Zero, newError(KindDegenerateInput, op, "cannot calculate with zero hours or 100% tax rate")
	}

	denominator := decimal.NewFromFloat(taxMultiplier).
		Mul(decimal.NewFromFloat(cfg.HoursPerWeek)).
		Mul(decimal.NewFromFloat(billableWeeks))

	return decimal.NewFromFloat(targetAnnualNet).Div(denominator), nil
}

// RequiredHoursFlatTax solves the flat-tax closed form for weekly hours
// instead of rate. Same exactness caveats as RequiredRateFlatTax.
func (e *CalculationEngine) RequiredHoursFlatTax(cfg domain.IncomeConfig, targetAnnualNet float64) (decimal.Decimal, error) {
	const op = "required_hours_flat_tax"

	if !isFinite(targetAnnualNet) || targetAnnualNet <= 0 {
		return decimal.Zero, newError(KindInvalidInput, op, "invalid target income")
	}
	if !isFinite(cfg.HourlyRate) || !isFinite(cfg.VacationWeeks) || !isFinite(cfg.TaxRate) {
		return decimal.Zero, newError(KindInvalidInput, op, "invalid input values")
	}

	billableWeeks := math.Max(1, 52-cfg.VacationWeeks)
	taxMultiplier := 1 - cfg.TaxRate/100

	if cfg.HourlyRate == 0 || billableWeeks == 0 || taxMultiplier == 0 {
		return decimal.Zero, newError(KindDegenerateInput, op, "cannot calculate with zero rate or 100% tax rate")
	}

	denominator := decimal.NewFromFloat(taxMultiplier).
		Mul(decimal.NewFromFloat(cfg.HourlyRate)).
		Mul(decimal.NewFromFloat(billableWeeks))

	return decimal.NewFromFloat(targetAnnualNet).Div(denominator), nil
}
