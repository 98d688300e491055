package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/fpgo/freelance-planner/internal/domain"
)

// ProgressiveTax computes tax owed on taxableIncome under a progressive
// bracket table. Brackets are walked in order, each taxing only the marginal
// amount between the previous bound and its own UpTo; the nil-bounded
// terminal bracket absorbs the remainder.
//
// A bracket with rate <= 0 contributes no tax but still advances the lower
// bound, so a tax-free band must be present as a zero-rate bracket to shift
// the bands above it.
//
// Negative income is clamped to zero. An empty bracket table yields zero.
func ProgressiveTax(taxableIncome decimal.Decimal, brackets []domain.TaxBracket) decimal.Decimal {
	income := taxableIncome
	if income.IsNegative() {
		income = decimal.Zero
	}
	if len(brackets) == 0 {
		return decimal.Zero
	}

	remaining := income
	previousLimit := decimal.Zero
	tax := decimal.Zero

	for _, bracket := range brackets {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		if bracket.Rate.LessThanOrEqual(decimal.Zero) {
			if bracket.UpTo != nil {
				previousLimit = *bracket.UpTo
			}
			continue
		}

		var taxableHere decimal.Decimal
		if bracket.UpTo == nil {
			taxableHere = remaining
		} else {
			bracketCap := decimal.Max(decimal.Zero, bracket.UpTo.Sub(previousLimit))
			taxableHere = decimal.Min(remaining, bracketCap)
		}

		tax = tax.Add(taxableHere.Mul(bracket.Rate))
		remaining = remaining.Sub(taxableHere)

		if bracket.UpTo != nil {
			previousLimit = *bracket.UpTo
		}
	}

	return tax
}

// DefaultProgressiveBrackets returns the built-in three-band table (15%, 25%,
// 35%) with boundaries scaled to the currency's denomination. This is a
// policy default for illustration, not a computed value.
func DefaultProgressiveBrackets(currency domain.Currency) []domain.TaxBracket {
	base := decimal.NewFromInt(100_000)
	if currency == domain.MXN {
		base = decimal.NewFromInt(2_000_000)
	}
	second := base.Mul(decimal.NewFromInt(2))

	return []domain.TaxBracket{
		{UpTo: &base, Rate: decimal.NewFromFloat(0.15)},
		{UpTo: &second, Rate: decimal.NewFromFloat(0.25)},
		{UpTo: nil, Rate: decimal.NewFromFloat(0.35)},
	}
}
