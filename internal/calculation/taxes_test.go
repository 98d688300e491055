package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/fpgo/freelance-planner/internal/domain"
)

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func TestProgressiveTax_DefaultBrackets(t *testing.T) {
	brackets := DefaultProgressiveBrackets(domain.USD)

	tests := []struct {
		name     string
		income   int64
		expected string
	}{
		{"zero income", 0, "0"},
		{"inside first band", 50_000, "7500"},
		{"first band boundary", 100_000, "15000"},
		{"spans two bands", 150_000, "27500"},
		{"second band boundary", 200_000, "40000"},
		{"into top band", 300_000, "75000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax := ProgressiveTax(decimal.NewFromInt(tt.income), brackets)
			expected, _ := decimal.NewFromString(tt.expected)

			assert.True(t, tax.Equal(expected),
				"Tax on %d should be %s, got %s", tt.income, tt.expected, tax)
		})
	}
}

func TestProgressiveTax_NegativeIncome(t *testing.T) {
	brackets := DefaultProgressiveBrackets(domain.USD)

	tax := ProgressiveTax(decimal.NewFromInt(-10_000), brackets)

	assert.True(t, tax.IsZero(), "Negative income should owe zero tax")
}

func TestProgressiveTax_EmptyBrackets(t *testing.T) {
	tax := ProgressiveTax(decimal.NewFromInt(100_000), nil)

	assert.True(t, tax.IsZero(), "Empty bracket table should yield zero tax")
}

func TestProgressiveTax_ZeroRateBandDoesNotConsumeIncome(t *testing.T) {
	// A zero-rate band advances the lower bound but collects nothing and does
	// not consume income, so an unbounded bracket directly above it still
	// taxes the full amount.
	free := decimal.NewFromInt(20_000)
	brackets := []domain.TaxBracket{
		{UpTo: decimalPtr(free), Rate: decimal.Zero},
		{UpTo: nil, Rate: decimal.NewFromFloat(0.30)},
	}

	tax := ProgressiveTax(decimal.NewFromInt(50_000), brackets)

	assert.True(t, tax.Equal(decimal.NewFromInt(15_000)),
		"The unbounded bracket taxes all 50,000 at 30%%, got %s", tax)
}

func TestProgressiveTax_ZeroRateBandShiftsBoundedBandAbove(t *testing.T) {
	// With a bounded band above the tax-free band the shift is observable:
	// the middle band's capacity shrinks to 50,000 - 20,000 = 30,000, pushing
	// the remaining 20,000 into the 40% bracket. Without the shift all
	// 50,000 would fit in the 30% band for 15,000.
	free := decimal.NewFromInt(20_000)
	mid := decimal.NewFromInt(50_000)
	brackets := []domain.TaxBracket{
		{UpTo: decimalPtr(free), Rate: decimal.Zero},
		{UpTo: decimalPtr(mid), Rate: decimal.NewFromFloat(0.30)},
		{UpTo: nil, Rate: decimal.NewFromFloat(0.40)},
	}

	tax := ProgressiveTax(decimal.NewFromInt(50_000), brackets)

	assert.True(t, tax.Equal(decimal.NewFromInt(17_000)),
		"30,000 at 30%% plus 20,000 at 40%% should be 17,000, got %s", tax)
}

func TestProgressiveTax_UnboundedTerminalBracket(t *testing.T) {
	brackets := DefaultProgressiveBrackets(domain.USD)

	// 1,000,000: 15,000 + 25,000 + 800,000*0.35 = 320,000.
	tax := ProgressiveTax(decimal.NewFromInt(1_000_000), brackets)

	assert.True(t, tax.Equal(decimal.NewFromInt(320_000)),
		"Terminal bracket should absorb the remainder, got %s", tax)
}

func TestDefaultProgressiveBrackets_CurrencyScaling(t *testing.T) {
	usd := DefaultProgressiveBrackets(domain.USD)
	mxn := DefaultProgressiveBrackets(domain.MXN)

	assert.True(t, usd[0].UpTo.Equal(decimal.NewFromInt(100_000)))
	assert.True(t, usd[1].UpTo.Equal(decimal.NewFromInt(200_000)))
	assert.Nil(t, usd[2].UpTo, "Top bracket should be unbounded")

	assert.True(t, mxn[0].UpTo.Equal(decimal.NewFromInt(2_000_000)),
		"MXN boundaries should be scaled to the currency denomination")
	assert.True(t, mxn[1].UpTo.Equal(decimal.NewFromInt(4_000_000)))

	// Same rates regardless of currency.
	for i := range usd {
		assert.True(t, usd[i].Rate.Equal(mxn[i].Rate), "Rates should not vary by currency")
	}
}
