// Package fx converts monetary amounts between currencies using a single
// user-supplied directional exchange rate. It never fails the caller: missing
// or invalid rates degrade to returning the amount unchanged, with the
// degradation reported through an explicit Status so callers can surface it.
package fx

import (
	"math"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fpgo/freelance-planner/internal/domain"
)

// Status reports how a conversion was performed.
type Status string

const (
	// StatusIdentity means source and target currency were the same.
	StatusIdentity Status = "identity"
	// StatusRateApplied means the billing/spending context determined the
	// rate direction.
	StatusRateApplied Status = "rate_applied"
	// StatusHeuristicApplied means the currency-strength ordering determined
	// the rate direction. The ordering is an approximation; it can
	// mis-convert pairs whose real-world relative strength contradicts it.
	StatusHeuristicApplied Status = "heuristic_applied"
	// StatusRateUnavailable means no valid positive finite rate was supplied;
	// the amount was returned unchanged.
	StatusRateUnavailable Status = "rate_unavailable"
)

// Degraded reports whether the conversion silently returned the unconverted
// amount. Callers should surface this separately rather than inferring it
// from the returned value.
func (s Status) Degraded() bool {
	return s == StatusRateUnavailable
}

// RateContext carries the exchange rate and its direction. The rate is always
// quoted as "1 unit of billing currency = Rate units of spending currency".
type RateContext struct {
	ExchangeRate     *float64        `json:"exchangeRate"`
	BillingCurrency  domain.Currency `json:"billingCurrency,omitempty"`
	SpendingCurrency domain.Currency `json:"spendingCurrency,omitempty"`
}

// ConversionParams describes one conversion request.
type ConversionParams struct {
	Amount       decimal.Decimal
	FromCurrency domain.Currency
	ToCurrency   domain.Currency
	Rate         RateContext
}

// Converter performs currency conversions. It holds no rate state of its own;
// rate fetching is a collaborator concern and every call consumes the rate it
// is handed.
type Converter struct {
	logger *zap.Logger
}

// NewConverter creates a converter. A nil logger falls back to a no-op logger.
func NewConverter(logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{logger: logger}
}

// Convert converts the amount, discarding the status. See ConvertWithStatus.
func (c *Converter) Convert(params ConversionParams) decimal.Decimal {
	amount, _ := c.ConvertWithStatus(params)
	return amount
}

// ConvertWithStatus converts an amount between two currencies.
//
// Same-currency conversions are the identity regardless of rate. When the
// billing/spending context matches the requested pair, billing→spending
// multiplies by the rate and spending→billing divides. Otherwise the
// currency-strength ordering decides: stronger→weaker multiplies,
// weaker→stronger divides.
func (c *Converter) ConvertWithStatus(params ConversionParams) (decimal.Decimal, Status) {
	if params.FromCurrency == params.ToCurrency {
		return params.Amount, StatusIdentity
	}

	if !validRate(params.Rate.ExchangeRate) {
		c.logger.Warn("no valid exchange rate for currency conversion",
			zap.String("from", string(params.FromCurrency)),
			zap.String("to", string(params.ToCurrency)),
		)
		return params.Amount, StatusRateUnavailable
	}
	rate := decimal.NewFromFloat(*params.Rate.ExchangeRate)

	billing := params.Rate.BillingCurrency
	spending := params.Rate.SpendingCurrency
	if billing != "" && spending != "" {
		if params.FromCurrency == billing && params.ToCurrency == spending {
			return params.Amount.Mul(rate), StatusRateApplied
		}
		if params.FromCurrency == spending && params.ToCurrency == billing {
			return params.Amount.Div(rate), StatusRateApplied
		}
		c.logger.Warn("currency pair does not match billing/spending context",
			zap.String("from", string(params.FromCurrency)),
			zap.String("to", string(params.ToCurrency)),
			zap.String("billing", string(billing)),
			zap.String("spending", string(spending)),
		)
	}

	fromStrength, fromOK := params.FromCurrency.Strength()
	toStrength, toOK := params.ToCurrency.Strength()

	switch {
	case fromOK && toOK && fromStrength < toStrength:
		return params.Amount.Mul(rate), StatusHeuristicApplied
	case fromOK && toOK && fromStrength > toStrength:
		return params.Amount.Div(rate), StatusHeuristicApplied
	default:
		c.logger.Warn("currency strength ordering is inconclusive, multiplying",
			zap.String("from", string(params.FromCurrency)),
			zap.String("to", string(params.ToCurrency)),
		)
		return params.Amount.Mul(rate), StatusHeuristicApplied
	}
}

// SanitizeAmount guards the float64 boundary: non-finite amounts are logged
// and treated as zero rather than failing the caller.
func (c *Converter) SanitizeAmount(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		c.logger.Warn("non-finite amount for currency conversion treated as zero",
			zap.Float64("amount", v),
		)
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

func validRate(rate *float64) bool {
	return rate != nil && *rate > 0 && !math.IsInf(*rate, 0) && !math.IsNaN(*rate)
}
