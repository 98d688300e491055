package domain

import "fmt"

// Currency identifies one of the supported billing/spending currencies.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	MXN Currency = "MXN"
)

// SupportedCurrencies lists every currency the planner understands, ordered
// strongest first.
var SupportedCurrencies = []Currency{USD, EUR, MXN}

// currencyStrength ranks currencies by assumed relative strength (1 =
// strongest). This ordering backs the FX fallback heuristic only; it is an
// approximation and can mis-rank pairs whose real-world strength differs.
var currencyStrength = map[Currency]int{
	USD: 1,
	EUR: 2,
	MXN: 3,
}

// currencySymbols maps currencies to their display symbol.
var currencySymbols = map[Currency]string{
	USD: "$",
	EUR: "€",
	MXN: "$",
}

// ParseCurrency validates a currency code.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(s)
	if !c.Valid() {
		return "", fmt.Errorf("unsupported currency %q", s)
	}
	return c, nil
}

// Valid reports whether the currency is one of the supported set.
func (c Currency) Valid() bool {
	_, ok := currencyStrength[c]
	return ok
}

// Strength returns the ordinal strength rank of the currency (1 = strongest).
// The second return is false for unknown currencies.
func (c Currency) Strength() (int, bool) {
	s, ok := currencyStrength[c]
	return s, ok
}

// Symbol returns the display symbol for the currency, defaulting to "$".
func (c Currency) Symbol() string {
	if sym, ok := currencySymbols[c]; ok {
		return sym
	}
	return "$"
}
