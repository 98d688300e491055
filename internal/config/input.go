// Package config loads and validates YAML plan files: the base billing
// parameters plus optional scenario overrides, FX settings, seasonal
// settings, and a target net income.
package config

import (
	"fmt"
	"math"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/fpgo/freelance-planner/internal/calculation"
	"github.com/fpgo/freelance-planner/internal/domain"
	"github.com/fpgo/freelance-planner/internal/fx"
	"github.com/fpgo/freelance-planner/internal/projection"
)

// FXSettings holds the user-entered exchange rate and its direction.
type FXSettings struct {
	ExchangeRate     *float64        `yaml:"exchangeRate"`
	BillingCurrency  domain.Currency `yaml:"billingCurrency"`
	SpendingCurrency domain.Currency `yaml:"spendingCurrency"`
}

// RateContext adapts the settings for the fx converter.
func (s *FXSettings) RateContext() fx.RateContext {
	if s == nil {
		return fx.RateContext{}
	}
	return fx.RateContext{
		ExchangeRate:     s.ExchangeRate,
		BillingCurrency:  s.BillingCurrency,
		SpendingCurrency: s.SpendingCurrency,
	}
}

// SeasonalSettings selects the monthly multipliers, either a named pattern or
// an explicit 12-element table. Explicit multipliers win.
type SeasonalSettings struct {
	Pattern     projection.Pattern `yaml:"pattern"`
	Multipliers []float64          `yaml:"multipliers"`
}

// ScenarioInputs overrides the inputs that vary between scenarios.
type ScenarioInputs struct {
	HourlyRate    *float64 `yaml:"hourlyRate"`
	HoursPerWeek  *float64 `yaml:"hoursPerWeek"`
	VacationWeeks *float64 `yaml:"vacationWeeks"`
}

// Scenarios groups the three forecast scenarios.
type Scenarios struct {
	Pessimistic ScenarioInputs `yaml:"pessimistic"`
	Realistic   ScenarioInputs `yaml:"realistic"`
	Optimistic  ScenarioInputs `yaml:"optimistic"`
}

// Plan is a full planning configuration file.
type Plan struct {
	Currency        domain.Currency     `yaml:"currency"`
	DisplayCurrency domain.Currency     `yaml:"displayCurrency"`
	FX              *FXSettings         `yaml:"fx"`
	Seasonal        SeasonalSettings    `yaml:"seasonal"`
	Base            domain.IncomeConfig `yaml:"base"`
	Scenarios       Scenarios           `yaml:"scenarios"`
	TargetAnnualNet *float64            `yaml:"targetAnnualNet"`
}

// Default multipliers applied to the base hourly rate when a scenario
// override is absent, plus the default hours and vacation per scenario.
const (
	pessimisticRateFactor = 0.8
	pessimisticHours      = 25
	pessimisticVacation   = 6
	optimisticRateFactor  = 1.2
	optimisticHours       = 45
	optimisticVacation    = 1
)

var decimalOne = decimal.NewFromInt(1)

// InputParser handles parsing of plan files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML file and validates it.
func (ip *InputParser) LoadFromFile(filename string) (*Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}

	return &plan, nil
}

// ValidatePlan validates a loaded plan and fills in the currency default.
func (ip *InputParser) ValidatePlan(plan *Plan) error {
	if plan.Currency == "" {
		plan.Currency = domain.USD
	}
	if !plan.Currency.Valid() {
		return fmt.Errorf("unsupported currency %q", plan.Currency)
	}
	if plan.DisplayCurrency != "" && !plan.DisplayCurrency.Valid() {
		return fmt.Errorf("unsupported display currency %q", plan.DisplayCurrency)
	}

	if err := ip.validateSeasonal(&plan.Seasonal); err != nil {
		return err
	}
	if err := ip.validateFX(plan.FX); err != nil {
		return err
	}
	if err := ip.validateBrackets(plan.Base.TaxBrackets); err != nil {
		return err
	}

	switch plan.Base.TaxMode {
	case "", domain.TaxModeSimple, domain.TaxModeSmart:
	default:
		return fmt.Errorf("unknown tax mode %q", plan.Base.TaxMode)
	}

	if plan.TargetAnnualNet != nil {
		t := *plan.TargetAnnualNet
		if math.IsNaN(t) || math.IsInf(t, 0) || t <= 0 {
			return fmt.Errorf("targetAnnualNet must be a positive number")
		}
	}

	return nil
}

func (ip *InputParser) validateSeasonal(s *SeasonalSettings) error {
	if s.Pattern != "" {
		if _, ok := projection.Multipliers(s.Pattern); !ok {
			return fmt.Errorf("unknown seasonal pattern %q", s.Pattern)
		}
	}
	if s.Multipliers != nil {
		if len(s.Multipliers) != 12 {
			return fmt.Errorf("seasonal multipliers must have 12 entries, got %d", len(s.Multipliers))
		}
		for i, m := range s.Multipliers {
			if math.IsNaN(m) || math.IsInf(m, 0) || m < 0 {
				return fmt.Errorf("seasonal multiplier %d is invalid", i)
			}
		}
	}
	return nil
}

func (ip *InputParser) validateFX(s *FXSettings) error {
	if s == nil {
		return nil
	}
	if s.ExchangeRate != nil {
		r := *s.ExchangeRate
		if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
			return fmt.Errorf("exchangeRate must be a positive number")
		}
	}
	if (s.BillingCurrency == "") != (s.SpendingCurrency == "") {
		return fmt.Errorf("billingCurrency and spendingCurrency must be set together")
	}
	if s.BillingCurrency != "" && !s.BillingCurrency.Valid() {
		return fmt.Errorf("unsupported billing currency %q", s.BillingCurrency)
	}
	if s.SpendingCurrency != "" && !s.SpendingCurrency.Valid() {
		return fmt.Errorf("unsupported spending currency %q", s.SpendingCurrency)
	}
	return nil
}

// validateBrackets enforces at the input layer what the engine only assumes:
// ascending bounds, exactly one unbounded terminal bracket, rates in [0,1].
func (ip *InputParser) validateBrackets(brackets []domain.TaxBracket) error {
	if len(brackets) == 0 {
		return nil
	}

	for i, b := range brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimalOne) {
			return fmt.Errorf("bracket %d: rate must be in [0,1]", i)
		}
		if b.UpTo == nil {
			if i != len(brackets)-1 {
				return fmt.Errorf("bracket %d: unbounded bracket must be last", i)
			}
			continue
		}
		if !b.UpTo.IsPositive() {
			return fmt.Errorf("bracket %d: upper bound must be positive", i)
		}
		if i > 0 && brackets[i-1].UpTo != nil && !b.UpTo.GreaterThan(*brackets[i-1].UpTo) {
			return fmt.Errorf("bracket %d: upper bounds must be ascending", i)
		}
	}

	if brackets[len(brackets)-1].UpTo != nil {
		return fmt.Errorf("last bracket must be unbounded (upTo: null)")
	}

	return nil
}

// ScenarioConfigs derives the three scenario configs from the base config and
// any overrides. Absent overrides use the planner's forecast defaults:
// pessimistic 0.8x rate, 25 h, 6 wk; optimistic 1.2x rate, 45 h, 1 wk. The
// realistic scenario is the base itself unless overridden. Smart tax mode
// with no bracket table gets the default table for the plan currency.
func (p *Plan) ScenarioConfigs() (pessimistic, realistic, optimistic domain.IncomeConfig) {
	base := p.Base
	if base.TaxMode == domain.TaxModeSmart && len(base.TaxBrackets) == 0 {
		base.TaxBrackets = calculation.DefaultProgressiveBrackets(p.Currency)
	}

	realistic = applyOverrides(base, p.Scenarios.Realistic)

	pessimistic = applyOverrides(base, p.Scenarios.Pessimistic)
	if p.Scenarios.Pessimistic.HourlyRate == nil {
		pessimistic.HourlyRate = base.HourlyRate * pessimisticRateFactor
	}
	if p.Scenarios.Pessimistic.HoursPerWeek == nil {
		pessimistic.HoursPerWeek = pessimisticHours
	}
	if p.Scenarios.Pessimistic.VacationWeeks == nil {
		pessimistic.VacationWeeks = pessimisticVacation
	}

	optimistic = applyOverrides(base, p.Scenarios.Optimistic)
	if p.Scenarios.Optimistic.HourlyRate == nil {
		optimistic.HourlyRate = base.HourlyRate * optimisticRateFactor
	}
	if p.Scenarios.Optimistic.HoursPerWeek == nil {
		optimistic.HoursPerWeek = optimisticHours
	}
	if p.Scenarios.Optimistic.VacationWeeks == nil {
		optimistic.VacationWeeks = optimisticVacation
	}

	return pessimistic, realistic, optimistic
}

// SeasonalMultipliers resolves the plan's seasonal settings: explicit
// multipliers win, then the named pattern, then steady.
func (p *Plan) SeasonalMultipliers() []float64 {
	if p.Seasonal.Multipliers != nil {
		return p.Seasonal.Multipliers
	}
	if p.Seasonal.Pattern != "" {
		if m, ok := projection.Multipliers(p.Seasonal.Pattern); ok {
			return m
		}
	}
	m, _ := projection.Multipliers(projection.PatternSteady)
	return m
}

func applyOverrides(base domain.IncomeConfig, s ScenarioInputs) domain.IncomeConfig {
	cfg := base
	if s.HourlyRate != nil {
		cfg.HourlyRate = *s.HourlyRate
	}
	if s.HoursPerWeek != nil {
		cfg.HoursPerWeek = *s.HoursPerWeek
	}
	if s.VacationWeeks != nil {
		cfg.VacationWeeks = *s.VacationWeeks
	}
	return cfg
}
