package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fpgo/freelance-planner/internal/domain"
	"github.com/fpgo/freelance-planner/internal/projection"
)

func floatPtr(v float64) *float64 { return &v }

func writePlanFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile_FullPlan(t *testing.T) {
	path := writePlanFile(t, `
currency: EUR
displayCurrency: USD
fx:
  exchangeRate: 1.1
  billingCurrency: EUR
  spendingCurrency: USD
seasonal:
  pattern: q4-heavy
base:
  hourlyRate: 95
  hoursPerWeek: 36
  unbillableHoursPerWeek: 4
  vacationWeeks: 5
  monthlyBusinessExpenses: 800
  monthlyPersonalNeed: 3200
  currentSavings: 25000
  taxRate: 30
scenarios:
  optimistic:
    hourlyRate: 120
targetAnnualNet: 90000
`)

	parser := NewInputParser()
	plan, err := parser.LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, domain.EUR, plan.Currency)
	assert.Equal(t, domain.USD, plan.DisplayCurrency)
	assert.Equal(t, 95.0, plan.Base.HourlyRate)
	assert.Equal(t, projection.PatternQ4Heavy, plan.Seasonal.Pattern)
	require.NotNil(t, plan.FX)
	require.NotNil(t, plan.FX.ExchangeRate)
	assert.Equal(t, 1.1, *plan.FX.ExchangeRate)
	require.NotNil(t, plan.TargetAnnualNet)
	assert.Equal(t, 90_000.0, *plan.TargetAnnualNet)
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	parser := NewInputParser()

	_, err := parser.LoadFromFile("/nonexistent/plan.yaml")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestLoadFromFile_MalformedYAML(t *testing.T) {
	path := writePlanFile(t, "base: [not: a: mapping")

	parser := NewInputParser()
	_, err := parser.LoadFromFile(path)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidatePlan_CurrencyDefaultsToUSD(t *testing.T) {
	parser := NewInputParser()
	plan := &Plan{}

	require.NoError(t, parser.ValidatePlan(plan))

	assert.Equal(t, domain.USD, plan.Currency)
}

func TestValidatePlan_Rejections(t *testing.T) {
	parser := NewInputParser()

	tests := []struct {
		name    string
		plan    Plan
		wantErr string
	}{
		{
			"unsupported currency",
			Plan{Currency: "GBP"},
			"unsupported currency",
		},
		{
			"unsupported display currency",
			Plan{DisplayCurrency: "JPY"},
			"unsupported display currency",
		},
		{
			"unknown seasonal pattern",
			Plan{Seasonal: SeasonalSettings{Pattern: "spiky"}},
			"unknown seasonal pattern",
		},
		{
			"wrong multiplier count",
			Plan{Seasonal: SeasonalSettings{Multipliers: []float64{1, 1, 1}}},
			"12 entries",
		},
		{
			"negative multiplier",
			Plan{Seasonal: SeasonalSettings{Multipliers: []float64{1, 1, 1, 1, 1, -1, 1, 1, 1, 1, 1, 1}}},
			"multiplier 5 is invalid",
		},
		{
			"non-positive exchange rate",
			Plan{FX: &FXSettings{ExchangeRate: floatPtr(0)}},
			"exchangeRate must be a positive number",
		},
		{
			"half a currency pair",
			Plan{FX: &FXSettings{BillingCurrency: domain.USD}},
			"must be set together",
		},
		{
			"unknown tax mode",
			Plan{Base: domain.IncomeConfig{TaxMode: "flat"}},
			"unknown tax mode",
		},
		{
			"non-positive target",
			Plan{TargetAnnualNet: floatPtr(-1)},
			"targetAnnualNet must be a positive number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parser.ValidatePlan(&tt.plan)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidatePlan_BracketTable(t *testing.T) {
	parser := NewInputParser()
	bound := decimal.NewFromInt(50_000)
	lower := decimal.NewFromInt(10_000)

	outOfRange := Plan{Base: domain.IncomeConfig{TaxBrackets: []domain.TaxBracket{
		{UpTo: nil, Rate: decimal.NewFromInt(2)},
	}}}
	err := parser.ValidatePlan(&outOfRange)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate must be in [0,1]")

	boundedLast := Plan{Base: domain.IncomeConfig{TaxBrackets: []domain.TaxBracket{
		{UpTo: &bound, Rate: decimal.NewFromFloat(0.2)},
	}}}
	err = parser.ValidatePlan(&boundedLast)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "last bracket must be unbounded")

	descending := Plan{Base: domain.IncomeConfig{TaxBrackets: []domain.TaxBracket{
		{UpTo: &bound, Rate: decimal.NewFromFloat(0.1)},
		{UpTo: &lower, Rate: decimal.NewFromFloat(0.2)},
		{UpTo: nil, Rate: decimal.NewFromFloat(0.3)},
	}}}
	err = parser.ValidatePlan(&descending)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ascending")

	valid := Plan{Base: domain.IncomeConfig{TaxBrackets: []domain.TaxBracket{
		{UpTo: &lower, Rate: decimal.NewFromFloat(0.1)},
		{UpTo: &bound, Rate: decimal.NewFromFloat(0.2)},
		{UpTo: nil, Rate: decimal.NewFromFloat(0.3)},
	}}}
	assert.NoError(t, parser.ValidatePlan(&valid))
}

func TestScenarioConfigs_Defaults(t *testing.T) {
	plan := &Plan{
		Currency: domain.USD,
		Base: domain.IncomeConfig{
			HourlyRate:    100,
			HoursPerWeek:  40,
			VacationWeeks: 2,
			TaxRate:       25,
		},
	}

	pess, real, opt := plan.ScenarioConfigs()

	assert.Equal(t, plan.Base, real, "Realistic defaults to the base config")

	assert.Equal(t, 80.0, pess.HourlyRate, "Pessimistic rate defaults to 0.8x base")
	assert.Equal(t, 25.0, pess.HoursPerWeek)
	assert.Equal(t, 6.0, pess.VacationWeeks)

	assert.Equal(t, 120.0, opt.HourlyRate, "Optimistic rate defaults to 1.2x base")
	assert.Equal(t, 45.0, opt.HoursPerWeek)
	assert.Equal(t, 1.0, opt.VacationWeeks)

	// Fields without scenario semantics carry over untouched.
	assert.Equal(t, 25.0, pess.TaxRate)
	assert.Equal(t, 25.0, opt.TaxRate)
}

func TestScenarioConfigs_OverridesWin(t *testing.T) {
	plan := &Plan{
		Currency: domain.USD,
		Base:     domain.IncomeConfig{HourlyRate: 100, HoursPerWeek: 40, VacationWeeks: 2},
		Scenarios: Scenarios{
			Pessimistic: ScenarioInputs{HourlyRate: floatPtr(90), HoursPerWeek: floatPtr(30)},
		},
	}

	pess, _, _ := plan.ScenarioConfigs()

	assert.Equal(t, 90.0, pess.HourlyRate, "Explicit override beats the 0.8x default")
	assert.Equal(t, 30.0, pess.HoursPerWeek)
	assert.Equal(t, 6.0, pess.VacationWeeks, "Unset fields still get scenario defaults")
}

func TestScenarioConfigs_SmartModeFillsDefaultBrackets(t *testing.T) {
	plan := &Plan{
		Currency: domain.MXN,
		Base:     domain.IncomeConfig{HourlyRate: 100, TaxMode: domain.TaxModeSmart},
	}

	_, real, _ := plan.ScenarioConfigs()

	require.Len(t, real.TaxBrackets, 3, "Smart mode with no table gets the currency default")
	assert.True(t, real.TaxBrackets[0].UpTo.Equal(decimal.NewFromInt(2_000_000)))
}

func TestSeasonalMultipliers_Precedence(t *testing.T) {
	explicit := []float64{2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2}

	both := &Plan{Seasonal: SeasonalSettings{Pattern: projection.PatternQ4Heavy, Multipliers: explicit}}
	assert.Equal(t, explicit, both.SeasonalMultipliers(), "Explicit multipliers win over the pattern")

	patternOnly := &Plan{Seasonal: SeasonalSettings{Pattern: projection.PatternSummerSlow}}
	expected, _ := projection.Multipliers(projection.PatternSummerSlow)
	assert.Equal(t, expected, patternOnly.SeasonalMultipliers())

	neither := &Plan{}
	steady, _ := projection.Multipliers(projection.PatternSteady)
	assert.Equal(t, steady, neither.SeasonalMultipliers(), "Default is the steady pattern")
}
