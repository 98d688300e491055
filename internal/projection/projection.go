// Package projection turns three scenario configs (pessimistic, realistic,
// optimistic) into 12-month chart-ready series: a seasonal monthly-net
// projection and a running savings-balance (runway) projection.
package projection

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/fpgo/freelance-planner/internal/calculation"
	"github.com/fpgo/freelance-planner/internal/domain"
	"github.com/fpgo/freelance-planner/internal/fx"
)

var monthNames = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// Pattern names a built-in seasonal multiplier table.
type Pattern string

const (
	PatternSteady     Pattern = "steady"
	PatternQ4Heavy    Pattern = "q4-heavy"
	PatternSummerSlow Pattern = "summer-slow"
)

var patternMultipliers = map[Pattern][]float64{
	PatternSteady:     {1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	PatternQ4Heavy:    {0.8, 0.8, 0.9, 0.9, 1.0, 1.0, 0.9, 0.9, 1.0, 1.1, 1.2, 1.3},
	PatternSummerSlow: {1.0, 1.0, 1.1, 1.1, 0.9, 0.7, 0.7, 0.8, 1.0, 1.1, 1.1, 1.0},
}

// Multipliers resolves a named pattern to its 12 monthly multipliers.
func Multipliers(p Pattern) ([]float64, bool) {
	m, ok := patternMultipliers[p]
	return m, ok
}

// Point is one month of projected values for the three scenarios, rounded to
// whole currency units.
type Point struct {
	Month       string          `json:"month"`
	Pessimistic decimal.Decimal `json:"pessimistic"`
	Realistic   decimal.Decimal `json:"realistic"`
	Optimistic  decimal.Decimal `json:"optimistic"`
}

// Projector derives projections by running scenario configs through the
// income engine. Like the engine it is stateless and safe for concurrent use.
type Projector struct {
	Engine *calculation.CalculationEngine
}

// NewProjector creates a projector. A nil engine gets a fresh default engine.
func NewProjector(engine *calculation.CalculationEngine) *Projector {
	if engine == nil {
		engine = calculation.NewCalculationEngine()
	}
	return &Projector{Engine: engine}
}

// Seasonal projects each scenario's baseline monthly net across 12 months,
// scaled by the per-month multipliers (missing or invalid entries count as
// 1.0). If any base calculation fails, it returns nil: no partial chart data.
func (p *Projector) Seasonal(pessimistic, realistic, optimistic domain.IncomeConfig, multipliers []float64) []Point {
	pessRes, realRes, optRes, err := p.baselines(pessimistic, realistic, optimistic)
	if err != nil {
		return nil
	}

	points := make([]Point, 0, len(monthNames))
	for i, month := range monthNames {
		m := multiplierAt(multipliers, i)
		points = append(points, Point{
			Month:       month,
			Pessimistic: pessRes.MonthlyNet.Mul(m).Round(0),
			Realistic:   realRes.MonthlyNet.Mul(m).Round(0),
			Optimistic:  optRes.MonthlyNet.Mul(m).Round(0),
		})
	}
	return points
}

// Runway folds a running savings balance across 12 months for each scenario:
// balance += monthlyNet*multiplier - monthlyPersonalNeed. The shared need and
// savings baseline comes from the pessimistic config; both must be present,
// finite, and non-negative or no projection is produced. The fold is strictly
// sequential: month N depends on month N-1.
func (p *Projector) Runway(pessimistic, realistic, optimistic domain.IncomeConfig, multipliers []float64) []Point {
	pessRes, realRes, optRes, err := p.baselines(pessimistic, realistic, optimistic)
	if err != nil {
		return nil
	}

	need := pessimistic.MonthlyPersonalNeed
	savings := pessimistic.CurrentSavings
	if need == nil || savings == nil {
		return nil
	}
	if !validNonNegative(*need) || !validNonNegative(*savings) {
		return nil
	}

	monthlyNeed := decimal.NewFromFloat(*need)
	start := decimal.NewFromFloat(*savings)

	pessBalance := start
	realBalance := start
	optBalance := start

	points := make([]Point, 0, len(monthNames))
	for i, month := range monthNames {
		m := multiplierAt(multipliers, i)
		pessBalance = pessBalance.Add(pessRes.MonthlyNet.Mul(m)).Sub(monthlyNeed)
		realBalance = realBalance.Add(realRes.MonthlyNet.Mul(m)).Sub(monthlyNeed)
		optBalance = optBalance.Add(optRes.MonthlyNet.Mul(m)).Sub(monthlyNeed)

		points = append(points, Point{
			Month:       month,
			Pessimistic: pessBalance.Round(0),
			Realistic:   realBalance.Round(0),
			Optimistic:  optBalance.Round(0),
		})
	}
	return points
}

// ConvertPoints converts every scenario value of a projection into a display
// currency. Conversion degradation (missing rate) applies uniformly, so the
// first point's status stands for the series.
func ConvertPoints(conv *fx.Converter, points []Point, from, to domain.Currency, rate fx.RateContext) ([]Point, fx.Status) {
	if conv == nil {
		conv = fx.NewConverter(nil)
	}

	status := fx.StatusIdentity
	converted := make([]Point, 0, len(points))
	for i, pt := range points {
		convertOne := func(amount decimal.Decimal) decimal.Decimal {
			out, s := conv.ConvertWithStatus(fx.ConversionParams{
				Amount:       amount,
				FromCurrency: from,
				ToCurrency:   to,
				Rate:         rate,
			})
			if i == 0 {
				status = s
			}
			return out.Round(0)
		}
		converted = append(converted, Point{
			Month:       pt.Month,
			Pessimistic: convertOne(pt.Pessimistic),
			Realistic:   convertOne(pt.Realistic),
			Optimistic:  convertOne(pt.Optimistic),
		})
	}
	return converted, status
}

func (p *Projector) baselines(pessimistic, realistic, optimistic domain.IncomeConfig) (pess, real, opt *domain.IncomeResult, err error) {
	if pess, err = p.Engine.CalculateIncome(pessimistic); err != nil {
		return nil, nil, nil, err
	}
	if real, err = p.Engine.CalculateIncome(realistic); err != nil {
		return nil, nil, nil, err
	}
	if opt, err = p.Engine.CalculateIncome(optimistic); err != nil {
		return nil, nil, nil, err
	}
	return pess, real, opt, nil
}

func validNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func multiplierAt(multipliers []float64, i int) decimal.Decimal {
	if i < len(multipliers) {
		m := multipliers[i]
		if !math.IsNaN(m) && !math.IsInf(m, 0) {
			return decimal.NewFromFloat(m)
		}
	}
	return decimal.NewFromInt(1)
}
