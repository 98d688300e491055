package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fpgo/freelance-planner/internal/calculation"
	"github.com/fpgo/freelance-planner/internal/config"
	"github.com/fpgo/freelance-planner/internal/domain"
	"github.com/fpgo/freelance-planner/internal/fx"
	"github.com/fpgo/freelance-planner/internal/output"
	"github.com/fpgo/freelance-planner/internal/projection"
	"github.com/fpgo/freelance-planner/internal/server"
)

// zapEngineLogger adapts a zap sugared logger to the engine Logger interface.
type zapEngineLogger struct {
	s *zap.SugaredLogger
}

func (l zapEngineLogger) Debugf(format string, args ...any) { l.s.Debugf(format, args...) }
func (l zapEngineLogger) Infof(format string, args ...any)  { l.s.Infof(format, args...) }
func (l zapEngineLogger) Warnf(format string, args ...any)  { l.s.Warnf(format, args...) }
func (l zapEngineLogger) Errorf(format string, args ...any) { l.s.Errorf(format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "fpgo",
	Short: "Freelance income planner CLI",
	Long:  "Income, tax, and runway planning calculator for freelancers",
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "fpgo %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.String())
			}
		},
	}
}

// loadPlan loads the plan file and layers any flag overrides on top of its
// base config.
func loadPlan(cmd *cobra.Command, args []string) (*config.Plan, error) {
	var plan *config.Plan
	if len(args) > 0 {
		parser := config.NewInputParser()
		loaded, err := parser.LoadFromFile(args[0])
		if err != nil {
			return nil, err
		}
		plan = loaded
	} else {
		plan = &config.Plan{Currency: domain.USD}
	}

	applyFlagOverrides(cmd, plan)

	if plan.Base.TaxMode == domain.TaxModeSmart && len(plan.Base.TaxBrackets) == 0 {
		plan.Base.TaxBrackets = calculation.DefaultProgressiveBrackets(plan.Currency)
	}
	return plan, nil
}

func applyFlagOverrides(cmd *cobra.Command, plan *config.Plan) {
	overrideFloat := func(name string, dst *float64) {
		if cmd.Flags().Changed(name) {
			v, _ := cmd.Flags().GetFloat64(name)
			*dst = v
		}
	}
	overrideOptional := func(name string, dst **float64) {
		if cmd.Flags().Changed(name) {
			v, _ := cmd.Flags().GetFloat64(name)
			*dst = &v
		}
	}

	overrideFloat("rate", &plan.Base.HourlyRate)
	overrideFloat("hours", &plan.Base.HoursPerWeek)
	overrideFloat("unbillable", &plan.Base.UnbillableHoursPerWeek)
	overrideFloat("vacation", &plan.Base.VacationWeeks)
	overrideFloat("expenses", &plan.Base.MonthlyBusinessExpenses)
	overrideFloat("tax-rate", &plan.Base.TaxRate)
	overrideOptional("need", &plan.Base.MonthlyPersonalNeed)
	overrideOptional("savings", &plan.Base.CurrentSavings)

	if cmd.Flags().Changed("smart-tax") {
		if smart, _ := cmd.Flags().GetBool("smart-tax"); smart {
			plan.Base.TaxMode = domain.TaxModeSmart
		} else {
			plan.Base.TaxMode = domain.TaxModeSimple
		}
	}
	if cmd.Flags().Changed("currency") {
		c, _ := cmd.Flags().GetString("currency")
		plan.Currency = domain.Currency(c)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("rate", 0, "hourly rate")
	cmd.Flags().Float64("hours", 0, "billable hours per week")
	cmd.Flags().Float64("unbillable", 0, "unbillable hours per week")
	cmd.Flags().Float64("vacation", 0, "vacation weeks per year")
	cmd.Flags().Float64("expenses", 0, "monthly business expenses")
	cmd.Flags().Float64("tax-rate", 0, "flat tax rate percentage")
	cmd.Flags().Float64("need", 0, "monthly personal need")
	cmd.Flags().Float64("savings", 0, "current savings")
	cmd.Flags().Bool("smart-tax", false, "use progressive tax brackets")
	cmd.Flags().String("currency", "", "billing currency (USD, EUR, MXN)")
	cmd.Flags().String("format", "console", "output format (console, json, csv)")
	cmd.Flags().String("output", "", "write a PDF report to this path")
	cmd.Flags().Bool("debug", false, "enable debug logging")
}

func newEngine(cmd *cobra.Command) *calculation.CalculationEngine {
	engine := calculation.NewCalculationEngine()
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		zl, err := zap.NewDevelopment()
		if err == nil {
			engine.SetLogger(zapEngineLogger{s: zl.Sugar()})
		}
	}
	return engine
}

func emitReport(cmd *cobra.Command, report *output.Report) error {
	format, _ := cmd.Flags().GetString("format")
	text, err := output.FormatReport(report, format)
	if err != nil {
		return err
	}
	fmt.Print(text)

	if pdfPath, _ := cmd.Flags().GetString("output"); pdfPath != "" {
		if err := output.WritePDFReport(report, pdfPath); err != nil {
			return fmt.Errorf("failed to write PDF report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "PDF report written to %s\n", pdfPath)
	}
	return nil
}

func calculateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate [plan-file]",
		Short: "Calculate income, taxes, and cash flow",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadPlan(cmd, args)
			if err != nil {
				return err
			}

			engine := newEngine(cmd)
			result, err := engine.CalculateIncome(plan.Base)
			if err != nil {
				return err
			}

			return emitReport(cmd, &output.Report{
				GeneratedAt: time.Now(),
				Currency:    plan.Currency,
				Config:      plan.Base,
				Result:      result,
			})
		},
	}
	addConfigFlags(cmd)
	return cmd
}

func rateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate [plan-file]",
		Short: "Solve for the hourly rate that reaches a target annual net",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadPlan(cmd, args)
			if err != nil {
				return err
			}

			target, _ := cmd.Flags().GetFloat64("target")
			if !cmd.Flags().Changed("target") {
				if plan.TargetAnnualNet == nil {
					return fmt.Errorf("no target: pass --target or set targetAnnualNet in the plan")
				}
				target = *plan.TargetAnnualNet
			}

			engine := newEngine(cmd)

			var rate decimal.Decimal
			if fast, _ := cmd.Flags().GetBool("fast"); fast {
				rate, err = engine.RequiredRateFlatTax(plan.Base, target)
			} else {
				rate, err = engine.RequiredHourlyRate(plan.Base, target)
			}
			if err != nil {
				return err
			}

			solved := plan.Base
			solved.HourlyRate = rate.InexactFloat64()
			result, err := engine.CalculateIncome(solved)
			if err != nil {
				return err
			}

			return emitReport(cmd, &output.Report{
				GeneratedAt:     time.Now(),
				Currency:        plan.Currency,
				Config:          solved,
				Result:          result,
				TargetAnnualNet: &target,
				RequiredRate:    &rate,
			})
		},
	}
	addConfigFlags(cmd)
	cmd.Flags().Float64("target", 0, "target annual net income")
	cmd.Flags().Bool("fast", false, "use the flat-tax closed form instead of the solver")
	return cmd
}

func forecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast [plan-file]",
		Short: "Project 12 months of seasonal income and savings runway",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadPlan(cmd, args)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("pattern") {
				p, _ := cmd.Flags().GetString("pattern")
				plan.Seasonal.Pattern = projection.Pattern(p)
				plan.Seasonal.Multipliers = nil
			}
			if cmd.Flags().Changed("display-currency") {
				c, _ := cmd.Flags().GetString("display-currency")
				plan.DisplayCurrency = domain.Currency(c)
			}
			parser := config.NewInputParser()
			if err := parser.ValidatePlan(plan); err != nil {
				return err
			}

			engine := newEngine(cmd)
			projector := projection.NewProjector(engine)

			pess, real, opt := plan.ScenarioConfigs()
			multipliers := plan.SeasonalMultipliers()

			seasonal := projector.Seasonal(pess, real, opt, multipliers)
			if seasonal == nil {
				return fmt.Errorf("projection baseline calculation failed")
			}
			runway := projector.Runway(pess, real, opt, multipliers)

			report := &output.Report{
				GeneratedAt: time.Now(),
				Currency:    plan.Currency,
				Config:      plan.Base,
				Seasonal:    seasonal,
				Runway:      runway,
			}

			if plan.DisplayCurrency != "" && plan.DisplayCurrency != plan.Currency {
				conv := fx.NewConverter(nil)
				rateCtx := plan.FX.RateContext()
				var status fx.Status
				report.Seasonal, status = projection.ConvertPoints(
					conv, report.Seasonal, plan.Currency, plan.DisplayCurrency, rateCtx)
				if report.Runway != nil {
					report.Runway, _ = projection.ConvertPoints(
						conv, report.Runway, plan.Currency, plan.DisplayCurrency, rateCtx)
				}
				report.DisplayCurrency = plan.DisplayCurrency
				report.FXDegraded = status.Degraded()
			}

			result, err := engine.CalculateIncome(plan.Base)
			if err == nil {
				report.Result = result
			}

			return emitReport(cmd, report)
		},
	}
	addConfigFlags(cmd)
	cmd.Flags().String("pattern", "", "seasonal pattern (steady, q4-heavy, summer-slow)")
	cmd.Flags().String("display-currency", "", "convert projections into this currency")
	return cmd
}

func convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <amount>",
		Short: "Convert an amount between currencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var amount float64
			if _, err := fmt.Sscanf(args[0], "%g", &amount); err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}

			from, err := domain.ParseCurrency(mustString(cmd, "from"))
			if err != nil {
				return err
			}
			to, err := domain.ParseCurrency(mustString(cmd, "to"))
			if err != nil {
				return err
			}

			rateCtx := fx.RateContext{}
			if cmd.Flags().Changed("fx-rate") {
				r, _ := cmd.Flags().GetFloat64("fx-rate")
				rateCtx.ExchangeRate = &r
				rateCtx.BillingCurrency = from
				rateCtx.SpendingCurrency = to
			}

			conv := fx.NewConverter(nil)
			converted, status := conv.ConvertWithStatus(fx.ConversionParams{
				Amount:       conv.SanitizeAmount(amount),
				FromCurrency: from,
				ToCurrency:   to,
				Rate:         rateCtx,
			})

			fmt.Printf("%s -> %s\n",
				output.FormatMoney(conv.SanitizeAmount(amount), from),
				output.FormatMoney(converted, to))
			if status.Degraded() {
				fmt.Fprintln(os.Stderr, "warning: no valid exchange rate, amount returned unchanged")
			}
			return nil
		},
	}
	cmd.Flags().String("from", "USD", "source currency")
	cmd.Flags().String("to", "USD", "target currency")
	cmd.Flags().Float64("fx-rate", 0, "exchange rate, 1 source unit = rate target units")
	return cmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the planning HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := server.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("address") {
				cfg.Address, _ = cmd.Flags().GetString("address")
			}

			logger, err := server.BuildLogger(cfg.Logging)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			srv := server.NewServer(logger, version)
			return srv.ListenAndServe(cfg.Address)
		},
	}
	cmd.Flags().String("config", "", "server config file (YAML)")
	cmd.Flags().String("address", server.DefaultAddress, "listen address")
	return cmd
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func main() {
	rootCmd.AddCommand(
		calculateCmd(),
		rateCmd(),
		forecastCmd(),
		convertCmd(),
		serveCmd(),
		versionCmd(),
	)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
