// Package server exposes the planning engine over HTTP. All endpoints are
// stateless: every request carries its full configuration, and responses are
// pure functions of the request body.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fpgo/freelance-planner/internal/calculation"
	"github.com/fpgo/freelance-planner/internal/config"
	"github.com/fpgo/freelance-planner/internal/domain"
	"github.com/fpgo/freelance-planner/internal/fx"
	"github.com/fpgo/freelance-planner/internal/projection"
)

// Server wires the calculation engine, converter, and projector behind a mux
// router.
type Server struct {
	logger    *zap.Logger
	engine    *calculation.CalculationEngine
	converter *fx.Converter
	projector *projection.Projector
	version   string
}

// NewServer creates a server with a fresh engine stack. A nil logger falls
// back to a no-op logger.
func NewServer(logger *zap.Logger, version string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	engine := calculation.NewCalculationEngine()
	return &Server{
		logger:    logger,
		engine:    engine,
		converter: fx.NewConverter(logger),
		projector: projection.NewProjector(engine),
		version:   version,
	}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/calculate", s.handleCalculate).Methods(http.MethodPost)
	api.HandleFunc("/required-rate", s.handleRequiredRate).Methods(http.MethodPost)
	api.HandleFunc("/projection", s.handleProjection).Methods(http.MethodPost)
	api.HandleFunc("/convert", s.handleConvert).Methods(http.MethodPost)
	api.HandleFunc("/brackets", s.handleBrackets).Methods(http.MethodGet)
	api.HandleFunc("/version", s.handleVersion).Methods(http.MethodGet)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	return r
}

// ListenAndServe runs the server until the listener fails.
func (s *Server) ListenAndServe(address string) error {
	srv := &http.Server{
		Addr:         address,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	s.logger.Info("starting HTTP server", zap.String("address", address))
	return srv.ListenAndServe()
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var cfg domain.IncomeConfig
	if !s.decode(w, r, &cfg) {
		return
	}

	result, err := s.engine.CalculateIncome(cfg)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type requiredRateRequest struct {
	Config          domain.IncomeConfig `json:"config"`
	TargetAnnualNet float64             `json:"targetAnnualNet"`
	Fast            bool                `json:"fast,omitempty"`
}

type requiredRateResponse struct {
	RequiredHourlyRate string `json:"requiredHourlyRate"`
}

func (s *Server) handleRequiredRate(w http.ResponseWriter, r *http.Request) {
	var req requiredRateRequest
	if !s.decode(w, r, &req) {
		return
	}

	var (
		rate decimal.Decimal
		err  error
	)
	if req.Fast {
		rate, err = s.engine.RequiredRateFlatTax(req.Config, req.TargetAnnualNet)
	} else {
		rate, err = s.engine.RequiredHourlyRate(req.Config, req.TargetAnnualNet)
	}
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requiredRateResponse{RequiredHourlyRate: rate.StringFixed(2)})
}

type projectionRequest struct {
	Plan config.Plan `json:"plan"`
}

type projectionResponse struct {
	Seasonal []projection.Point `json:"seasonal"`
	Runway   []projection.Point `json:"runway,omitempty"`
	FXStatus fx.Status          `json:"fxStatus,omitempty"`
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	var req projectionRequest
	if !s.decode(w, r, &req) {
		return
	}

	parser := config.NewInputParser()
	if err := parser.ValidatePlan(&req.Plan); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error(), "invalid_plan")
		return
	}

	pess, real, opt := req.Plan.ScenarioConfigs()
	multipliers := req.Plan.SeasonalMultipliers()

	seasonal := s.projector.Seasonal(pess, real, opt, multipliers)
	if seasonal == nil {
		writeError(w, http.StatusUnprocessableEntity, "projection baseline calculation failed", string(calculation.KindInvalidInput))
		return
	}
	runway := s.projector.Runway(pess, real, opt, multipliers)

	resp := projectionResponse{Seasonal: seasonal, Runway: runway}
	if req.Plan.DisplayCurrency != "" && req.Plan.DisplayCurrency != req.Plan.Currency {
		rate := req.Plan.FX.RateContext()
		resp.Seasonal, resp.FXStatus = projection.ConvertPoints(
			s.converter, resp.Seasonal, req.Plan.Currency, req.Plan.DisplayCurrency, rate)
		if resp.Runway != nil {
			resp.Runway, _ = projection.ConvertPoints(
				s.converter, resp.Runway, req.Plan.Currency, req.Plan.DisplayCurrency, rate)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

type convertRequest struct {
	Amount       float64         `json:"amount"`
	FromCurrency domain.Currency `json:"fromCurrency"`
	ToCurrency   domain.Currency `json:"toCurrency"`
	Rate         fx.RateContext  `json:"rate"`
}

type convertResponse struct {
	Amount   string    `json:"amount"`
	Status   fx.Status `json:"status"`
	Degraded bool      `json:"degraded"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if !s.decode(w, r, &req) {
		return
	}

	if !req.FromCurrency.Valid() || !req.ToCurrency.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "unsupported currency", "invalid_currency")
		return
	}

	amount, status := s.converter.ConvertWithStatus(fx.ConversionParams{
		Amount:       s.converter.SanitizeAmount(req.Amount),
		FromCurrency: req.FromCurrency,
		ToCurrency:   req.ToCurrency,
		Rate:         req.Rate,
	})
	writeJSON(w, http.StatusOK, convertResponse{
		Amount:   amount.StringFixed(2),
		Status:   status,
		Degraded: status.Degraded(),
	})
}

func (s *Server) handleBrackets(w http.ResponseWriter, r *http.Request) {
	currency, err := domain.ParseCurrency(r.URL.Query().Get("currency"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error(), "invalid_currency")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"currency": currency,
		"brackets": calculation.DefaultProgressiveBrackets(currency),
	})
}

// decode parses the JSON request body. Malformed JSON is a client syntax
// error and maps to 400; semantic failures are handled per endpoint.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.logger.Debug("malformed request body", zap.Error(err))
		writeError(w, http.StatusBadRequest, "malformed JSON request body", "bad_request")
		return false
	}
	return true
}

// writeEngineError maps tagged calculation failures to 422 with the kind
// echoed so clients can branch without string matching.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	kind := calculation.KindOf(err)
	if kind == "" {
		s.logger.Error("unexpected calculation failure", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", string(calculation.KindInternal))
		return
	}
	writeError(w, http.StatusUnprocessableEntity, err.Error(), string(kind))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, kind string) {
	writeJSON(w, status, map[string]string{"error": message, "kind": kind})
}
