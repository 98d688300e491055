package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	return NewServer(nil, "test")
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	rec := doJSON(t, newTestServer(), http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestVersionEndpoint(t *testing.T) {
	rec := doJSON(t, newTestServer(), http.MethodGet, "/api/v1/version", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", decodeBody(t, rec)["version"])
}

func TestCalculateEndpoint(t *testing.T) {
	body := map[string]any{
		"hourlyRate":    500,
		"hoursPerWeek":  40,
		"vacationWeeks": 2,
		"taxRate":       25,
	}

	rec := doJSON(t, newTestServer(), http.MethodPost, "/api/v1/calculate", body)

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeBody(t, rec)
	assert.Equal(t, "750000", result["annualNet"])
	assert.Equal(t, "1000000", result["annualGross"])
}

func TestCalculateEndpoint_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calculate", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	newTestServer().Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", decodeBody(t, rec)["kind"])
}

func TestRequiredRateEndpoint(t *testing.T) {
	body := map[string]any{
		"config": map[string]any{
			"hoursPerWeek":  40,
			"vacationWeeks": 2,
			"taxRate":       25,
		},
		"targetAnnualNet": 750_000,
	}

	rec := doJSON(t, newTestServer(), http.MethodPost, "/api/v1/required-rate", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "500.00", decodeBody(t, rec)["requiredHourlyRate"])
}

func TestRequiredRateEndpoint_InvalidTarget(t *testing.T) {
	body := map[string]any{
		"config":          map[string]any{"hoursPerWeek": 40},
		"targetAnnualNet": -5,
	}

	rec := doJSON(t, newTestServer(), http.MethodPost, "/api/v1/required-rate", body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "invalid_input", decodeBody(t, rec)["kind"])
}

func TestRequiredRateEndpoint_UnreachableTarget(t *testing.T) {
	body := map[string]any{
		"config": map[string]any{
			"hoursPerWeek":  40,
			"vacationWeeks": 2,
			"taxRate":       100,
		},
		"targetAnnualNet": 1,
	}

	rec := doJSON(t, newTestServer(), http.MethodPost, "/api/v1/required-rate", body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "unreachable_target", decodeBody(t, rec)["kind"])
}

func TestRequiredRateEndpoint_FastPath(t *testing.T) {
	body := map[string]any{
		"config": map[string]any{
			"hoursPerWeek":  40,
			"vacationWeeks": 2,
			"taxRate":       25,
		},
		"targetAnnualNet": 750_000,
		"fast":            true,
	}

	rec := doJSON(t, newTestServer(), http.MethodPost, "/api/v1/required-rate", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "500.00", decodeBody(t, rec)["requiredHourlyRate"])
}

func TestProjectionEndpoint(t *testing.T) {
	body := map[string]any{
		"plan": map[string]any{
			"currency": "USD",
			"base": map[string]any{
				"hourlyRate":    120,
				"hoursPerWeek":  40,
				"vacationWeeks": 2,
				"taxRate":       25,
			},
		},
	}

	rec := doJSON(t, newTestServer(), http.MethodPost, "/api/v1/projection", body)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	seasonal, ok := resp["seasonal"].([]any)
	require.True(t, ok)
	require.Len(t, seasonal, 12)

	jan, ok := seasonal[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Jan", jan["month"])
	assert.Equal(t, "15000", jan["realistic"], "Base 120/h nets 15,000/month")
}

func TestProjectionEndpoint_InvalidPlan(t *testing.T) {
	body := map[string]any{
		"plan": map[string]any{
			"currency": "GBP",
			"base":     map[string]any{"hourlyRate": 120},
		},
	}

	rec := doJSON(t, newTestServer(), http.MethodPost, "/api/v1/projection", body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "invalid_plan", decodeBody(t, rec)["kind"])
}

func TestConvertEndpoint(t *testing.T) {
	rate := 18.5
	body := map[string]any{
		"amount":       100,
		"fromCurrency": "USD",
		"toCurrency":   "MXN",
		"rate": map[string]any{
			"exchangeRate":     rate,
			"billingCurrency":  "USD",
			"spendingCurrency": "MXN",
		},
	}

	rec := doJSON(t, newTestServer(), http.MethodPost, "/api/v1/convert", body)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "1850.00", resp["amount"])
	assert.Equal(t, "rate_applied", resp["status"])
	assert.Equal(t, false, resp["degraded"])
}

func TestConvertEndpoint_MissingRateDegrades(t *testing.T) {
	body := map[string]any{
		"amount":       100,
		"fromCurrency": "USD",
		"toCurrency":   "EUR",
		"rate":         map[string]any{},
	}

	rec := doJSON(t, newTestServer(), http.MethodPost, "/api/v1/convert", body)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "100.00", resp["amount"], "Missing rate returns the amount unchanged")
	assert.Equal(t, true, resp["degraded"])
}

func TestConvertEndpoint_UnsupportedCurrency(t *testing.T) {
	body := map[string]any{
		"amount":       100,
		"fromCurrency": "GBP",
		"toCurrency":   "USD",
	}

	rec := doJSON(t, newTestServer(), http.MethodPost, "/api/v1/convert", body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "invalid_currency", decodeBody(t, rec)["kind"])
}

func TestBracketsEndpoint(t *testing.T) {
	rec := doJSON(t, newTestServer(), http.MethodGet, "/api/v1/brackets?currency=MXN", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "MXN", resp["currency"])

	brackets, ok := resp["brackets"].([]any)
	require.True(t, ok)
	require.Len(t, brackets, 3)

	first, ok := brackets[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2000000", first["upTo"])

	last, ok := brackets[2].(map[string]any)
	require.True(t, ok)
	assert.Nil(t, last["upTo"], "Top bracket should be unbounded")
}

func TestBracketsEndpoint_InvalidCurrency(t *testing.T) {
	rec := doJSON(t, newTestServer(), http.MethodGet, "/api/v1/brackets?currency=GBP", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "invalid_currency", decodeBody(t, rec)["kind"])
}
