package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ringkas/internal/resilience/circuitbreaker"
	"ringkas/internal/usecase/ai"
)

func openBreaker(t *testing.T, name string) *circuitbreaker.CircuitBreaker {
	t.Helper()
	cb := circuitbreaker.New(circuitbreaker.Config{
		Name:             name,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.5,
		MinRequests:      1,
	})
	_, _ = circuitbreaker.Do(cb, func() (struct{}, error) { return struct{}{}, errors.New("down") })
	require.True(t, cb.IsOpen())
	return cb
}

func serveHealth(t *testing.T, h *HealthHandler) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var response HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	return rec, response
}

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		healthFn       func(context.Context) (*ai.HealthStatus, error)
		expectedStatus int
		expectedState  string
	}{
		{
			name: "healthy provider",
			healthFn: func(context.Context) (*ai.HealthStatus, error) {
				return &ai.HealthStatus{Healthy: true, Latency: 3 * time.Millisecond}, nil
			},
			expectedStatus: http.StatusOK,
			expectedState:  "healthy",
		},
		{
			name: "disabled provider",
			healthFn: func(context.Context) (*ai.HealthStatus, error) {
				return &ai.HealthStatus{Healthy: false, Message: "ai provider is disabled"}, nil
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedState:  "unhealthy",
		},
		{
			name: "health error",
			healthFn: func(context.Context) (*ai.HealthStatus, error) {
				return nil, errors.New("connection refused")
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedState:  "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, response := serveHealth(t, &HealthHandler{
				Provider: &mockAIProvider{healthFn: tt.healthFn},
				Version:  "test-version",
			})

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedState, response.Status)
			assert.Equal(t, tt.expectedState, response.Checks["ai"].Status)
			assert.Equal(t, "test-version", response.Version)
			assert.NotEmpty(t, response.Timestamp)
		})
	}
}

func TestHealthHandler_NoProviderConfigured(t *testing.T) {
	rec, response := serveHealth(t, &HealthHandler{Version: "test-version"})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not configured", response.Checks["ai"].Message)
}

func TestHealthHandler_OpenBreakerDegrades(t *testing.T) {
	closed := circuitbreaker.New(circuitbreaker.TranscriptFetchConfig())

	rec, response := serveHealth(t, &HealthHandler{
		Provider: &mockAIProvider{},
		Breakers: []*circuitbreaker.CircuitBreaker{openBreaker(t, "content-fetch"), closed},
	})

	assert.Equal(t, http.StatusOK, rec.Code, "an open fetch breaker is not fatal")
	assert.Equal(t, "degraded", response.Status)
	assert.Equal(t, "degraded", response.Checks["circuit_breaker:content-fetch"].Status)
	assert.Equal(t, "open", response.Checks["circuit_breaker:content-fetch"].Details["state"])
	assert.Equal(t, "healthy", response.Checks["circuit_breaker:transcript-fetch"].Status)
}

func TestHealthHandler_CSP(t *testing.T) {
	_, response := serveHealth(t, &HealthHandler{Provider: &mockAIProvider{}})
	assert.NotContains(t, response.Checks, "csp")

	_, response = serveHealth(t, &HealthHandler{Provider: &mockAIProvider{}, CSPEnabled: true, CSPReportOnly: true})
	require.Contains(t, response.Checks, "csp")
	assert.Equal(t, map[string]any{"enabled": true, "report_only": true}, response.Checks["csp"].Details["config"])
}

func TestHealthHandler_CacheControl(t *testing.T) {
	rec, _ := serveHealth(t, &HealthHandler{Provider: &mockAIProvider{}})

	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestLiveHandler_ServeHTTP(t *testing.T) {
	rec := httptest.NewRecorder()
	(&LiveHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", rec.Body.String())
}
