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

	"ringkas/internal/usecase/ai"
)

// mockAIProvider implements ai.Provider for health tests.
type mockAIProvider struct {
	healthFn func(ctx context.Context) (*ai.HealthStatus, error)
}

func (m *mockAIProvider) Name() string { return "mock" }

func (m *mockAIProvider) Generate(context.Context, ai.GenerateRequest) (*ai.GenerateResponse, error) {
	return &ai.GenerateResponse{}, nil
}

func (m *mockAIProvider) Health(ctx context.Context) (*ai.HealthStatus, error) {
	if m.healthFn != nil {
		return m.healthFn(ctx)
	}
	return &ai.HealthStatus{Healthy: true, Latency: 10 * time.Millisecond}, nil
}

func healthReturning(status *ai.HealthStatus, err error) *mockAIProvider {
	return &mockAIProvider{healthFn: func(context.Context) (*ai.HealthStatus, error) {
		return status, err
	}}
}

func decodeAIHealth(t *testing.T, w *httptest.ResponseRecorder) AIHealthResponse {
	t.Helper()
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var resp AIHealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestAIHealthHandler_Health(t *testing.T) {
	tests := []struct {
		name     string
		provider *mockAIProvider
		wantCode int
		want     AIHealthResponse
	}{
		{
			name:     "healthy",
			provider: healthReturning(&ai.HealthStatus{Healthy: true, Latency: 15 * time.Millisecond}, nil),
			wantCode: http.StatusOK,
			want:     AIHealthResponse{Provider: "mock", Status: "healthy", Latency: "15ms"},
		},
		{
			name:     "circuit open",
			provider: healthReturning(&ai.HealthStatus{Message: "circuit breaker open", CircuitOpen: true}, nil),
			wantCode: http.StatusServiceUnavailable,
			want:     AIHealthResponse{Provider: "mock", Status: "unhealthy", Message: "circuit breaker open", CircuitOpen: true},
		},
		{
			name:     "disabled provider",
			provider: healthReturning(&ai.HealthStatus{Message: "ai provider disabled: no API key configured"}, nil),
			wantCode: http.StatusServiceUnavailable,
			want:     AIHealthResponse{Provider: "mock", Status: "unhealthy", Message: "ai provider disabled: no API key configured"},
		},
		{
			name:     "check error",
			provider: healthReturning(nil, errors.New("connection refused")),
			wantCode: http.StatusServiceUnavailable,
			want:     AIHealthResponse{Provider: "mock", Status: "unhealthy", Message: "connection refused"},
		},
		{
			name:     "nil status",
			provider: healthReturning(nil, nil),
			wantCode: http.StatusServiceUnavailable,
			want:     AIHealthResponse{Provider: "mock", Status: "unhealthy", Message: "health check returned no status"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			NewAIHealthHandler(tt.provider).Health(w, httptest.NewRequest(http.MethodGet, "/health/ai", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.want, decodeAIHealth(t, w))
		})
	}
}

func TestAIHealthHandler_Ready(t *testing.T) {
	tests := []struct {
		name      string
		provider  *mockAIProvider
		wantCode  int
		wantReady bool
		wantMsg   string
	}{
		{
			name:      "ready",
			provider:  &mockAIProvider{},
			wantCode:  http.StatusOK,
			wantReady: true,
		},
		{
			name:      "disabled provider stays ready",
			provider:  healthReturning(&ai.HealthStatus{Healthy: false, Message: "disabled"}, nil),
			wantCode:  http.StatusOK,
			wantReady: true,
		},
		{
			name:      "status alongside error stays ready",
			provider:  healthReturning(&ai.HealthStatus{Healthy: false}, errors.New("slow")),
			wantCode:  http.StatusOK,
			wantReady: true,
		},
		{
			name:     "circuit open",
			provider: healthReturning(&ai.HealthStatus{CircuitOpen: true}, nil),
			wantCode: http.StatusServiceUnavailable,
			wantMsg:  "circuit breaker open",
		},
		{
			name:     "check error without status",
			provider: healthReturning(nil, errors.New("boom")),
			wantCode: http.StatusServiceUnavailable,
			wantMsg:  "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			NewAIHealthHandler(tt.provider).Ready(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			resp := decodeAIHealth(t, w)
			require.NotNil(t, resp.Ready)
			assert.Equal(t, tt.wantReady, *resp.Ready)
			assert.Equal(t, tt.wantMsg, resp.Message)
		})
	}
}

func TestAIHealthHandler_CheckHasDeadline(t *testing.T) {
	var hasDeadline bool
	provider := &mockAIProvider{healthFn: func(ctx context.Context) (*ai.HealthStatus, error) {
		_, hasDeadline = ctx.Deadline()
		return &ai.HealthStatus{Healthy: true}, nil
	}}

	w := httptest.NewRecorder()
	NewAIHealthHandler(provider).Health(w, httptest.NewRequest(http.MethodGet, "/health/ai", nil))

	assert.True(t, hasDeadline)
	assert.NotEmpty(t, decodeAIHealth(t, w).Latency, "latency is measured when the provider does not report it")
}
