// Package http provides the HTTP surface of the service: the JSON API
// middleware, health endpoints and Prometheus metrics.
package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"ringkas/internal/resilience/circuitbreaker"
	"ringkas/internal/usecase/ai"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy", "degraded" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`    // Status of each check item
	Version   string                 `json:"version"`   // Application version
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// CSPHealthInfo contains health information for CSP middleware.
type CSPHealthInfo struct {
	Enabled    bool `json:"enabled"`
	ReportOnly bool `json:"report_only"`
}

// HealthHandler reports the model provider, the fetch circuit breakers and
// the CSP configuration.
type HealthHandler struct {
	Provider ai.Provider
	// Breakers are the fetcher circuit breakers. An open breaker degrades
	// the service but does not make it unhealthy.
	Breakers []*circuitbreaker.CircuitBreaker
	Version  string

	CSPEnabled    bool
	CSPReportOnly bool
}

// ServeHTTP returns 200 unless the provider check fails, in which case it
// returns 503.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]CheckStatus)
	status := "healthy"
	statusCode := http.StatusOK

	provider := h.checkProvider(ctx)
	checks["ai"] = provider
	if provider.Status == "unhealthy" {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	for _, cb := range h.Breakers {
		check := checkBreaker(cb)
		checks["circuit_breaker:"+cb.Name()] = check
		if check.Status == "degraded" && status == "healthy" {
			status = "degraded"
		}
	}

	if h.CSPEnabled {
		checks["csp"] = CheckStatus{
			Status:  "healthy",
			Details: map[string]any{"config": CSPHealthInfo{Enabled: h.CSPEnabled, ReportOnly: h.CSPReportOnly}},
		}
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("health: failed to encode response: %v", err)
	}
}

func (h *HealthHandler) checkProvider(ctx context.Context) CheckStatus {
	if h.Provider == nil {
		return CheckStatus{Status: "unhealthy", Message: "not configured"}
	}

	hs, err := h.Provider.Health(ctx)
	if err != nil {
		return CheckStatus{Status: "unhealthy", Message: err.Error()}
	}
	details := map[string]any{
		"provider":     h.Provider.Name(),
		"circuit_open": hs.CircuitOpen,
	}
	if !hs.Healthy {
		return CheckStatus{Status: "unhealthy", Message: hs.Message, Details: details}
	}
	details["latency_ms"] = hs.Latency.Milliseconds()
	return CheckStatus{Status: "healthy", Details: details}
}

func checkBreaker(cb *circuitbreaker.CircuitBreaker) CheckStatus {
	snap := cb.Snapshot()
	details := map[string]any{
		"state":                snap.State,
		"requests":             snap.Requests,
		"consecutive_failures": snap.ConsecutiveFailures,
	}
	if cb.IsOpen() {
		return CheckStatus{Status: "degraded", Message: "circuit breaker open", Details: details}
	}
	return CheckStatus{Status: "healthy", Details: details}
}

// LiveHandler handles Kubernetes liveness probe requests.
type LiveHandler struct{}

// ServeHTTP always returns 200 OK while the process can respond.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		log.Printf("alive: failed to write response: %v", err)
	}
}
