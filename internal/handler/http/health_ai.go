package http

import (
	"context"
	"net/http"
	"time"

	"ringkas/internal/handler/http/respond"
	"ringkas/internal/usecase/ai"
)

const providerCheckTimeout = 5 * time.Second

// AIHealthHandler serves the provider probes.
type AIHealthHandler struct {
	provider ai.Provider
}

// NewAIHealthHandler creates the handler for provider.
func NewAIHealthHandler(provider ai.Provider) *AIHealthHandler {
	return &AIHealthHandler{provider: provider}
}

// AIHealthResponse is the body of GET /health/ai and GET /ready.
type AIHealthResponse struct {
	Provider    string `json:"provider,omitempty"`
	Status      string `json:"status,omitempty"`
	Message     string `json:"message,omitempty"`
	Latency     string `json:"latency,omitempty"`
	CircuitOpen bool   `json:"circuit_open,omitempty"`
	Ready       *bool  `json:"ready,omitempty"`
}

func (h *AIHealthHandler) check(ctx context.Context) (*ai.HealthStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, providerCheckTimeout)
	defer cancel()

	start := time.Now()
	status, err := h.provider.Health(ctx)
	if status != nil && status.Latency == 0 {
		status.Latency = time.Since(start)
	}
	return status, err
}

// Health reports whether the provider can take a generation right now.
// GET /health/ai: 200 when healthy, 503 otherwise.
func (h *AIHealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, err := h.check(r.Context())

	resp := AIHealthResponse{Provider: h.provider.Name(), Status: "unhealthy"}
	switch {
	case err != nil:
		resp.Message = err.Error()
	case status == nil:
		resp.Message = "health check returned no status"
	default:
		resp.Message = status.Message
		resp.CircuitOpen = status.CircuitOpen
		if status.Healthy {
			resp.Status = "healthy"
			resp.Message = ""
			resp.Latency = status.Latency.Round(time.Millisecond).String()
		}
	}

	code := http.StatusOK
	if resp.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	respond.JSON(w, code, resp)
}

// Ready reports readiness for traffic.
// GET /ready: 503 only while the provider circuit breaker is open or the
// check itself fails. A disabled provider is still ready since PDF
// extraction keeps working without it.
func (h *AIHealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status, err := h.check(r.Context())

	ready := true
	resp := AIHealthResponse{}
	switch {
	case status == nil:
		ready = false
		resp.Message = "health check failed"
		if err != nil {
			resp.Message = err.Error()
		}
	case status.CircuitOpen:
		ready = false
		resp.Message = "circuit breaker open"
	}
	resp.Ready = &ready

	code := http.StatusOK
	if !ready {
		code = http.StatusServiceUnavailable
	}
	respond.JSON(w, code, resp)
}
