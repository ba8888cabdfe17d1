package llm

import (
	"context"

	"ringkas/internal/usecase/ai"
)

// Noop is the provider used when no API key is configured. Every
// generation fails with ai.ErrProviderDisabled so the rest of the service
// (fetching, PDF extraction, health) stays usable.
type Noop struct{}

// NewNoop creates a disabled provider.
func NewNoop() *Noop {
	return &Noop{}
}

// Name returns "none".
func (n *Noop) Name() string { return "none" }

// Generate always fails with ai.ErrProviderDisabled.
func (n *Noop) Generate(_ context.Context, _ ai.GenerateRequest) (*ai.GenerateResponse, error) {
	return nil, ai.ErrProviderDisabled
}

// Health reports the provider as unhealthy.
func (n *Noop) Health(_ context.Context) (*ai.HealthStatus, error) {
	return &ai.HealthStatus{Healthy: false, Message: "ai provider disabled: no API key configured"}, nil
}
