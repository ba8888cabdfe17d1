// Package llm provides ai.Provider implementations backed by the Claude
// (Anthropic) and OpenAI APIs, plus a disabled provider used when no API key
// is configured. Each adapter runs the tool-call loop itself, guards the API
// with a circuit breaker and reports Prometheus metrics.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ringkas/internal/domain/entity"
	"ringkas/internal/observability/logging"
	"ringkas/internal/resilience/circuitbreaker"
	"ringkas/internal/usecase/ai"
)

// Config holds the settings shared by every adapter.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int
	// Timeout bounds one Generate call including all tool rounds.
	Timeout time.Duration
	// BaseURL overrides the API endpoint (proxies, tests).
	BaseURL string
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 90 * time.Second
	}
	return c.Timeout
}

func (c Config) maxTokens() int {
	if c.MaxTokens <= 0 {
		return 2048
	}
	return c.MaxTokens
}

// newBreaker builds a circuit breaker that only counts failures of the
// remote API. Schema and tool loop failures come from the model's answer,
// and cancellations come from the caller.
func newBreaker(cfg circuitbreaker.Config) *circuitbreaker.CircuitBreaker {
	cfg.IsSuccessful = func(err error) bool {
		return err == nil ||
			errors.Is(err, ai.ErrNoStructuredOutput) ||
			errors.Is(err, ai.ErrToolLoopExceeded) ||
			errors.Is(err, context.Canceled)
	}
	return circuitbreaker.New(cfg)
}

// execute runs fn through the breaker and maps a rejected call to ErrModelInvocation.
func execute(cb *circuitbreaker.CircuitBreaker, provider string, fn func() (*ai.GenerateResponse, error)) (*ai.GenerateResponse, error) {
	resp, err := circuitbreaker.Do(cb, fn)
	if errors.Is(err, circuitbreaker.ErrRejected) {
		slog.Warn("llm circuit breaker open, request rejected",
			slog.String("provider", provider),
			slog.String("service", cb.Name()),
			slog.String("state", cb.State().String()))
		return nil, fmt.Errorf("%w: %s api unavailable: circuit breaker open", entity.ErrModelInvocation, provider)
	}
	return resp, err
}

// health reports the breaker state without calling the API.
func health(cb *circuitbreaker.CircuitBreaker) *ai.HealthStatus {
	if cb.IsOpen() {
		return &ai.HealthStatus{
			Healthy:     false,
			Message:     "circuit breaker open",
			CircuitOpen: true,
		}
	}
	return &ai.HealthStatus{Healthy: true, Message: "ok"}
}

// finish builds the response from the final model text, parsing the
// structured object when a schema was requested.
func finish(text string, schema *ai.Schema, history []ai.ToolInvocation) (*ai.GenerateResponse, error) {
	resp := &ai.GenerateResponse{Text: text, History: history}
	if schema == nil {
		return resp, nil
	}
	output, err := ai.ParseStructured(text, schema)
	if err != nil {
		return nil, err
	}
	resp.Output = output
	return resp, nil
}

// systemPrompt appends the JSON output instruction to the system prompt.
func systemPrompt(req ai.GenerateRequest) string {
	if req.Schema == nil {
		return req.System
	}
	if req.System == "" {
		return req.Schema.Instruction()
	}
	return req.System + "\n\n" + req.Schema.Instruction()
}

func logger(ctx context.Context, provider, callID string) *slog.Logger {
	return logging.WithRequestID(ctx, logging.FromContext(ctx)).With(
		slog.String("provider", provider),
		slog.String("call_id", callID))
}

func logToolInvocation(ctx context.Context, log *slog.Logger, round int, inv ai.ToolInvocation) {
	log.InfoContext(ctx, "tool invoked",
		slog.String("tool", inv.Name),
		slog.Int("round", round),
		slog.Bool("failed", inv.Result.Failed),
		slog.Int("output_length", len(inv.Result.Output)))
}
