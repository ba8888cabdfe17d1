// Package ai defines the contract between the processing pipeline and an LLM
// provider: prompts, callable tools, structured output schemas and the
// invocation history returned by a generation.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ringkas/internal/domain/entity"
)

// DefaultMaxToolRounds bounds how many tool-call round trips a single
// generation may take before it is abandoned.
const DefaultMaxToolRounds = 4

var (
	// ErrNoStructuredOutput means the provider answered but no object matching the schema could be parsed.
	ErrNoStructuredOutput = fmt.Errorf("%w: structured output missing", entity.ErrModelInvocation)

	// ErrToolLoopExceeded means the model kept requesting tools past MaxToolRounds.
	ErrToolLoopExceeded = fmt.Errorf("%w: too many tool rounds", entity.ErrModelInvocation)

	// ErrProviderDisabled is returned by the noop provider when no API key is configured.
	ErrProviderDisabled = errors.New("ai provider is disabled")
)

// Provider generates a response for one prompt, running any tool calls the
// model asks for before returning.
type Provider interface {
	// Name identifies the backend in logs and health output ("claude", "openai", "none").
	Name() string

	// Generate sends the prompt and blocks until the model produced its final turn.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Health reports whether the provider is usable without spending tokens.
	Health(ctx context.Context) (*HealthStatus, error)
}

// GenerateRequest is one model invocation.
type GenerateRequest struct {
	System     string
	Prompt     string
	Tools      []Tool
	ToolChoice ToolChoice
	// Schema, when set, asks for a JSON object with the declared fields.
	Schema *Schema
	// MaxToolRounds falls back to DefaultMaxToolRounds when zero.
	MaxToolRounds int
}

// ToolRounds returns the effective tool round limit.
func (r GenerateRequest) ToolRounds() int {
	if r.MaxToolRounds <= 0 {
		return DefaultMaxToolRounds
	}
	return r.MaxToolRounds
}

// GenerateResponse carries the final text, the parsed structured value and
// every tool invocation made along the way, in call order.
type GenerateResponse struct {
	Text    string
	Output  map[string]string
	History []ToolInvocation
}

// Field returns a structured output field and whether it was present.
func (r *GenerateResponse) Field(name string) (string, bool) {
	if r == nil || r.Output == nil {
		return "", false
	}
	v, ok := r.Output[name]
	return v, ok
}

// HealthStatus represents the health of an AI provider.
type HealthStatus struct {
	Healthy     bool
	Latency     time.Duration
	Message     string
	CircuitOpen bool
}
