// Package config provides configuration management for the ringkas service.
// Values come from environment variables, optionally layered over a YAML file
// named by RINGKAS_CONFIG.
package config

import (
	"errors"
	"fmt"
	"time"

	"ringkas/internal/usecase/ai"
	pkgconfig "ringkas/pkg/config"
)

// Provider names accepted by AI_PROVIDER.
const (
	ProviderClaude = "claude"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

// AIConfig holds the LLM provider settings.
type AIConfig struct {
	// Provider is one of claude, openai or none. Detected from the API keys when AI_PROVIDER is unset.
	Provider string

	// APIKey is the key for the selected provider. Never logged.
	APIKey string

	// Model overrides the provider's default model when non-empty.
	Model string

	// MaxTokens bounds the response length of a single model turn.
	MaxTokens int

	// Timeout applies to a whole generation including tool rounds.
	Timeout time.Duration

	// BaseURL points the client at a proxy or a test server.
	BaseURL string

	// MaxToolRounds limits tool-call round trips per generation.
	MaxToolRounds int
}

// LoadAIConfig loads AI configuration from environment variables.
//
// Environment variables:
//   - AI_PROVIDER: claude, openai or none (default: detected from keys)
//   - ANTHROPIC_API_KEY / OPENAI_API_KEY
//   - AI_MODEL, AI_MAX_TOKENS (default: 2048), AI_TIMEOUT (default: 90s)
//   - AI_BASE_URL, AI_MAX_TOOL_ROUNDS (default: 4)
func LoadAIConfig() (*AIConfig, error) {
	return loadAIConfig(nil)
}

func loadAIConfig(file *FileConfig) (*AIConfig, error) {
	defaults := AIConfig{
		MaxTokens:     2048,
		Timeout:       90 * time.Second,
		MaxToolRounds: ai.DefaultMaxToolRounds,
	}
	if file != nil {
		file.AI.applyTo(&defaults)
	}

	anthropicKey := pkgconfig.GetEnvString("ANTHROPIC_API_KEY", "")
	openaiKey := pkgconfig.GetEnvString("OPENAI_API_KEY", "")

	cfg := &AIConfig{
		Provider:      pkgconfig.GetEnvChoice("AI_PROVIDER", defaults.Provider, ProviderClaude, ProviderOpenAI, ProviderNone),
		Model:         pkgconfig.GetEnvString("AI_MODEL", defaults.Model),
		MaxTokens:     pkgconfig.GetEnvInt("AI_MAX_TOKENS", defaults.MaxTokens),
		Timeout:       pkgconfig.GetEnvDuration("AI_TIMEOUT", defaults.Timeout),
		BaseURL:       pkgconfig.GetEnvString("AI_BASE_URL", defaults.BaseURL),
		MaxToolRounds: pkgconfig.GetEnvInt("AI_MAX_TOOL_ROUNDS", defaults.MaxToolRounds),
	}

	if cfg.Provider == "" {
		switch {
		case anthropicKey != "":
			cfg.Provider = ProviderClaude
		case openaiKey != "":
			cfg.Provider = ProviderOpenAI
		default:
			cfg.Provider = ProviderNone
		}
	}

	switch cfg.Provider {
	case ProviderClaude:
		cfg.APIKey = anthropicKey
	case ProviderOpenAI:
		cfg.APIKey = openaiKey
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *AIConfig) Validate() error {
	var errs []error

	switch c.Provider {
	case ProviderClaude, ProviderOpenAI:
		if c.APIKey == "" {
			errs = append(errs, fmt.Errorf("provider %s requires an API key", c.Provider))
		}
	case ProviderNone:
	default:
		errs = append(errs, fmt.Errorf("unknown provider %q", c.Provider))
	}

	if err := pkgconfig.ValidateIntRange(c.MaxTokens, 64, 64000); err != nil {
		errs = append(errs, fmt.Errorf("AI_MAX_TOKENS: %w", err))
	}
	if err := pkgconfig.ValidateDurationRange(c.Timeout, time.Second, 10*time.Minute); err != nil {
		errs = append(errs, fmt.Errorf("AI_TIMEOUT: %w", err))
	}
	if err := pkgconfig.ValidateIntRange(c.MaxToolRounds, 1, 16); err != nil {
		errs = append(errs, fmt.Errorf("AI_MAX_TOOL_ROUNDS: %w", err))
	}

	return errors.Join(errs...)
}

// Enabled reports whether a real provider is configured.
func (c *AIConfig) Enabled() bool {
	return c.Provider != ProviderNone
}
