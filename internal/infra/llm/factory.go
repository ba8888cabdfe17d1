package llm

import (
	"fmt"

	"ringkas/internal/config"
	"ringkas/internal/usecase/ai"
)

// NewProvider builds the provider selected by cfg.
func NewProvider(cfg *config.AIConfig) (ai.Provider, error) {
	llmCfg := Config{
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
		Timeout:   cfg.Timeout,
		BaseURL:   cfg.BaseURL,
	}

	switch cfg.Provider {
	case config.ProviderClaude:
		return NewClaude(llmCfg), nil
	case config.ProviderOpenAI:
		return NewOpenAI(llmCfg), nil
	case config.ProviderNone:
		return NewNoop(), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}
