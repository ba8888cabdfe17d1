// Package app wires configuration, fetchers and the model provider into a
// ready summarize.Service. Both binaries build their service through it.
package app

import (
	"fmt"
	"log/slog"

	"ringkas/internal/config"
	"ringkas/internal/infra/fetcher"
	"ringkas/internal/infra/langdetect"
	"ringkas/internal/infra/llm"
	"ringkas/internal/resilience/circuitbreaker"
	"ringkas/internal/usecase/ai"
	"ringkas/internal/usecase/summarize"
)

// Components is the assembled pipeline.
type Components struct {
	Service  *summarize.Service
	Provider ai.Provider
	// Breakers lists every circuit breaker in front of an external dependency.
	Breakers []*circuitbreaker.CircuitBreaker
}

type breakerOwner interface {
	Breaker() *circuitbreaker.CircuitBreaker
}

// Build creates the fetchers, the language detector and the provider that
// cfg selects.
func Build(cfg *config.Config, logger *slog.Logger) (*Components, error) {
	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load fetcher configuration: %w", err)
	}
	html := fetcher.NewHTMLFetcher(fetchCfg)
	transcripts := fetcher.NewYouTubeTranscriptFetcher(fetchCfg)

	provider, err := llm.NewProvider(cfg.AI)
	if err != nil {
		return nil, err
	}
	if !cfg.AI.Enabled() {
		logger.Warn("no ai provider configured, processing requests will fail until an api key is set")
	}

	var detector summarize.LanguageDetector
	if cfg.Pipeline.LanguageDetection {
		detector = langdetect.New()
	}

	breakers := []*circuitbreaker.CircuitBreaker{html.Breaker(), transcripts.Breaker()}
	if owner, ok := provider.(breakerOwner); ok {
		breakers = append(breakers, owner.Breaker())
	}

	caps := cfg.Pipeline.Capabilities()
	logger.Info("pipeline configured",
		slog.String("provider", provider.Name()),
		slog.String("mode", string(caps.Mode)),
		slog.Bool("copyedit", caps.CopyEdit),
		slog.Bool("language_detection", detector != nil),
		slog.Any("video_hosts", cfg.Pipeline.VideoHosts))

	return &Components{
		Service: &summarize.Service{
			Provider:      provider,
			Resolver:      summarize.NewResolver(html, transcripts, cfg.Pipeline.VideoHosts),
			Capabilities:  caps,
			Detector:      detector,
			MaxToolRounds: cfg.AI.MaxToolRounds,
		},
		Provider: provider,
		Breakers: breakers,
	}, nil
}
