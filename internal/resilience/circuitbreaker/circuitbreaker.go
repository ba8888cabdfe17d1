// Package circuitbreaker wraps github.com/sony/gobreaker for the outbound
// dependencies of the pipeline: the page fetcher, the transcript fetcher and
// the LLM APIs.
package circuitbreaker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"ringkas/internal/observability/metrics"
)

// ErrRejected matches calls the breaker refused to run, either because it is
// open or because the half-open probe quota is used up.
var ErrRejected = errors.New("circuit breaker rejected the call")

// Config holds the configuration for a circuit breaker.
type Config struct {
	// Name labels logs, metrics and the health endpoint.
	Name string

	// MaxRequests is the number of probe calls allowed while half-open.
	MaxRequests uint32

	// Interval clears the closed-state counts.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration

	// FailureThreshold is the failure ratio that trips the breaker, e.g. 0.6.
	FailureThreshold float64

	// MinRequests is the number of calls needed before the ratio is considered.
	MinRequests uint32

	// IsSuccessful reports errors that must not count against the dependency,
	// e.g. a URL rejected before any request was sent. Nil counts every error.
	IsSuccessful func(err error) bool
}

// DefaultConfig is tuned for a single API host.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// ClaudeAPIConfig is used by the Anthropic provider.
func ClaudeAPIConfig() Config {
	return DefaultConfig("claude-api")
}

// OpenAIAPIConfig is used by the OpenAI provider.
func OpenAIAPIConfig() Config {
	return DefaultConfig("openai-api")
}

// ContentFetchConfig is used for arbitrary web pages. Pages fail for many
// site-specific reasons, so the breaker tolerates more.
func ContentFetchConfig() Config {
	return Config{
		Name:             "content-fetch",
		MaxRequests:      5,
		Interval:         60 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.7,
		MinRequests:      10,
	}
}

// TranscriptFetchConfig is used by the video transcript fetcher. All calls
// hit a single host.
func TranscriptFetchConfig() Config {
	return Config{
		Name:             "transcript-fetch",
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          120 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// CircuitBreaker is a named gobreaker instance.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New creates a closed breaker.
func New(cfg Config) *CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordBreakerState(name, int(to))
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
		IsSuccessful: cfg.IsSuccessful,
	}

	metrics.RecordBreakerState(cfg.Name, int(gobreaker.StateClosed))
	return &CircuitBreaker{
		breaker: gobreaker.NewCircuitBreaker(settings),
		name:    cfg.Name,
	}
}

// Do runs fn through cb. A refused call returns an error matching ErrRejected
// without invoking fn.
func Do[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	result, err := cb.breaker.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordBreakerRejection(cb.name)
			return zero, fmt.Errorf("%w: %s: %v", ErrRejected, cb.name, err)
		}
		return zero, err
	}
	v, _ := result.(T)
	return v, nil
}

// State returns the current state.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

// Name returns the configured name.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// IsOpen reports whether calls are currently failing fast.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}

// Snapshot is the state and counts of the current generation.
type Snapshot struct {
	State                string
	Requests             uint32
	TotalFailures        uint32
	ConsecutiveFailures  uint32
	ConsecutiveSuccesses uint32
}

// Snapshot reads the breaker without changing it.
func (cb *CircuitBreaker) Snapshot() Snapshot {
	counts := cb.breaker.Counts()
	return Snapshot{
		State:                cb.breaker.State().String(),
		Requests:             counts.Requests,
		TotalFailures:        counts.TotalFailures,
		ConsecutiveFailures:  counts.ConsecutiveFailures,
		ConsecutiveSuccesses: counts.ConsecutiveSuccesses,
	}
}
