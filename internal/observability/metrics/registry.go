package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestSize measures HTTP request body size in bytes
	HTTPRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)
)

// Pipeline metrics track the text transformation requests
var (
	// ProcessRequestsTotal counts pipeline runs by output format, source kind and outcome
	ProcessRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ringkas_process_requests_total",
			Help: "Total number of processing pipeline runs",
		},
		[]string{"format", "source", "status"},
	)

	// ProcessDuration measures the end-to-end pipeline duration
	ProcessDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ringkas_process_duration_seconds",
			Help:    "Time taken by one processing pipeline run",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
		[]string{"format"},
	)

	// ReductionPercentage observes how much shorter outputs are than their source
	ReductionPercentage = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ringkas_reduction_percentage",
			Help:    "Word count reduction of the output relative to the source text",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"format"},
	)

	// FormatViolationsTotal counts outputs that break the requested list format
	FormatViolationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ringkas_format_violations_total",
			Help: "Total number of outputs that do not conform to the requested format",
		},
		[]string{"format"},
	)
)

// LLM metrics track calls to the model providers
var (
	// LLMRequestsTotal counts provider generations by outcome
	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ringkas_llm_requests_total",
			Help: "Total number of LLM generation requests",
		},
		[]string{"provider", "status"},
	)

	// LLMRequestDuration measures a full generation including tool rounds
	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ringkas_llm_request_duration_seconds",
			Help:    "Time taken by one LLM generation including tool rounds",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
		[]string{"provider"},
	)

	// ToolInvocationsTotal counts tool calls requested by the model or made by the resolver
	ToolInvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ringkas_tool_invocations_total",
			Help: "Total number of tool invocations",
		},
		[]string{"tool", "status"},
	)
)

// Fetch metrics track page and transcript retrieval
var (
	// ContentFetchAttemptsTotal counts fetch attempts by kind and result
	ContentFetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_fetch_attempts_total",
			Help: "Total number of content fetch attempts",
		},
		[]string{"kind", "result"}, // kind: page, transcript; result: success, empty, failure
	)

	// ContentFetchDuration measures time to fetch content
	ContentFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "content_fetch_duration_seconds",
			Help:    "Time taken to fetch content",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
		[]string{"kind"},
	)

	// ContentFetchSize measures extracted text size in bytes
	ContentFetchSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "content_fetch_size_bytes",
			Help:    "Extracted content size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 4, 9),
		},
		[]string{"kind"},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, requestSize, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if requestSize > 0 {
		HTTPRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	}
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// Resilience metrics expose circuit breaker behaviour
var (
	// CircuitBreakerState is 0 closed, 1 half-open, 2 open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	// CircuitBreakerRejectionsTotal counts calls failed fast by an open or saturated breaker
	CircuitBreakerRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_rejections_total",
			Help: "Total number of calls rejected by a circuit breaker",
		},
		[]string{"name"},
	)
)

// RecordBreakerState stores the numeric state of a breaker.
func RecordBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordBreakerRejection counts one call rejected without reaching the dependency.
func RecordBreakerRejection(name string) {
	CircuitBreakerRejectionsTotal.WithLabelValues(name).Inc()
}
