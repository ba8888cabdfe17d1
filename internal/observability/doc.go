// Package observability groups the logging, metrics and tracing setup of the
// service.
//
// Subpackages:
//   - logging: slog logger construction and request-scoped loggers
//   - metrics: Prometheus collectors for HTTP, pipeline, LLM and fetch activity
//   - tracing: OpenTelemetry tracer provider and HTTP middleware
package observability
