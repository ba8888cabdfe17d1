// Package metrics provides centralized Prometheus metrics for the application.
//
// All metrics are registered with the Prometheus default registry through
// promauto and exposed via the /metrics endpoint.
//
//	start := time.Now()
//	text, err := fetcher.FetchContent(ctx, url)
//	metrics.RecordContentFetch("page", err, time.Since(start), len(text))
package metrics
