// Package tracing provides OpenTelemetry tracing integration: provider
// setup, span helpers for the processing pipeline, and HTTP middleware.
//
//	shutdown := tracing.Init(1.0, nil)
//	defer shutdown(context.Background())
//
//	ctx, span := tracing.StartSpan(ctx, "pipeline.resolve")
//	defer tracing.EndSpan(span, err)
package tracing
