// Package logging builds the service's slog loggers and carries them through
// request contexts.
//
//	logger := logging.NewLogger() // LOG_LEVEL=debug LOG_FORMAT=text
//	slog.SetDefault(logger)
//
//	func handle(ctx context.Context) {
//	    logging.WithRequestID(ctx, slog.Default()).Info("processing request")
//	}
package logging
