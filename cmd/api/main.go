package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ringkas/internal/app"
	"ringkas/internal/config"
	"ringkas/internal/observability/logging"
	"ringkas/internal/observability/tracing"
	"ringkas/pkg/security/csp"

	hhttp "ringkas/internal/handler/http"
	"ringkas/internal/handler/http/middleware"
	"ringkas/internal/handler/http/process"
	"ringkas/internal/handler/http/requestid"
	"ringkas/internal/handler/http/web"
)

// @title           Ringkas API
// @version         1.0
// @description     Ringkasan, poin penting, pertanyaan dan ide konten dari teks, URL atau PDF berbahasa Indonesia.
// @BasePath  /

func main() {
	logger := logging.New(logging.OptionsFromEnv())
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	shutdownTracing := tracing.Init(1.0, nil)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to shut down tracer provider", slog.Any("error", err))
		}
	}()

	components, err := app.Build(cfg, logger)
	if err != nil {
		logger.Error("failed to build pipeline", slog.Any("error", err))
		os.Exit(1)
	}

	handler, err := setupServer(logger, cfg.Server, components)
	if err != nil {
		logger.Error("failed to set up routes", slog.Any("error", err))
		os.Exit(1)
	}

	runServer(logger, cfg.Server, handler)
}

// setupServer registers every route and wraps the mux in the middleware chain.
func setupServer(logger *slog.Logger, cfg *config.ServerConfig, c *app.Components) (http.Handler, error) {
	mux := http.NewServeMux()

	aiHealth := hhttp.NewAIHealthHandler(c.Provider)
	mux.Handle("GET /health", &hhttp.HealthHandler{
		Provider:      c.Provider,
		Breakers:      c.Breakers,
		Version:       cfg.Version,
		CSPEnabled:    cfg.CSPEnabled,
		CSPReportOnly: cfg.CSPReportOnly,
	})
	mux.HandleFunc("GET /health/ai", aiHealth.Health)
	mux.HandleFunc("GET /ready", aiHealth.Ready)
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	process.Register(mux, c.Service, logger)

	ui, err := web.NewHandler(c.Service, logger)
	if err != nil {
		return nil, err
	}
	ui.Register(mux)

	return applyMiddleware(logger, cfg, mux), nil
}

// applyMiddleware wraps the handler with the middleware chain.
// Order: Request ID → Tracing → Logging → Recovery → Body Limit → CSP → Metrics.
// Metrics must stay innermost: it reads the route pattern the mux sets on the request.
func applyMiddleware(logger *slog.Logger, cfg *config.ServerConfig, handler http.Handler) http.Handler {
	cspMW := middleware.NewCSP(middleware.CSPConfig{
		Enabled:       cfg.CSPEnabled,
		DefaultPolicy: csp.WebUIPolicy(),
		PathPolicies: map[string]*csp.Builder{
			"/api/": csp.APIPolicy(),
		},
		ReportOnly: cfg.CSPReportOnly,
	})
	if cfg.CSPEnabled {
		logger.Info("CSP enabled", slog.Bool("report_only", cfg.CSPReportOnly))
	} else {
		logger.Warn("CSP is disabled")
	}

	return hhttp.Chain(handler,
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Logging(logger),
		hhttp.Recover(logger),
		hhttp.LimitRequestBody(cfg.MaxBodyBytes),
		cspMW.Middleware,
		hhttp.MetricsMiddleware,
	)
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, cfg *config.ServerConfig, handler http.Handler) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Addr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	// In-flight generations finish; BaseContext is cancelled only after Shutdown returns.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	cancel()
	logger.Info("server stopped")
}
