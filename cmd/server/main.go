package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ventureshield/internal/app"
	"ventureshield/internal/config"
)

func main() {
	cfg := config.Load()
	logger := config.InitLogger(os.Stdout, cfg)
	logger.Info("started")
	ctx := context.Background()

	// Log AI settings
	if cfg.AI.IsEnabled() {
		logger.Info("enrichment configured",
			"model", cfg.AI.Model,
			"timeout_ms", cfg.AI.TimeoutMS,
			"max_delta", cfg.AI.MaxDelta,
		)
	} else {
		logger.Warn("GEMINI_API_KEY not set, every report uses the deterministic fallback")
	}

	application, err := app.New(ctx, cfg, logger, app.Options{})
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	logger.Info("catalog loaded",
		"path", catalogSource(cfg.CatalogPath),
		"sections", len(application.Catalog.Sections()),
		"questions", application.Catalog.QuestionCount(),
	)
	if !cfg.AuthEnabled() {
		logger.Warn("JWT_SECRET not set, client auth disabled")
	}

	// Start server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           application.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		logger.Info("endpoints",
			"routes", []string{
				"GET  /health",
				"GET  /metrics",
				"GET  /v1/catalog",
				"POST /v1/prescore",
				"POST /v1/analyze",
			},
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

func catalogSource(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}
