package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"ventureshield/internal/cache"
	"ventureshield/internal/catalog"
	"ventureshield/internal/config"
	"ventureshield/internal/service"
	"ventureshield/internal/transport/rest"
)

// Options switch off optional collaborators
type Options struct {
	DisableEnrichment bool
	DisableCache      bool
}

// App wires the catalog, services and optional collaborators together
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Catalog  *catalog.Catalog
	Analysis *service.AnalysisService
	Auth     *service.AuthService
	Registry *prometheus.Registry

	redis *redis.Client
}

// New loads the catalog and builds every service. Redis is optional:
// when it cannot be reached the app runs without the result cache.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*App, error) {
	cat, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Catalog:  cat,
		Auth:     service.NewAuthService(cfg.JWTSecret),
		Registry: prometheus.NewRegistry(),
	}
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var enricher service.Enricher
	if !opts.DisableEnrichment && cfg.AI.IsEnabled() {
		enricher = service.NewAdvisorService(cfg.AI, cat)
	}

	var reports cache.ReportCache
	if !opts.DisableCache && cfg.CacheEnabled() {
		reports = a.connectRedis(ctx)
	}

	a.Analysis = service.NewAnalysisService(
		cat,
		enricher,
		reports,
		service.AnalysisOptions{Timeout: cfg.AI.Timeout(), MaxDelta: cfg.AI.MaxDelta},
		service.NewMetrics(a.Registry),
		logger,
	)
	return a, nil
}

func (a *App) connectRedis(ctx context.Context) cache.ReportCache {
	rdb := redis.NewClient(&redis.Options{
		Addr: a.Config.RedisAddr,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		a.Logger.Warn("redis unreachable, result cache disabled", "addr", a.Config.RedisAddr, "error", err)
		rdb.Close()
		return nil
	}

	a.Logger.Info("connected to redis", "addr", a.Config.RedisAddr, "ttl", a.Config.CacheTTL.String())
	a.redis = rdb
	return cache.NewReportCache(rdb, a.Config.CacheTTL)
}

// Handler builds the HTTP API
func (a *App) Handler() http.Handler {
	return rest.NewRouter(&rest.Container{
		AnalysisService: a.Analysis,
		AuthService:     a.Auth,
		MetricsHandler:  promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}),
		MaxBodyBytes:    a.Config.MaxBodyBytes,
		Logger:          a.Logger,
	})
}

// Close releases external connections
func (a *App) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}
