// Package main Content Hunter API
// @title Content Hunter API
// @version 1.0
// @description Aggregates video and text content from several providers and serves it ranked by a popularity score
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.email support@contenthunter.dev
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	_ "github.com/DjordjeVuckovic/content-hunter/docs"
	"github.com/DjordjeVuckovic/content-hunter/internal/aggregator"
	"github.com/DjordjeVuckovic/content-hunter/internal/api/router"
	server2 "github.com/DjordjeVuckovic/content-hunter/internal/api/server"
	"github.com/DjordjeVuckovic/content-hunter/internal/cache"
	"github.com/DjordjeVuckovic/content-hunter/internal/events"
	"github.com/DjordjeVuckovic/content-hunter/internal/ingest"
	"github.com/DjordjeVuckovic/content-hunter/internal/search"
	"github.com/DjordjeVuckovic/content-hunter/internal/source"
	"github.com/DjordjeVuckovic/content-hunter/internal/storage/factory"
	pkgserver "github.com/DjordjeVuckovic/content-hunter/pkg/server"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const healthProbeTimeout = 2 * time.Second

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	sCfg, err := server2.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
		return
	}

	healthChecker := pkgserver.NewProbeHealthChecker(healthProbeTimeout)
	s := server2.New(sCfg, healthChecker)

	store, err := factory.NewStore(s.Context(), &cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to create content store", "error", err)
		os.Exit(1)
		return
	}
	defer store.Close()

	contentCache, err := cache.New(s.Context(), &cfg.CacheConfig)
	if err != nil {
		slog.Error("Failed to create cache", "error", err)
		os.Exit(1)
		return
	}
	defer contentCache.Close()

	healthChecker.
		With("store", store.Ping).
		With("cache", func(ctx context.Context) error { return cache.Ping(ctx, contentCache) })

	mode := search.DefaultMode(store)
	if cfg.SearchMode != "" {
		mode, err = search.ParseMode(cfg.SearchMode)
		if err != nil {
			slog.Error("Invalid SEARCH_MODE", "error", err)
			os.Exit(1)
			return
		}
	}
	strategy, err := search.New(mode, store)
	if err != nil {
		slog.Error("Failed to create search strategy", "error", err)
		os.Exit(1)
		return
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promSink, err := events.NewPrometheusSink(registry)
	if err != nil {
		slog.Error("Failed to register metrics", "error", err)
		os.Exit(1)
		return
	}
	sink := events.Multi(events.NewSlogSink(slog.Default()), promSink)

	settings, err := source.LoadSettingsFile(cfg.SourcesPath)
	if err != nil {
		slog.Error("Failed to load sources configuration", "path", cfg.SourcesPath, "error", err)
		os.Exit(1)
		return
	}
	clients, err := settings.BuildResilient(source.WithSink(sink))
	if err != nil {
		slog.Error("Failed to create sources", "error", err)
		os.Exit(1)
		return
	}
	sources := make([]source.Source, len(clients))
	for i, cl := range clients {
		sources[i] = cl
	}

	ingester := ingest.NewService(store, ingest.WithSink(sink))
	svc := aggregator.NewService(sources, ingester, strategy, contentCache,
		aggregator.WithTTL(cfg.CacheConfig.TTL),
		aggregator.WithSink(sink),
	)

	slog.Info("Content API configured",
		"storageType", cfg.StorageConfig.Type,
		"cacheType", cfg.CacheConfig.Type,
		"searchMode", strategy.Mode(),
		"sources", len(sources),
	)

	s.SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupMetrics("/metrics", registry).
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "Content Hunter API is running")
	})

	searchrouter := router.NewSearchRouter(s.Echo, svc, router.WithMiddleware(s.RateLimiter()))
	searchrouter.Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	err = s.Start()
	if err != nil {
		s.Echo.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}
