package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mvillagra/storefront-session/api/routes"
	"github.com/mvillagra/storefront-session/internal/catalog"
	"github.com/mvillagra/storefront-session/internal/session"
	"github.com/mvillagra/storefront-session/pkg/config"
	"github.com/mvillagra/storefront-session/pkg/db"
	"github.com/mvillagra/storefront-session/pkg/gateway"
	"github.com/mvillagra/storefront-session/pkg/logger"
	"github.com/mvillagra/storefront-session/pkg/metrics"
	"github.com/mvillagra/storefront-session/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-session"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-session",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	platform, err := gateway.NewClient(cfg.Gateway, logg, metrics.NewGatewayMetrics(promRegistry))
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gateway client", err)
		os.Exit(1)
	}

	dbClient, err := db.New(context.Background(), cfg.CatalogDB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap catalog db", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing catalog db", err)
		}
	}()

	catalogRepo := catalog.NewRepository(dbClient)
	if err := catalogRepo.Migrate(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to migrate catalog cache", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo, platform, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, mutation throttling disabled")
	}

	registry, err := session.NewRegistry(platform, logg, cfg.Session)
	if err != nil {
		logg.Error(context.Background(), "failed to create session registry", err)
		os.Exit(1)
	}
	registry.StartSweeper(context.Background(), cfg.Session.SweepInterval)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront session server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, platform, registry, catalogService, promRegistry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "server stopped unexpectedly", err)
		os.Exit(1)
	}
}
