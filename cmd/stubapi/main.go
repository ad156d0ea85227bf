package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxemart/storefront/api/middleware"
	"github.com/luxemart/storefront/api/routes"
	"github.com/luxemart/storefront/internal/repo"
	"github.com/luxemart/storefront/pkg/config"
	"github.com/luxemart/storefront/pkg/db"
	"github.com/luxemart/storefront/pkg/db/models"
	"github.com/luxemart/storefront/pkg/logger"
	"github.com/luxemart/storefront/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "stubapi"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "stubapi",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := context.Background()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := dbClient.DB().AutoMigrate(models.All()...); err != nil {
		logg.Error(ctx, "failed to migrate schema", err)
		os.Exit(1)
	}

	store := repo.New(dbClient.DB())

	if err := repo.SeedAdmin(ctx, store, cfg.Server, cfg.Password, logg); err != nil {
		logg.Error(ctx, "failed to seed admin", err)
		os.Exit(1)
	}
	if cfg.Server.SeedDemoData {
		if err := repo.SeedDemoProducts(ctx, store, logg); err != nil {
			logg.Error(ctx, "failed to seed catalog", err)
			os.Exit(1)
		}
	}

	// Redis is optional. Without it the auth endpoints fall back to the
	// in-process rate limiter.
	var rateStore middleware.RateLimiterStore = middleware.NewMemoryStore()
	if cfg.Redis.URL != "" {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(ctx, "error closing redis", err)
			}
		}()
		rateStore = redisClient
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Server.Port
	}
	addr := ":" + port

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting stub api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, store, rateStore, prometheus.NewRegistry()),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(startCtx, "stub api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
