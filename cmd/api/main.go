package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/modena-retail/backoffice-backend/api/routes"
	"github.com/modena-retail/backoffice-backend/internal/catalog"
	"github.com/modena-retail/backoffice-backend/internal/corrections"
	"github.com/modena-retail/backoffice-backend/internal/history"
	"github.com/modena-retail/backoffice-backend/internal/sales"
	"github.com/modena-retail/backoffice-backend/internal/state"
	"github.com/modena-retail/backoffice-backend/internal/transfers"
	"github.com/modena-retail/backoffice-backend/pkg/config"
	"github.com/modena-retail/backoffice-backend/pkg/db"
	"github.com/modena-retail/backoffice-backend/pkg/logger"
	"github.com/modena-retail/backoffice-backend/pkg/metrics"
	"github.com/modena-retail/backoffice-backend/pkg/migrate"
	"github.com/modena-retail/backoffice-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	batchMetrics := metrics.NewBatchMetrics(registry)

	conn := dbClient.DB()
	correctionsRepo := corrections.NewRepository(conn)
	historyRepo := history.NewRepository(conn)
	stateRepo := state.NewRepository(conn)
	salesRepo := sales.NewRepository(conn)
	transfersRepo := transfers.NewRepository(conn)

	correctionsSvc, err := corrections.NewService(correctionsRepo, historyRepo, dbClient, redisClient, logg, cfg.Corrections.StatsCacheTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create corrections service", err)
		os.Exit(1)
	}
	historySvc, err := history.NewService(historyRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create history service", err)
		os.Exit(1)
	}
	stateSvc, err := state.NewService(stateRepo, correctionsRepo, historyRepo, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create state service", err)
		os.Exit(1)
	}
	salesSvc, err := sales.NewService(salesRepo, stateRepo, historyRepo, correctionsSvc, dbClient, logg, batchMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create sales service", err)
		os.Exit(1)
	}
	transfersSvc, err := transfers.NewService(transfersRepo, stateRepo, historyRepo, correctionsRepo, correctionsSvc, salesRepo, dbClient, logg, batchMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create transfers service", err)
		os.Exit(1)
	}
	catalogSvc, err := catalog.NewService(catalog.NewRepository(conn), dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			DBPinger:    dbClient,
			Redis:       redisClient,
			HTTPMetrics: httpMetrics,
			Gatherer:    registry,
			Corrections: correctionsSvc,
			State:       stateSvc,
			Transfers:   transfersSvc,
			Sales:       salesSvc,
			History:     historySvc,
			Catalog:     catalogSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
