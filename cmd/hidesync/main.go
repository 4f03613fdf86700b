package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/hidesync/hidesync/internal/app"
	"github.com/hidesync/hidesync/internal/inventory"
	"github.com/hidesync/hidesync/internal/materials"
	"github.com/hidesync/hidesync/internal/observability"
	"github.com/hidesync/hidesync/internal/planning"
	planninghttp "github.com/hidesync/hidesync/internal/planning/http"
	"github.com/hidesync/hidesync/internal/platform/db"
	"github.com/hidesync/hidesync/internal/procurement"
	"github.com/hidesync/hidesync/internal/suppliers"
	"github.com/hidesync/hidesync/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	suppliersRepo := suppliers.NewRepository(dbpool)
	suppliersService := suppliers.NewService(suppliersRepo)
	suppliersHandler := suppliers.NewHandler(logger, suppliersService)

	materialsRepo := materials.NewRepository(dbpool)
	materialsService := materials.NewService(materialsRepo)
	materialsHandler := materials.NewHandler(logger, materialsService)

	inventoryRepo := inventory.NewRepository(dbpool)
	inventoryService := inventory.NewService(inventoryRepo)
	inventoryHandler := inventory.NewHandler(logger, inventoryService)

	planningCache := planning.NewCache(redisClient, cfg.PlanningCacheTTL)
	if err := planningCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("planning cache listener", slog.Any("error", err))
	}

	procurementRepo := procurement.NewRepository(dbpool)
	procurementService := procurement.NewService(procurementRepo, planningCache, logger)
	procurementHandler := procurement.NewHandler(logger, procurementService)

	orderStore := planning.NewOrderStoreAdapter(procurementService, suppliersService)
	catalog := planning.NewCatalogAdapter(materialsService)
	stockProvider := planning.NewInventoryAdapter(inventoryService)
	usageEstimator := inventory.NewUsageEstimator(inventoryRepo, inventory.DefaultUsageWindowDays)

	bucketer := planning.NewTimelineBucketer(orderStore)
	planner := planning.NewPurchasePlanner(stockProvider, catalog, suppliersService, orderStore, usageEstimator)
	planningService := planning.NewService(bucketer, planner, planningCache)
	planningHandler := planninghttp.NewHandler(logger, planningService)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SuppliersHandler:   suppliersHandler,
		MaterialsHandler:   materialsHandler,
		InventoryHandler:   inventoryHandler,
		ProcurementHandler: procurementHandler,
		PlanningHandler:    planningHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
