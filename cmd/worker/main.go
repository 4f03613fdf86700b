package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/hidesync/hidesync/internal/app"
	"github.com/hidesync/hidesync/internal/inventory"
	"github.com/hidesync/hidesync/internal/materials"
	"github.com/hidesync/hidesync/internal/planning"
	"github.com/hidesync/hidesync/internal/platform/cache"
	"github.com/hidesync/hidesync/internal/platform/db"
	"github.com/hidesync/hidesync/internal/procurement"
	"github.com/hidesync/hidesync/internal/suppliers"
	"github.com/hidesync/hidesync/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	// The worker cannot do anything without its queue backend.
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	suppliersService := suppliers.NewService(suppliers.NewRepository(pool))
	materialsService := materials.NewService(materials.NewRepository(pool))
	inventoryRepo := inventory.NewRepository(pool)
	inventoryService := inventory.NewService(inventoryRepo)

	planningCache := planning.NewCache(redisClient, cfg.PlanningCacheTTL)
	if err := planningCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("planning cache listener", slog.Any("error", err))
	}
	procurementService := procurement.NewService(procurement.NewRepository(pool), planningCache, logger)

	orderStore := planning.NewOrderStoreAdapter(procurementService, suppliersService)
	bucketer := planning.NewTimelineBucketer(orderStore)
	planner := planning.NewPurchasePlanner(
		planning.NewInventoryAdapter(inventoryService),
		planning.NewCatalogAdapter(materialsService),
		suppliersService,
		orderStore,
		inventory.NewUsageEstimator(inventoryRepo, inventory.DefaultUsageWindowDays),
	)
	planningService := planning.NewService(bucketer, planner, planningCache)

	snapshotter := jobs.NewPlanSnapshotter(planningService, pool, logger)
	warmer := jobs.NewCacheWarmer(planningService, logger)

	snapshotTask, err := jobs.NewPlanSnapshotTask(jobs.PlanSnapshotPayload{
		ScheduledFor: time.Now().UTC(),
		MinStockDays: planning.DefaultMinStockDays,
	})
	if err != nil {
		logger.Error("build snapshot task", slog.Any("error", err))
		os.Exit(1)
	}
	warmupTask, err := jobs.NewCacheWarmupTask(jobs.CacheWarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			snapshotter.TaskHandler(),
			warmer.TaskHandler(),
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 2 * * *", Task: snapshotTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "30 2 * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
