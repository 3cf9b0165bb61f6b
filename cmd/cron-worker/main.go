package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/palletbase/palletbase-backend/internal/cron"
	"github.com/palletbase/palletbase-backend/internal/insights"
	"github.com/palletbase/palletbase-backend/internal/notifications"
	"github.com/palletbase/palletbase-backend/internal/photos"
	"github.com/palletbase/palletbase-backend/pkg/config"
	"github.com/palletbase/palletbase-backend/pkg/db"
	"github.com/palletbase/palletbase-backend/pkg/instance"
	"github.com/palletbase/palletbase-backend/pkg/logger"
	"github.com/palletbase/palletbase-backend/pkg/metrics"
	"github.com/palletbase/palletbase-backend/pkg/migrate"
	"github.com/palletbase/palletbase-backend/pkg/redis"
	"github.com/palletbase/palletbase-backend/pkg/storage/gcs"
)

const lockKeyFormat = "pb:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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

	var remover photos.PhotoRemover = photos.NopRemover{}
	if cfg.Storage.Bucket != "" {
		storageClient, err := gcs.NewClient(context.Background(), cfg.Storage, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap storage", err)
			os.Exit(1)
		}
		remover = storageClient
	} else {
		logg.Warn(context.Background(), "no storage bucket configured, retention sweeps archive rows only")
	}

	gdb := dbClient.DB()

	insightsSvc, err := insights.NewService(insights.NewRepository(gdb), cfg.Engine.StaleThresholdDays)
	if err != nil {
		logg.Error(context.Background(), "failed to create insights service", err)
		os.Exit(1)
	}
	notificationsSvc, err := notifications.NewService(notifications.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}
	cleaner := photos.NewCleaner(photos.NewRepository(gdb), remover, logg)

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)

	photoRetentionJob, err := cron.NewPhotoRetentionJob(cron.PhotoRetentionJobParams{
		Logger:  logg,
		Cleaner: cleaner,
		Metrics: metricsCollector,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create photo retention job", err)
		os.Exit(1)
	}
	staleListingJob, err := cron.NewStaleListingJob(cron.StaleListingJobParams{
		Logger:   logg,
		Insights: insightsSvc,
		Notifier: notificationsSvc,
		Dedupe:   redisClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create stale listing job", err)
		os.Exit(1)
	}
	notificationCleanupJob, err := cron.NewNotificationCleanupJob(cron.NotificationCleanupJobParams{
		Logger:        logg,
		Notifications: notificationsSvc,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification cleanup job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry(photoRetentionJob, staleListingJob, notificationCleanupJob)
	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"instance":    instance.GetID(),
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
