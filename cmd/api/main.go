package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/palletbase/palletbase-backend/api/routes"
	"github.com/palletbase/palletbase-backend/internal/analytics"
	"github.com/palletbase/palletbase-backend/internal/expenses"
	"github.com/palletbase/palletbase-backend/internal/insights"
	"github.com/palletbase/palletbase-backend/internal/items"
	"github.com/palletbase/palletbase-backend/internal/mileage"
	"github.com/palletbase/palletbase-backend/internal/notifications"
	"github.com/palletbase/palletbase-backend/internal/pallets"
	"github.com/palletbase/palletbase-backend/internal/photos"
	"github.com/palletbase/palletbase-backend/internal/tiers"
	"github.com/palletbase/palletbase-backend/pkg/config"
	"github.com/palletbase/palletbase-backend/pkg/db"
	"github.com/palletbase/palletbase-backend/pkg/logger"
	"github.com/palletbase/palletbase-backend/pkg/migrate"
	"github.com/palletbase/palletbase-backend/pkg/redis"
	"github.com/palletbase/palletbase-backend/pkg/storage/gcs"
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

	var remover photos.PhotoRemover = photos.NopRemover{}
	if cfg.Storage.Bucket != "" {
		storageClient, err := gcs.NewClient(context.Background(), cfg.Storage, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap storage", err)
			os.Exit(1)
		}
		remover = storageClient
	} else {
		logg.Warn(context.Background(), "no storage bucket configured, photo deletes archive rows only")
	}

	svcs, err := buildServices(cfg, dbClient, remover)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
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
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, svcs),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildServices(cfg *config.Config, dbClient *db.Client, remover photos.PhotoRemover) (routes.Services, error) {
	gdb := dbClient.DB()

	tiersSvc, err := tiers.NewService(tiers.NewRepository(gdb))
	if err != nil {
		return routes.Services{}, err
	}
	palletsSvc, err := pallets.NewService(pallets.NewRepository(gdb), tiersSvc)
	if err != nil {
		return routes.Services{}, err
	}
	itemsSvc, err := items.NewService(items.NewRepository(gdb), dbClient, tiersSvc)
	if err != nil {
		return routes.Services{}, err
	}
	expensesSvc, err := expenses.NewService(expenses.NewRepository(gdb), tiersSvc)
	if err != nil {
		return routes.Services{}, err
	}

	mileageRate, err := decimal.NewFromString(cfg.Engine.MileageRate)
	if err != nil {
		return routes.Services{}, err
	}
	mileageSvc, err := mileage.NewService(mileage.NewRepository(gdb), tiersSvc, mileageRate)
	if err != nil {
		return routes.Services{}, err
	}
	photosSvc, err := photos.NewService(photos.NewRepository(gdb), tiersSvc, remover)
	if err != nil {
		return routes.Services{}, err
	}
	analyticsSvc, err := analytics.NewService(analytics.NewRepository(gdb))
	if err != nil {
		return routes.Services{}, err
	}
	insightsSvc, err := insights.NewService(insights.NewRepository(gdb), cfg.Engine.StaleThresholdDays)
	if err != nil {
		return routes.Services{}, err
	}
	notificationsSvc, err := notifications.NewService(notifications.NewRepository(gdb))
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Pallets:       palletsSvc,
		Items:         itemsSvc,
		Expenses:      expensesSvc,
		Mileage:       mileageSvc,
		Photos:        photosSvc,
		Analytics:     analyticsSvc,
		Insights:      insightsSvc,
		Tiers:         tiersSvc,
		Notifications: notificationsSvc,
	}, nil
}
