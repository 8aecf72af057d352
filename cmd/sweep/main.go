package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"courtbook/internal/config"
	"courtbook/internal/database"
	"courtbook/internal/modules/booking"
	"courtbook/internal/pkg/clock"
	"courtbook/internal/pkg/logger"
	"courtbook/internal/repository"
)

// sweep runs one status pass and prunes old outbox rows. Meant for cron when
// the API runs with the in-process sweeper disabled.
func main() {
	retention := flag.Duration("outbox-retention", 90*24*time.Hour, "delete delivered notifications older than this; 0 keeps them")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	lg := logger.New(cfg.AppEnv)
	defer func() { _ = lg.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, lg)
	if err != nil {
		lg.Fatal("db connect failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	sweeper := booking.NewSweeper(repository.NewBookingRepository(db), clock.NewZone(cfg.Location), cfg.SweepInterval, lg)
	done, err := sweeper.RunOnce(ctx)
	if err != nil {
		lg.Fatal("status sweep failed", zap.Error(err))
	}

	var pruned int64
	if *retention > 0 {
		pruned, err = repository.NewNotificationRepository(db).DeleteOlderThan(ctx, *retention)
		if err != nil {
			lg.Fatal("outbox cleanup failed", zap.Error(err))
		}
	}

	lg.Info("sweep completed", zap.Int64("bookings_done", done), zap.Int64("notifications_pruned", pruned))
}
