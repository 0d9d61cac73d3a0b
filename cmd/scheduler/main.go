package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portal_da_fe_backend/internal/adapters"
	"portal_da_fe_backend/internal/email"
	"portal_da_fe_backend/internal/events"
	"portal_da_fe_backend/internal/geoposition"
	"portal_da_fe_backend/internal/notification"
	"portal_da_fe_backend/internal/scheduler"
	"portal_da_fe_backend/internal/venues"
	"portal_da_fe_backend/platform/config"
	"portal_da_fe_backend/platform/db"
	"portal_da_fe_backend/platform/logger"
	"portal_da_fe_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// Reminders go through the same notification handlers as the API, so
	// they land in both the user's inbox and the in-app feed.
	notificationModule := notification.New(sender, notification.NewRepo(pool), cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	geopositionModule := geoposition.NewModule(log, val)
	venuesModule := venues.NewModule(pool, geopositionModule.Hub(), eventBus, log, val, cfg)
	notificationModule.SetVenueNameReader(adapters.NewVenuesAdapter(venuesModule.Service()))

	worker, err := scheduler.NewWorker(cfg, pool, eventBus, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
