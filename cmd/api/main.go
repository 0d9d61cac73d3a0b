package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portal_da_fe_backend/internal/adapters"
	"portal_da_fe_backend/internal/agenda"
	"portal_da_fe_backend/internal/appointments"
	"portal_da_fe_backend/internal/auth"
	"portal_da_fe_backend/internal/comments"
	"portal_da_fe_backend/internal/email"
	"portal_da_fe_backend/internal/events"
	"portal_da_fe_backend/internal/favorites"
	"portal_da_fe_backend/internal/geoposition"
	apphttp "portal_da_fe_backend/internal/http"
	"portal_da_fe_backend/internal/http/router"
	"portal_da_fe_backend/internal/maps"
	"portal_da_fe_backend/internal/notification"
	"portal_da_fe_backend/internal/scheduler"
	"portal_da_fe_backend/internal/storage"
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
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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
	log.Info("database connection established")

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	reminderScheduler, closeScheduler := initReminderScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events and serves the
	// in-app notification center.
	notificationModule := notification.New(sender, notification.NewRepo(pool), cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	geopositionModule := geoposition.NewModule(log, val)
	authModule := auth.NewModule(pool, cfg, eventBus, log, val)
	venuesModule := venues.NewModule(pool, geopositionModule.Hub(), eventBus, log, val, cfg)
	favoritesModule := favorites.NewModule(pool)
	commentsModule := comments.NewModule(pool, eventBus, log, val)
	agendaModule := agenda.NewModule(pool, eventBus, log, val)
	appointmentsModule := appointments.NewModule(pool, eventBus, log, val, cfg.GetReminderLeadTime())
	mapsModule := maps.NewModule(log)

	// Cross-module wiring through anti-corruption adapters
	usersAdapter := adapters.NewAuthUsersAdapter(authModule.Service())
	venuesModule.SetUserReader(usersAdapter)
	commentsModule.SetAuthorReader(usersAdapter)
	appointmentsModule.SetUserReader(usersAdapter)

	venuesAdapter := adapters.NewVenuesAdapter(venuesModule.Service())
	commentsModule.SetVenueChecker(venuesAdapter)
	agendaModule.SetVenueReader(venuesAdapter)
	appointmentsModule.SetVenueReader(venuesAdapter)
	notificationModule.SetVenueNameReader(venuesAdapter)

	venuesModule.SetGeocoder(mapsModule.Service())

	if reminderScheduler != nil {
		appointmentsModule.SetReminderScheduler(reminderScheduler)
	}

	modules := []apphttp.Module{
		authModule,
		geopositionModule,
		venuesModule,
		favoritesModule,
		commentsModule,
		agendaModule,
		appointmentsModule,
		mapsModule,
		notificationModule,
	}

	// Storage is optional; without MinIO, venue images stay as opaque keys.
	if cfg.IsMinIOEnabled() {
		storageSvc, err := storage.New(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure storage bucket", 5, 2*time.Second, func() error {
			return storageSvc.EnsureBucket(ctx)
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err)
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		venuesModule.SetImageStore(storageSvc)
		modules = append(modules, storage.NewModule(storageSvc, val))
		log.Info("storage service initialized", "bucket", cfg.GetMinioBucketVenueImages())
	} else {
		log.Warn("MinIO not configured; image uploads disabled")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules:  modules,
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; appointment reminders disabled")
		return nil, nil
	}

	reminderClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return reminderClient, func() {
		_ = reminderClient.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
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
