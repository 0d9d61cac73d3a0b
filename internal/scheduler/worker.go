package scheduler

import (
	"context"
	"fmt"
	"time"

	"portal_da_fe_backend/internal/appointments/repository"
	"portal_da_fe_backend/internal/events"
	"portal_da_fe_backend/platform/config"
	"portal_da_fe_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Worker consumes delayed tasks and turns them into domain events. The
// reminder handler re-reads the appointment so reminders for cancelled
// visits are dropped instead of delivered.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   *repository.Repo
	bus    events.Bus
	log    *logger.Logger
}

// NewWorker builds the asynq consumer.
func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   repository.New(pool),
		bus:    bus,
		log:    log,
	}

	mux.HandleFunc(TaskAppointmentReminder, w.handleAppointmentReminder)

	return w, nil
}

// Run serves tasks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleAppointmentReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAppointmentReminderPayload(task)
	if err != nil {
		return err
	}

	apptID, err := uuid.Parse(payload.AppointmentID)
	if err != nil {
		return err
	}

	appt, err := w.repo.GetByID(ctx, apptID)
	if err != nil {
		return err
	}

	if appt.Status == repository.StatusCancelled {
		w.log.Info("skipping reminder for cancelled appointment", "appointment_id", apptID)
		return nil
	}
	if w.bus == nil {
		return nil
	}

	w.bus.Publish(ctx, events.AppointmentReminderDue{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appt.ID,
		UserID:        appt.UserID,
		UserEmail:     payload.UserEmail,
		VenueName:     payload.VenueName,
		When:          appt.ScheduledAt.Format(time.RFC3339),
	})

	return nil
}
