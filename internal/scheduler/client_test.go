package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

func TestScheduleReminderEnqueuesDelayedTask(t *testing.T) {
	mr := miniredis.RunT(t)
	opt := asynq.RedisClientOpt{Addr: mr.Addr()}

	client := &Client{client: asynq.NewClient(opt), queue: "default"}
	defer client.Close()

	apptID := uuid.New()
	scheduledAt := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	deliverAt := scheduledAt.Add(-time.Hour)

	err := client.ScheduleReminder(context.Background(), apptID,
		"visitor@example.com", "Igreja Matriz", scheduledAt, deliverAt)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	inspector := asynq.NewInspector(opt)
	defer inspector.Close()

	tasks, err := inspector.ListScheduledTasks("default")
	if err != nil {
		t.Fatalf("list scheduled: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 scheduled task, got %d", len(tasks))
	}
	if tasks[0].Type != TaskAppointmentReminder {
		t.Fatalf("unexpected task type %q", tasks[0].Type)
	}

	payload, err := ParseAppointmentReminderPayload(asynq.NewTask(tasks[0].Type, tasks[0].Payload))
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if payload.AppointmentID != apptID.String() {
		t.Fatalf("expected appointment %s, got %s", apptID, payload.AppointmentID)
	}
	if payload.UserEmail != "visitor@example.com" || payload.VenueName != "Igreja Matriz" {
		t.Fatalf("payload snapshot mismatch: %+v", payload)
	}
}

func TestNilClientIsNoOp(t *testing.T) {
	var client *Client
	err := client.ScheduleReminder(context.Background(), uuid.New(),
		"visitor@example.com", "Templo", time.Now(), time.Now())
	if err != nil {
		t.Fatalf("nil client must be a no-op, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("nil close must be a no-op, got %v", err)
	}
}
