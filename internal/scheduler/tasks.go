// Package scheduler runs delayed work over Redis with asynq: appointment
// reminders enqueued at booking time and delivered near the visit.
package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskAppointmentReminder = "appointments.reminder"

// AppointmentReminderPayload identifies one reminder delivery. Email and
// venue name are snapshotted at booking time; the worker re-checks the
// appointment's live status before delivering.
type AppointmentReminderPayload struct {
	AppointmentID string    `json:"appointmentId"`
	UserEmail     string    `json:"userEmail"`
	VenueName     string    `json:"venueName"`
	ScheduledAt   time.Time `json:"scheduledAt"`
}

func NewAppointmentReminderTask(payload AppointmentReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAppointmentReminder, data), nil
}

func ParseAppointmentReminderPayload(task *asynq.Task) (AppointmentReminderPayload, error) {
	var payload AppointmentReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return AppointmentReminderPayload{}, err
	}
	return payload, nil
}
