// Package transport defines the appointments HTTP shapes.
package transport

import (
	"time"

	"portal_da_fe_backend/internal/appointments/repository"
)

// BookRequest schedules a visit.
type BookRequest struct {
	VisitorName string    `json:"visitorName" binding:"required" validate:"min=2,max=120"`
	Phone       string    `json:"phone" binding:"required" validate:"min=8,max=30"`
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
	Note        string    `json:"note" validate:"max=500"`
}

// VisitWindowDTO is one weekday's visiting hours. Times are minutes since
// midnight.
type VisitWindowDTO struct {
	Weekday     int `json:"weekday" validate:"gte=0,lte=6"`
	OpensAt     int `json:"opensAt" validate:"gte=0,lt=1440"`
	ClosesAt    int `json:"closesAt" validate:"gt=0,lte=1440"`
	SlotMinutes int `json:"slotMinutes" validate:"gte=5,lte=480"`
}

// ReplaceWindowsRequest swaps a venue's weekly schedule.
type ReplaceWindowsRequest struct {
	Windows []VisitWindowDTO `json:"windows" validate:"max=21,dive"`
}

// AppointmentResponse is the appointment view.
type AppointmentResponse struct {
	ID          string    `json:"id"`
	VenueID     string    `json:"venueId"`
	VisitorName string    `json:"visitorName"`
	Phone       string    `json:"phone"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Status      string    `json:"status"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SlotsResponse lists the open slots for one day.
type SlotsResponse struct {
	VenueID string      `json:"venueId"`
	Date    string      `json:"date"`
	Slots   []time.Time `json:"slots"`
}

// FromAppointment maps a stored appointment to its response shape.
func FromAppointment(a repository.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:          a.ID.String(),
		VenueID:     a.VenueID.String(),
		VisitorName: a.VisitorName,
		Phone:       a.Phone,
		ScheduledAt: a.ScheduledAt,
		Status:      string(a.Status),
		Note:        a.Note,
		CreatedAt:   a.CreatedAt,
	}
}

// FromAppointments maps an appointment slice.
func FromAppointments(appointments []repository.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		out = append(out, FromAppointment(a))
	}
	return out
}
