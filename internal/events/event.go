// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"portal_da_fe_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Auth Domain Events
// =============================================================================

// UserSignedUp is published when a new user successfully registers.
type UserSignedUp struct {
	BaseEvent
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
}

func (e UserSignedUp) EventName() string { return "auth.user.signed_up" }

// =============================================================================
// Venues Domain Events
// =============================================================================

// VenueSubmitted is published when a user submits a new venue for moderation.
type VenueSubmitted struct {
	BaseEvent
	VenueID   uuid.UUID `json:"venueId"`
	OwnerID   uuid.UUID `json:"ownerId"`
	VenueName string    `json:"venueName"`
}

func (e VenueSubmitted) EventName() string { return "venues.venue.submitted" }

// VenueApproved is published when a moderator approves a pending venue.
type VenueApproved struct {
	BaseEvent
	VenueID    uuid.UUID `json:"venueId"`
	OwnerID    uuid.UUID `json:"ownerId"`
	OwnerEmail string    `json:"ownerEmail"`
	VenueName  string    `json:"venueName"`
}

func (e VenueApproved) EventName() string { return "venues.venue.approved" }

// VenueRejected is published when a moderator rejects a pending venue.
type VenueRejected struct {
	BaseEvent
	VenueID    uuid.UUID `json:"venueId"`
	OwnerID    uuid.UUID `json:"ownerId"`
	OwnerEmail string    `json:"ownerEmail"`
	VenueName  string    `json:"venueName"`
	Reason     string    `json:"reason,omitempty"`
}

func (e VenueRejected) EventName() string { return "venues.venue.rejected" }

// =============================================================================
// Agenda Domain Events
// =============================================================================

// VenueEventSubmitted is published when a venue owner submits an agenda
// entry for moderation.
type VenueEventSubmitted struct {
	BaseEvent
	EventID   uuid.UUID `json:"eventId"`
	VenueID   uuid.UUID `json:"venueId"`
	CreatorID uuid.UUID `json:"creatorId"`
	Title     string    `json:"title"`
}

func (e VenueEventSubmitted) EventName() string { return "agenda.event.submitted" }

// VenueEventModerated is published when a moderator approves or rejects an
// agenda entry.
type VenueEventModerated struct {
	BaseEvent
	EventID   uuid.UUID `json:"eventId"`
	VenueID   uuid.UUID `json:"venueId"`
	CreatorID uuid.UUID `json:"creatorId"`
	Title     string    `json:"title"`
	Approved  bool      `json:"approved"`
	Note      string    `json:"note,omitempty"`
}

func (e VenueEventModerated) EventName() string { return "agenda.event.moderated" }

// =============================================================================
// Comments Domain Events
// =============================================================================

// CommentSubmitted is published when a visitor submits a comment for moderation.
type CommentSubmitted struct {
	BaseEvent
	CommentID uuid.UUID `json:"commentId"`
	VenueID   uuid.UUID `json:"venueId"`
	AuthorID  uuid.UUID `json:"authorId"`
}

func (e CommentSubmitted) EventName() string { return "comments.comment.submitted" }

// CommentModerated is published when a moderator approves or rejects a comment.
type CommentModerated struct {
	BaseEvent
	CommentID   uuid.UUID `json:"commentId"`
	VenueID     uuid.UUID `json:"venueId"`
	AuthorID    uuid.UUID `json:"authorId"`
	AuthorEmail string    `json:"authorEmail"`
	Approved    bool      `json:"approved"`
	Note        string    `json:"note,omitempty"`
}

func (e CommentModerated) EventName() string { return "comments.comment.moderated" }

// =============================================================================
// Appointments Domain Events
// =============================================================================

// AppointmentBooked is published when a visit is scheduled.
type AppointmentBooked struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	VenueID       uuid.UUID `json:"venueId"`
	UserID        uuid.UUID `json:"userId"`
	UserEmail     string    `json:"userEmail"`
	VenueName     string    `json:"venueName"`
	When          string    `json:"when"`
}

func (e AppointmentBooked) EventName() string { return "appointments.appointment.booked" }

// AppointmentCancelled is published when a scheduled visit is cancelled.
type AppointmentCancelled struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	VenueID       uuid.UUID `json:"venueId"`
	UserID        uuid.UUID `json:"userId"`
	UserEmail     string    `json:"userEmail"`
	VenueName     string    `json:"venueName"`
}

func (e AppointmentCancelled) EventName() string { return "appointments.appointment.cancelled" }

// AppointmentReminderDue is published by the scheduler worker when a
// reminder should be delivered.
type AppointmentReminderDue struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	UserID        uuid.UUID `json:"userId"`
	UserEmail     string    `json:"userEmail"`
	VenueName     string    `json:"venueName"`
	When          string    `json:"when"`
}

func (e AppointmentReminderDue) EventName() string { return "appointments.reminder.due" }
