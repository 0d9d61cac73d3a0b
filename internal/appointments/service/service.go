// Package service implements visit scheduling: free-slot computation from
// a venue's weekly visiting windows, booking with phone validation, and
// the lifecycle transitions that drive reminders.
package service

import (
	"context"
	"sort"
	"time"

	"portal_da_fe_backend/internal/appointments/repository"
	"portal_da_fe_backend/internal/events"
	"portal_da_fe_backend/platform/apperr"
	"portal_da_fe_backend/platform/logger"
	"portal_da_fe_backend/platform/phone"
	"portal_da_fe_backend/platform/sanitize"

	"github.com/google/uuid"
)

// VenueReader resolves venue visibility, ownership, and display names.
type VenueReader interface {
	VisibleName(ctx context.Context, venueID uuid.UUID) (string, error)
	OwnerOf(ctx context.Context, venueID uuid.UUID) (uuid.UUID, error)
}

// UserReader resolves visitor emails for notifications and reminders.
type UserReader interface {
	GetEmailByID(ctx context.Context, id uuid.UUID) (string, error)
}

// ReminderScheduler enqueues a reminder to be delivered near the visit
// time. A nil scheduler disables reminders without disabling booking.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, appointmentID uuid.UUID, userEmail, venueName string, scheduledAt, deliverAt time.Time) error
}

// BookParams carries one booking request.
type BookParams struct {
	VenueID     uuid.UUID
	UserID      uuid.UUID
	VisitorName string
	Phone       string
	ScheduledAt time.Time
	Note        string
}

// Service implements the appointments business logic.
type Service struct {
	repo         *repository.Repo
	eventBus     events.Bus
	log          *logger.Logger
	reminderLead time.Duration

	venues    VenueReader
	users     UserReader
	reminders ReminderScheduler
}

// New creates the appointments service. reminderLead is how long before
// the visit the reminder fires.
func New(repo *repository.Repo, eventBus events.Bus, log *logger.Logger, reminderLead time.Duration) *Service {
	return &Service{repo: repo, eventBus: eventBus, log: log, reminderLead: reminderLead}
}

// SetVenueReader wires venue lookups.
func (s *Service) SetVenueReader(venues VenueReader) { s.venues = venues }

// SetUserReader wires visitor email lookup.
func (s *Service) SetUserReader(users UserReader) { s.users = users }

// SetReminderScheduler wires the reminder queue.
func (s *Service) SetReminderScheduler(r ReminderScheduler) { s.reminders = r }

// FreeSlots computes the open visiting slots for a venue on one calendar
// day. Slots already past never appear; a day without windows yields an
// empty list, not an error.
func (s *Service) FreeSlots(ctx context.Context, venueID uuid.UUID, day time.Time) ([]time.Time, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	windows, err := s.repo.WindowsForWeekday(ctx, venueID, dayStart.Weekday())
	if err != nil {
		return nil, err
	}

	booked, err := s.repo.BookedTimes(ctx, venueID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	return slotsFromWindows(windows, booked, dayStart, time.Now()), nil
}

// slotsFromWindows expands visiting windows into concrete slot starts,
// dropping past and occupied slots. A window whose slot length does not
// divide it evenly loses its trailing partial slot.
func slotsFromWindows(windows []repository.VisitWindow, booked []time.Time, dayStart, now time.Time) []time.Time {
	taken := make(map[int64]struct{}, len(booked))
	for _, t := range booked {
		taken[t.Unix()] = struct{}{}
	}

	slots := make([]time.Time, 0)
	for _, w := range windows {
		step := w.SlotMinutes
		if step <= 0 {
			step = 60
		}
		for minute := w.OpensAt; minute+step <= w.ClosesAt; minute += step {
			slot := dayStart.Add(time.Duration(minute) * time.Minute)
			if slot.Before(now) {
				continue
			}
			if _, occupied := taken[slot.Unix()]; occupied {
				continue
			}
			slots = append(slots, slot)
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Before(slots[j]) })
	return slots
}

// Book schedules a visit. The requested time must land on a free slot of
// the venue's schedule and the contact phone must be a valid number.
func (s *Service) Book(ctx context.Context, params BookParams) (repository.Appointment, error) {
	if params.ScheduledAt.Before(time.Now()) {
		return repository.Appointment{}, apperr.Validation("cannot book a time in the past")
	}

	if !phone.IsValid(params.Phone) {
		return repository.Appointment{}, apperr.Validation("invalid phone number")
	}
	normalizedPhone := phone.NormalizeE164(params.Phone)

	venueName := ""
	if s.venues != nil {
		name, err := s.venues.VisibleName(ctx, params.VenueID)
		if err != nil {
			return repository.Appointment{}, err
		}
		venueName = name
	}

	if err := s.checkSlot(ctx, params.VenueID, params.ScheduledAt); err != nil {
		return repository.Appointment{}, err
	}

	appt, err := s.repo.Create(ctx, params.VenueID, params.UserID,
		sanitize.Text(params.VisitorName), normalizedPhone, params.ScheduledAt,
		sanitize.Text(params.Note))
	if err != nil {
		return repository.Appointment{}, err
	}

	userEmail := s.userEmail(ctx, params.UserID)
	s.eventBus.Publish(ctx, events.AppointmentBooked{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appt.ID,
		VenueID:       appt.VenueID,
		UserID:        appt.UserID,
		UserEmail:     userEmail,
		VenueName:     venueName,
		When:          appt.ScheduledAt.Format(time.RFC3339),
	})

	s.scheduleReminder(ctx, appt, userEmail, venueName)

	return appt, nil
}

// Confirm marks a pending appointment confirmed. Only the venue owner or
// an admin may confirm.
func (s *Service) Confirm(ctx context.Context, actorID uuid.UUID, isAdmin bool, id uuid.UUID) (repository.Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Appointment{}, err
	}
	if appt.Status != repository.StatusPending {
		return repository.Appointment{}, apperr.Conflict("appointment is not pending")
	}

	if !isAdmin {
		if s.venues == nil {
			return repository.Appointment{}, apperr.Forbidden("not allowed")
		}
		ownerID, err := s.venues.OwnerOf(ctx, appt.VenueID)
		if err != nil {
			return repository.Appointment{}, err
		}
		if ownerID != actorID {
			return repository.Appointment{}, apperr.Forbidden("only the venue owner can confirm")
		}
	}

	return s.repo.SetStatus(ctx, id, repository.StatusConfirmed)
}

// Cancel cancels an appointment. The visitor, the venue owner, and admins
// may cancel; a cancelled appointment frees its slot.
func (s *Service) Cancel(ctx context.Context, actorID uuid.UUID, isAdmin bool, id uuid.UUID) (repository.Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Appointment{}, err
	}
	if appt.Status == repository.StatusCancelled {
		return appt, nil
	}

	allowed := isAdmin || appt.UserID == actorID
	if !allowed && s.venues != nil {
		if ownerID, err := s.venues.OwnerOf(ctx, appt.VenueID); err == nil && ownerID == actorID {
			allowed = true
		}
	}
	if !allowed {
		return repository.Appointment{}, apperr.Forbidden("not allowed to cancel this appointment")
	}

	cancelled, err := s.repo.SetStatus(ctx, id, repository.StatusCancelled)
	if err != nil {
		return repository.Appointment{}, err
	}

	venueName := ""
	if s.venues != nil {
		if name, err := s.venues.VisibleName(ctx, cancelled.VenueID); err == nil {
			venueName = name
		}
	}
	s.eventBus.Publish(ctx, events.AppointmentCancelled{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: cancelled.ID,
		VenueID:       cancelled.VenueID,
		UserID:        cancelled.UserID,
		UserEmail:     s.userEmail(ctx, cancelled.UserID),
		VenueName:     venueName,
	})

	return cancelled, nil
}

// Get retrieves one appointment for its visitor, the venue owner, or an
// admin.
func (s *Service) Get(ctx context.Context, actorID uuid.UUID, isAdmin bool, id uuid.UUID) (repository.Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Appointment{}, err
	}

	if isAdmin || appt.UserID == actorID {
		return appt, nil
	}
	if s.venues != nil {
		if ownerID, err := s.venues.OwnerOf(ctx, appt.VenueID); err == nil && ownerID == actorID {
			return appt, nil
		}
	}

	return repository.Appointment{}, apperr.Forbidden("not allowed to view this appointment")
}

// ListMine retrieves the caller's appointments.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]repository.Appointment, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListForVenue retrieves a venue's appointments for its owner or an admin.
func (s *Service) ListForVenue(ctx context.Context, actorID uuid.UUID, isAdmin bool, venueID uuid.UUID) ([]repository.Appointment, error) {
	if !isAdmin {
		if s.venues == nil {
			return nil, apperr.Forbidden("not allowed")
		}
		ownerID, err := s.venues.OwnerOf(ctx, venueID)
		if err != nil {
			return nil, err
		}
		if ownerID != actorID {
			return nil, apperr.Forbidden("only the venue owner can view its appointments")
		}
	}
	return s.repo.ListByVenue(ctx, venueID)
}

// ReplaceWindows swaps a venue's weekly visiting schedule. Owner or admin.
func (s *Service) ReplaceWindows(ctx context.Context, actorID uuid.UUID, isAdmin bool, venueID uuid.UUID, windows []repository.VisitWindow) error {
	if !isAdmin {
		if s.venues == nil {
			return apperr.Forbidden("not allowed")
		}
		ownerID, err := s.venues.OwnerOf(ctx, venueID)
		if err != nil {
			return err
		}
		if ownerID != actorID {
			return apperr.Forbidden("only the venue owner can edit its schedule")
		}
	}

	for _, w := range windows {
		if w.OpensAt < 0 || w.ClosesAt > 24*60 || w.OpensAt >= w.ClosesAt {
			return apperr.Validation("visiting window is out of order")
		}
		if w.Weekday < time.Sunday || w.Weekday > time.Saturday {
			return apperr.Validation("invalid weekday")
		}
	}

	return s.repo.ReplaceWindows(ctx, venueID, windows)
}

// checkSlot verifies the requested time lands on a free slot.
func (s *Service) checkSlot(ctx context.Context, venueID uuid.UUID, at time.Time) error {
	slots, err := s.FreeSlots(ctx, venueID, at)
	if err != nil {
		return err
	}
	for _, slot := range slots {
		if slot.Equal(at) {
			return nil
		}
	}
	return apperr.Conflict("requested time is not an open slot")
}

func (s *Service) userEmail(ctx context.Context, userID uuid.UUID) string {
	if s.users == nil {
		return ""
	}
	email, err := s.users.GetEmailByID(ctx, userID)
	if err != nil {
		s.log.Warn("visitor email lookup failed", "user_id", userID, "error", err)
		return ""
	}
	return email
}

func (s *Service) scheduleReminder(ctx context.Context, appt repository.Appointment, userEmail, venueName string) {
	if s.reminders == nil || userEmail == "" {
		return
	}

	deliverAt := appt.ScheduledAt.Add(-s.reminderLead)
	if deliverAt.Before(time.Now()) {
		return
	}

	err := s.reminders.ScheduleReminder(ctx, appt.ID, userEmail, venueName, appt.ScheduledAt, deliverAt)
	if err != nil {
		// Booking already succeeded; a lost reminder is logged, not fatal.
		s.log.Error("reminder scheduling failed", "appointment_id", appt.ID, "error", err)
	}
}
