package agenda

import (
	"context"
	"time"

	"portal_da_fe_backend/internal/events"
	"portal_da_fe_backend/platform/apperr"
	"portal_da_fe_backend/platform/logger"
	"portal_da_fe_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	defaultUpcomingLimit = 20
	maxUpcomingLimit     = 100

	// An agenda entry is a single gathering, not a season. Recurring
	// celebrations are announced one occurrence at a time.
	maxEventDuration = 7 * 24 * time.Hour
)

// VenueReader confirms a venue is publicly visible and resolves its owner
// before agenda entries are accepted for it.
type VenueReader interface {
	IsVisible(ctx context.Context, venueID uuid.UUID) (bool, error)
	OwnerOf(ctx context.Context, venueID uuid.UUID) (uuid.UUID, error)
}

// Service implements the agenda business logic.
type Service struct {
	repo     *Repo
	eventBus events.Bus
	log      *logger.Logger

	venues VenueReader
}

// NewService creates the agenda service.
func NewService(repo *Repo, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, eventBus: eventBus, log: log}
}

// SetVenueReader wires venue visibility and ownership lookup.
func (s *Service) SetVenueReader(venues VenueReader) { s.venues = venues }

// Submit files an agenda entry. Only the venue owner or an admin may
// announce events for a venue; owner submissions wait for moderation while
// admin entries go live immediately.
func (s *Service) Submit(ctx context.Context, venueID, creatorID uuid.UUID, isAdmin bool,
	title, description string, startsAt, endsAt time.Time) (VenueEvent, error) {
	if err := validateWindow(startsAt, endsAt, time.Now()); err != nil {
		return VenueEvent{}, err
	}

	if s.venues != nil {
		visible, err := s.venues.IsVisible(ctx, venueID)
		if err != nil {
			return VenueEvent{}, err
		}
		if !visible {
			return VenueEvent{}, apperr.NotFound("venue not found")
		}

		if !isAdmin {
			ownerID, err := s.venues.OwnerOf(ctx, venueID)
			if err != nil {
				return VenueEvent{}, err
			}
			if ownerID != creatorID {
				return VenueEvent{}, apperr.Forbidden("only the venue owner can announce events")
			}
		}
	}

	status := StatusPending
	if isAdmin {
		status = StatusActive
	}

	event, err := s.repo.Create(ctx, venueID, creatorID,
		sanitize.Text(title), sanitize.Text(description), startsAt, endsAt, status)
	if err != nil {
		return VenueEvent{}, err
	}

	s.eventBus.Publish(ctx, events.VenueEventSubmitted{
		BaseEvent: events.NewBaseEvent(),
		EventID:   event.ID,
		VenueID:   event.VenueID,
		CreatorID: event.CreatedBy,
		Title:     event.Title,
	})

	return event, nil
}

// ListUpcoming retrieves a venue's published agenda, soonest first.
func (s *Service) ListUpcoming(ctx context.Context, venueID uuid.UUID, limit int) ([]VenueEvent, error) {
	if limit <= 0 || limit > maxUpcomingLimit {
		limit = defaultUpcomingLimit
	}
	return s.repo.ListUpcoming(ctx, venueID, time.Now(), limit)
}

// ListPending retrieves the moderation queue.
func (s *Service) ListPending(ctx context.Context) ([]VenueEvent, error) {
	return s.repo.ListPending(ctx)
}

// Moderate approves or rejects a pending agenda entry.
func (s *Service) Moderate(ctx context.Context, id uuid.UUID, approve bool, note string) (VenueEvent, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return VenueEvent{}, err
	}
	if existing.Status != StatusPending {
		return VenueEvent{}, apperr.Conflict("event is not pending moderation")
	}

	status := StatusRejected
	if approve {
		status = StatusActive
	}

	event, err := s.repo.SetStatus(ctx, id, status, sanitize.Text(note))
	if err != nil {
		return VenueEvent{}, err
	}

	s.eventBus.Publish(ctx, events.VenueEventModerated{
		BaseEvent: events.NewBaseEvent(),
		EventID:   event.ID,
		VenueID:   event.VenueID,
		CreatorID: event.CreatedBy,
		Title:     event.Title,
		Approved:  approve,
		Note:      event.ModerationNote,
	})

	return event, nil
}

// Delete removes an agenda entry. Creators may delete their own; admins any.
func (s *Service) Delete(ctx context.Context, actorID uuid.UUID, isAdmin bool, id uuid.UUID) error {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && event.CreatedBy != actorID {
		return apperr.Forbidden("only the event creator can delete it")
	}

	return s.repo.Delete(ctx, id)
}

// validateWindow checks the announced time window: it must be ordered, not
// already over, and no longer than a single-occurrence gathering can be.
func validateWindow(startsAt, endsAt, now time.Time) error {
	if startsAt.IsZero() || endsAt.IsZero() {
		return apperr.Validation("event start and end are required")
	}
	if !endsAt.After(startsAt) {
		return apperr.Validation("event must end after it starts")
	}
	if endsAt.Before(now) {
		return apperr.Validation("event is already over")
	}
	if endsAt.Sub(startsAt) > maxEventDuration {
		return apperr.Validation("event cannot span more than 7 days")
	}
	return nil
}
