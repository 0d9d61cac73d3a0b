// Package service implements the comments business logic: review submission
// with moderation, approved listings, and the venue rating aggregate.
package service

import (
	"context"

	"portal_da_fe_backend/internal/comments/repository"
	"portal_da_fe_backend/internal/events"
	"portal_da_fe_backend/platform/apperr"
	"portal_da_fe_backend/platform/logger"
	"portal_da_fe_backend/platform/sanitize"

	"github.com/google/uuid"
)

const defaultPageSize = 20

// VenueChecker confirms a venue exists and is publicly visible before a
// review is accepted for it.
type VenueChecker interface {
	IsVisible(ctx context.Context, venueID uuid.UUID) (bool, error)
}

// AuthorReader resolves author display names and emails.
type AuthorReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (name, email string, err error)
}

// Service implements the comments business logic.
type Service struct {
	repo     *repository.Repo
	eventBus events.Bus
	log      *logger.Logger

	venues  VenueChecker
	authors AuthorReader
}

// New creates the comments service.
func New(repo *repository.Repo, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, eventBus: eventBus, log: log}
}

// SetVenueChecker wires the venue visibility check.
func (s *Service) SetVenueChecker(venues VenueChecker) { s.venues = venues }

// SetAuthorReader wires author metadata lookup.
func (s *Service) SetAuthorReader(authors AuthorReader) { s.authors = authors }

// Submit files a review for moderation. The author's display name is
// snapshotted so later account changes do not rewrite history.
func (s *Service) Submit(ctx context.Context, venueID, authorID uuid.UUID, rating int, content string) (repository.Comment, error) {
	if s.venues != nil {
		visible, err := s.venues.IsVisible(ctx, venueID)
		if err != nil {
			return repository.Comment{}, err
		}
		if !visible {
			return repository.Comment{}, apperr.NotFound("venue not found")
		}
	}

	authorName := ""
	if s.authors != nil {
		name, _, err := s.authors.GetByID(ctx, authorID)
		if err != nil {
			return repository.Comment{}, err
		}
		authorName = name
	}

	comment, err := s.repo.Create(ctx, venueID, authorID, authorName, rating, sanitize.Text(content))
	if err != nil {
		return repository.Comment{}, err
	}

	s.eventBus.Publish(ctx, events.CommentSubmitted{
		BaseEvent: events.NewBaseEvent(),
		CommentID: comment.ID,
		VenueID:   comment.VenueID,
		AuthorID:  comment.AuthorID,
	})

	return comment, nil
}

// ListApproved retrieves one public page of a venue's reviews.
func (s *Service) ListApproved(ctx context.Context, venueID uuid.UUID, after *repository.Cursor, limit int) ([]repository.Comment, *repository.Cursor, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultPageSize
	}
	return s.repo.ListApproved(ctx, venueID, after, limit)
}

// ListPending retrieves the moderation queue.
func (s *Service) ListPending(ctx context.Context) ([]repository.Comment, error) {
	return s.repo.ListPending(ctx)
}

// Moderate approves or rejects a pending comment. Approval folds the
// rating into the venue's aggregate.
func (s *Service) Moderate(ctx context.Context, id uuid.UUID, approve bool, note string) (repository.Comment, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Comment{}, err
	}
	if existing.Status != repository.StatusPending {
		return repository.Comment{}, apperr.Conflict("comment is not pending moderation")
	}

	status := repository.StatusRejected
	if approve {
		status = repository.StatusApproved
	}

	comment, err := s.repo.SetStatus(ctx, id, status, sanitize.Text(note))
	if err != nil {
		return repository.Comment{}, err
	}

	authorEmail := ""
	if s.authors != nil {
		if _, email, err := s.authors.GetByID(ctx, comment.AuthorID); err == nil {
			authorEmail = email
		} else {
			s.log.Warn("author email lookup failed", "author_id", comment.AuthorID, "error", err)
		}
	}

	s.eventBus.Publish(ctx, events.CommentModerated{
		BaseEvent:   events.NewBaseEvent(),
		CommentID:   comment.ID,
		VenueID:     comment.VenueID,
		AuthorID:    comment.AuthorID,
		AuthorEmail: authorEmail,
		Approved:    approve,
		Note:        comment.ModerationNote,
	})

	return comment, nil
}

// Delete removes a comment. Authors may delete their own; admins any.
func (s *Service) Delete(ctx context.Context, actorID uuid.UUID, isAdmin bool, id uuid.UUID) error {
	comment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && comment.AuthorID != actorID {
		return apperr.Forbidden("only the comment author can delete it")
	}

	return s.repo.Delete(ctx, id)
}
