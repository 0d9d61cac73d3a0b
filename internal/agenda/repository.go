// Package agenda is the venue events bounded context: masses, services,
// celebrations, and other gatherings a venue announces on its page. Entries
// pass through the same submit-then-moderate flow as venues and comments.
package agenda

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portal_da_fe_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Status is the agenda entry moderation state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusRejected Status = "rejected"
)

// VenueEvent is a persisted agenda entry.
type VenueEvent struct {
	ID             uuid.UUID
	VenueID        uuid.UUID
	CreatedBy      uuid.UUID
	Title          string
	Description    string
	StartsAt       time.Time
	EndsAt         time.Time
	Status         Status
	ModerationNote string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const eventColumns = `id, venue_id, created_by, title, description,
	starts_at, ends_at, status, moderation_note, created_at, updated_at`

// Repo implements agenda persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// NewRepo creates an agenda repository.
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a new agenda entry with the given status.
func (r *Repo) Create(ctx context.Context, venueID, createdBy uuid.UUID,
	title, description string, startsAt, endsAt time.Time, status Status) (VenueEvent, error) {
	query := `
		INSERT INTO venue_events (id, venue_id, created_by, title, description, starts_at, ends_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + eventColumns

	row := r.pool.QueryRow(ctx, query,
		uuid.New(), venueID, createdBy, title, description, startsAt, endsAt, string(status))

	event, err := scanEvent(row)
	if err != nil {
		return VenueEvent{}, fmt.Errorf("create venue event: %w", err)
	}
	return event, nil
}

// GetByID retrieves one agenda entry.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (VenueEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM venue_events WHERE id = $1`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return VenueEvent{}, apperr.NotFound("event not found")
		}
		return VenueEvent{}, fmt.Errorf("get venue event: %w", err)
	}
	return event, nil
}

// ListUpcoming retrieves a venue's active entries that have not ended yet,
// soonest first.
func (r *Repo) ListUpcoming(ctx context.Context, venueID uuid.UUID, now time.Time, limit int) ([]VenueEvent, error) {
	query := `SELECT ` + eventColumns + `
		FROM venue_events
		WHERE venue_id = $1 AND status = $2 AND ends_at >= $3
		ORDER BY starts_at ASC, id ASC
		LIMIT $4`

	rows, err := r.pool.Query(ctx, query, venueID, string(StatusActive), now, limit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListPending retrieves the moderation queue, oldest first.
func (r *Repo) ListPending(ctx context.Context) ([]VenueEvent, error) {
	query := `SELECT ` + eventColumns + `
		FROM venue_events WHERE status = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, string(StatusPending))
	if err != nil {
		return nil, fmt.Errorf("list pending events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// SetStatus moves an entry through moderation.
func (r *Repo) SetStatus(ctx context.Context, id uuid.UUID, status Status, note string) (VenueEvent, error) {
	query := `
		UPDATE venue_events SET status = $2, moderation_note = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + eventColumns

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id, string(status), note))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return VenueEvent{}, apperr.NotFound("event not found")
		}
		return VenueEvent{}, fmt.Errorf("set event status: %w", err)
	}
	return event, nil
}

// Delete removes an agenda entry. Ownership is checked by the service.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM venue_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete venue event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("event not found")
	}
	return nil
}

func scanEvent(row pgx.Row) (VenueEvent, error) {
	var e VenueEvent
	var status string
	err := row.Scan(&e.ID, &e.VenueID, &e.CreatedBy, &e.Title, &e.Description,
		&e.StartsAt, &e.EndsAt, &status, &e.ModerationNote, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return VenueEvent{}, err
	}
	e.Status = Status(status)
	return e, nil
}

func scanEvents(rows pgx.Rows) ([]VenueEvent, error) {
	events := make([]VenueEvent, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan venue event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate venue events: %w", err)
	}
	return events, nil
}
