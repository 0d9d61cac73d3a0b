// Package repository implements comment persistence over PostgreSQL.
// Public listings use keyset pagination on (created_at, id) so pages stay
// stable while new comments arrive.
package repository

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

// Status is the comment moderation state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Comment is a persisted venue review.
type Comment struct {
	ID             uuid.UUID
	VenueID        uuid.UUID
	AuthorID       uuid.UUID
	AuthorName     string
	Rating         int
	Content        string
	Status         Status
	ModerationNote string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Cursor marks a position in the keyset-paginated listing.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

const commentColumns = `id, venue_id, author_id, author_name, rating, content,
	status, moderation_note, created_at, updated_at`

// Repo implements comment persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new comment repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a new pending comment.
func (r *Repo) Create(ctx context.Context, venueID, authorID uuid.UUID, authorName string, rating int, content string) (Comment, error) {
	query := `
		INSERT INTO comments (id, venue_id, author_id, author_name, rating, content, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + commentColumns

	row := r.pool.QueryRow(ctx, query,
		uuid.New(), venueID, authorID, authorName, rating, content, string(StatusPending))

	comment, err := scanComment(row)
	if err != nil {
		return Comment{}, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// GetByID retrieves one comment.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	comment, err := scanComment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Comment{}, apperr.NotFound("comment not found")
		}
		return Comment{}, fmt.Errorf("get comment: %w", err)
	}
	return comment, nil
}

// ListApproved retrieves one page of approved comments for a venue, newest
// first. A nil cursor starts at the top; the returned cursor is nil when
// the page reached the end.
func (r *Repo) ListApproved(ctx context.Context, venueID uuid.UUID, after *Cursor, limit int) ([]Comment, *Cursor, error) {
	query := `SELECT ` + commentColumns + `
		FROM comments
		WHERE venue_id = $1 AND status = $2
			AND ($3::timestamptz IS NULL OR (created_at, id) < ($3, $4))
		ORDER BY created_at DESC, id DESC
		LIMIT $5`

	var cursorTime *time.Time
	var cursorID uuid.UUID
	if after != nil {
		cursorTime = &after.CreatedAt
		cursorID = after.ID
	}

	// Fetch one extra row to learn whether another page exists.
	rows, err := r.pool.Query(ctx, query, venueID, string(StatusApproved), cursorTime, cursorID, limit+1)
	if err != nil {
		return nil, nil, fmt.Errorf("list approved comments: %w", err)
	}
	defer rows.Close()

	comments, err := scanComments(rows)
	if err != nil {
		return nil, nil, err
	}

	var next *Cursor
	if len(comments) > limit {
		comments = comments[:limit]
		last := comments[len(comments)-1]
		next = &Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}

	return comments, next, nil
}

// ListPending retrieves the moderation queue, oldest first.
func (r *Repo) ListPending(ctx context.Context) ([]Comment, error) {
	query := `SELECT ` + commentColumns + `
		FROM comments WHERE status = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, string(StatusPending))
	if err != nil {
		return nil, fmt.Errorf("list pending comments: %w", err)
	}
	defer rows.Close()

	return scanComments(rows)
}

// SetStatus moves a comment through moderation and recomputes the venue's
// aggregate rating from its approved comments, in one transaction.
func (r *Repo) SetStatus(ctx context.Context, id uuid.UUID, status Status, note string) (Comment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Comment{}, fmt.Errorf("begin moderation tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE comments SET status = $2, moderation_note = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + commentColumns

	comment, err := scanComment(tx.QueryRow(ctx, query, id, string(status), note))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Comment{}, apperr.NotFound("comment not found")
		}
		return Comment{}, fmt.Errorf("set comment status: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE venues SET
			rating = (SELECT AVG(rating)::float8 FROM comments
				WHERE venue_id = $1 AND status = 'approved'),
			updated_at = NOW()
		WHERE id = $1`, comment.VenueID)
	if err != nil {
		return Comment{}, fmt.Errorf("recompute venue rating: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Comment{}, fmt.Errorf("commit moderation tx: %w", err)
	}

	return comment, nil
}

// Delete removes a comment and recomputes the venue aggregate, since the
// deleted comment may have been approved. Ownership is checked by the
// service.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var venueID uuid.UUID
	err = tx.QueryRow(ctx, `DELETE FROM comments WHERE id = $1 RETURNING venue_id`, id).Scan(&venueID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("comment not found")
		}
		return fmt.Errorf("delete comment: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE venues SET
			rating = (SELECT AVG(rating)::float8 FROM comments
				WHERE venue_id = $1 AND status = 'approved'),
			updated_at = NOW()
		WHERE id = $1`, venueID)
	if err != nil {
		return fmt.Errorf("recompute venue rating: %w", err)
	}

	return tx.Commit(ctx)
}

func scanComment(row pgx.Row) (Comment, error) {
	var c Comment
	var status string
	err := row.Scan(&c.ID, &c.VenueID, &c.AuthorID, &c.AuthorName, &c.Rating,
		&c.Content, &status, &c.ModerationNote, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return Comment{}, err
	}
	c.Status = Status(status)
	return c, nil
}

func scanComments(rows pgx.Rows) ([]Comment, error) {
	comments := make([]Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, nil
}
