package notification

import (
	"context"
	"fmt"
	"time"

	"portal_da_fe_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Notification is one in-app feed entry. VenueID is set when the entry
// points at a venue page the frontend can link to.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Kind      string
	Title     string
	Body      string
	VenueID   *uuid.UUID
	ReadAt    *time.Time
	CreatedAt time.Time
}

// Read reports whether the entry has been seen.
func (n Notification) Read() bool { return n.ReadAt != nil }

// Preferences controls which delivery channels reach a user. Users without
// a stored row get both channels.
type Preferences struct {
	EmailEnabled bool
	InAppEnabled bool
}

func defaultPreferences() Preferences {
	return Preferences{EmailEnabled: true, InAppEnabled: true}
}

// Store persists the in-app feed and delivery preferences.
type Store interface {
	Insert(ctx context.Context, n Notification) (Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	GetPreferences(ctx context.Context, userID uuid.UUID) (Preferences, error)
	SavePreferences(ctx context.Context, userID uuid.UUID, prefs Preferences) error
}

const notificationColumns = `id, user_id, kind, title, body, venue_id, read_at, created_at`

// Repo implements Store with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// NewRepo creates a notification repository.
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Insert records a feed entry.
func (r *Repo) Insert(ctx context.Context, n Notification) (Notification, error) {
	query := `
		INSERT INTO notifications (id, user_id, kind, title, body, venue_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + notificationColumns

	row := r.pool.QueryRow(ctx, query, uuid.New(), n.UserID, n.Kind, n.Title, n.Body, n.VenueID)

	var out Notification
	err := row.Scan(&out.ID, &out.UserID, &out.Kind, &out.Title, &out.Body,
		&out.VenueID, &out.ReadAt, &out.CreatedAt)
	if err != nil {
		return Notification{}, fmt.Errorf("insert notification: %w", err)
	}
	return out, nil
}

// ListByUser retrieves a user's feed, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]Notification, error) {
	query := `SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1 AND ($2 = false OR read_at IS NULL)
		ORDER BY created_at DESC, id DESC
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, userID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]Notification, 0)
	for rows.Next() {
		var n Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Body,
			&n.VenueID, &n.ReadAt, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return notifications, nil
}

// CountUnread reports how many entries await the user.
func (r *Repo) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks one entry as seen. Re-marking keeps the first read time.
func (r *Repo) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications SET read_at = COALESCE(read_at, NOW())
		WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

// MarkAllRead marks the whole feed as seen.
func (r *Repo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE notifications SET read_at = NOW()
		WHERE user_id = $1 AND read_at IS NULL`, userID)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

// GetPreferences loads delivery preferences, defaulting both channels on
// when the user never saved any.
func (r *Repo) GetPreferences(ctx context.Context, userID uuid.UUID) (Preferences, error) {
	prefs := defaultPreferences()
	rows, err := r.pool.Query(ctx, `
		SELECT email_enabled, in_app_enabled
		FROM notification_preferences WHERE user_id = $1`, userID)
	if err != nil {
		return prefs, fmt.Errorf("get notification preferences: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&prefs.EmailEnabled, &prefs.InAppEnabled); err != nil {
			return defaultPreferences(), fmt.Errorf("scan notification preferences: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return defaultPreferences(), fmt.Errorf("get notification preferences: %w", err)
	}
	return prefs, nil
}

// SavePreferences upserts delivery preferences.
func (r *Repo) SavePreferences(ctx context.Context, userID uuid.UUID, prefs Preferences) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notification_preferences (user_id, email_enabled, in_app_enabled)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			email_enabled = EXCLUDED.email_enabled,
			in_app_enabled = EXCLUDED.in_app_enabled,
			updated_at = NOW()`, userID, prefs.EmailEnabled, prefs.InAppEnabled)
	if err != nil {
		return fmt.Errorf("save notification preferences: %w", err)
	}
	return nil
}

var _ Store = (*Repo)(nil)
