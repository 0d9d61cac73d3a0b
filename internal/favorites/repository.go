// Package favorites lets users bookmark venues. The module is small enough
// to stay flat: repository, handler, and wiring live side by side.
package favorites

import (
	"context"
	"fmt"
	"time"

	"portal_da_fe_backend/internal/geo"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FavoriteVenue is a bookmarked venue summary for list views.
type FavoriteVenue struct {
	VenueID     uuid.UUID
	Name        string
	Category    string
	AddressFull string
	Coordinate  *geo.Coordinate
	Rating      *float64
	Image       string
	SavedAt     time.Time
}

// Repo implements favorite persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// NewRepo creates a favorites repository.
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Toggle flips the favorite state and reports the new state. Only visible
// venues can be favorited; the insert joins against the venue's status.
func (r *Repo) Toggle(ctx context.Context, userID, venueID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND venue_id = $2`, userID, venueID)
	if err != nil {
		return false, fmt.Errorf("remove favorite: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	tag, err = r.pool.Exec(ctx, `
		INSERT INTO favorites (user_id, venue_id)
		SELECT $1, id FROM venues WHERE id = $2 AND status IN ('active', 'approved')
		ON CONFLICT (user_id, venue_id) DO NOTHING`, userID, venueID)
	if err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// List retrieves the user's bookmarks hydrated with venue summaries,
// newest bookmark first. Venues that have since left the public catalog
// are filtered out.
func (r *Repo) List(ctx context.Context, userID uuid.UUID) ([]FavoriteVenue, error) {
	query := `
		SELECT f.venue_id, v.name, v.category, v.address_full,
			v.latitude, v.longitude, v.rating,
			COALESCE(v.images[1], ''), f.created_at
		FROM favorites f
		JOIN venues v ON v.id = f.venue_id
		WHERE f.user_id = $1 AND v.status IN ('active', 'approved')
		ORDER BY f.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	favorites := make([]FavoriteVenue, 0)
	for rows.Next() {
		var f FavoriteVenue
		var lat, lng *float64
		err := rows.Scan(&f.VenueID, &f.Name, &f.Category, &f.AddressFull,
			&lat, &lng, &f.Rating, &f.Image, &f.SavedAt)
		if err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		if lat != nil && lng != nil {
			f.Coordinate = &geo.Coordinate{Latitude: *lat, Longitude: *lng}
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}

	return favorites, nil
}

// IDs retrieves just the favorited venue IDs, for client-side hydration.
func (r *Repo) IDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT venue_id FROM favorites WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorite ids: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan favorite id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorite ids: %w", err)
	}

	return ids, nil
}
