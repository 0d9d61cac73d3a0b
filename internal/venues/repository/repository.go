// Package repository implements venue persistence over PostgreSQL.
// Every record is normalized into the canonical domain.Venue shape at this
// boundary: structured address parts, an ordered image key list, and
// provider timestamps as time.Time.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"portal_da_fe_backend/internal/geo"
	"portal_da_fe_backend/internal/venues/domain"
	"portal_da_fe_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const venueNotFoundMessage = "venue not found"

const venueColumns = `id, name, category, description,
	address_street, address_number, address_city, address_state, address_full,
	latitude, longitude, opening_hours, phone, images, rating, status, owner_id,
	created_at, updated_at`

// Repo implements venue persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new venue repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ListParams controls the admin venue listing.
type ListParams struct {
	Search   string
	Status   string
	Offset   int
	Limit    int
}

// CreateParams carries a new venue submission.
type CreateParams struct {
	ID           uuid.UUID
	Name         string
	Category     string
	Description  string
	Address      domain.Address
	Coordinate   *geo.Coordinate
	OpeningHours string
	Phone        string
	Images       []string
	Status       domain.Status
	OwnerID      uuid.UUID
}

// UpdateParams carries a partial venue update. Nil fields are left untouched.
type UpdateParams struct {
	ID           uuid.UUID
	Name         *string
	Category     *string
	Description  *string
	Address      *domain.Address
	Coordinate   *geo.Coordinate
	OpeningHours *string
	Phone        *string
	Images       []string
}

// ListVisible retrieves all publicly visible venues, optionally narrowed by
// a category filter pushed down as a substring match. The status filter is
// applied again by the ranking engine; the pushdown just trims the payload.
func (r *Repo) ListVisible(ctx context.Context, typeFilter string) ([]domain.Venue, error) {
	query := `SELECT ` + venueColumns + `
		FROM venues
		WHERE status = ANY($1)`
	args := []interface{}{visibleStatuses()}

	if strings.TrimSpace(typeFilter) != "" {
		query += ` AND category ILIKE $2`
		args = append(args, "%"+strings.TrimSpace(typeFilter)+"%")
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list visible venues: %w", err)
	}
	defer rows.Close()

	return scanVenues(rows)
}

// GetByID retrieves a venue regardless of status.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	venue, err := scanVenue(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Venue{}, apperr.NotFound(venueNotFoundMessage)
		}
		return domain.Venue{}, fmt.Errorf("get venue by id: %w", err)
	}

	return venue, nil
}

// GetVisibleByID retrieves a venue only when it is publicly visible.
func (r *Repo) GetVisibleByID(ctx context.Context, id uuid.UUID) (domain.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE id = $1 AND status = ANY($2)`

	row := r.pool.QueryRow(ctx, query, id, visibleStatuses())
	venue, err := scanVenue(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Venue{}, apperr.NotFound(venueNotFoundMessage)
		}
		return domain.Venue{}, fmt.Errorf("get visible venue by id: %w", err)
	}

	return venue, nil
}

// Create inserts a new venue record.
func (r *Repo) Create(ctx context.Context, params CreateParams) (domain.Venue, error) {
	query := `
		INSERT INTO venues
			(id, name, category, description,
			 address_street, address_number, address_city, address_state, address_full,
			 latitude, longitude, opening_hours, phone, images, rating, status, owner_id)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NULL, $15, $16)
		RETURNING ` + venueColumns

	lat, lng := coordinateColumns(params.Coordinate)

	row := r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.Category, params.Description,
		params.Address.Street, params.Address.Number, params.Address.City,
		params.Address.State, params.Address.Full,
		lat, lng, params.OpeningHours, params.Phone, imagesOrEmpty(params.Images),
		string(params.Status), params.OwnerID,
	)

	venue, err := scanVenue(row)
	if err != nil {
		return domain.Venue{}, fmt.Errorf("create venue: %w", err)
	}

	return venue, nil
}

// Update applies a partial update and bumps updated_at.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (domain.Venue, error) {
	query := `
		UPDATE venues SET
			name = COALESCE($2, name),
			category = COALESCE($3, category),
			description = COALESCE($4, description),
			address_street = COALESCE($5, address_street),
			address_number = COALESCE($6, address_number),
			address_city = COALESCE($7, address_city),
			address_state = COALESCE($8, address_state),
			address_full = COALESCE($9, address_full),
			latitude = COALESCE($10, latitude),
			longitude = COALESCE($11, longitude),
			opening_hours = COALESCE($12, opening_hours),
			phone = COALESCE($13, phone),
			images = COALESCE($14, images),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + venueColumns

	var street, number, city, state, full *string
	if params.Address != nil {
		street, number = &params.Address.Street, &params.Address.Number
		city, state = &params.Address.City, &params.Address.State
		full = &params.Address.Full
	}
	lat, lng := coordinateColumns(params.Coordinate)

	row := r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.Category, params.Description,
		street, number, city, state, full,
		lat, lng, params.OpeningHours, params.Phone, params.Images,
	)

	venue, err := scanVenue(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Venue{}, apperr.NotFound(venueNotFoundMessage)
		}
		return domain.Venue{}, fmt.Errorf("update venue: %w", err)
	}

	return venue, nil
}

// SetStatus moves a venue through its moderation lifecycle.
func (r *Repo) SetStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.Venue, error) {
	query := `
		UPDATE venues SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + venueColumns

	row := r.pool.QueryRow(ctx, query, id, string(status))
	venue, err := scanVenue(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Venue{}, apperr.NotFound(venueNotFoundMessage)
		}
		return domain.Venue{}, fmt.Errorf("set venue status: %w", err)
	}

	return venue, nil
}

// SetRating overwrites the venue's aggregate rating.
func (r *Repo) SetRating(ctx context.Context, id uuid.UUID, rating *float64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE venues SET rating = $2, updated_at = NOW() WHERE id = $1`, id, rating)
	if err != nil {
		return fmt.Errorf("set venue rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(venueNotFoundMessage)
	}
	return nil
}

// Delete removes a venue record.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM venues WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete venue: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(venueNotFoundMessage)
	}
	return nil
}

// ListPending retrieves venues awaiting moderation, oldest first.
func (r *Repo) ListPending(ctx context.Context) ([]domain.Venue, error) {
	query := `SELECT ` + venueColumns + `
		FROM venues WHERE status = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, string(domain.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("list pending venues: %w", err)
	}
	defer rows.Close()

	return scanVenues(rows)
}

// ListByOwner retrieves all venues submitted by one user.
func (r *Repo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Venue, error) {
	query := `SELECT ` + venueColumns + `
		FROM venues WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list venues by owner: %w", err)
	}
	defer rows.Close()

	return scanVenues(rows)
}

// ListWithFilters retrieves venues with search, status filter, and pagination.
func (r *Repo) ListWithFilters(ctx context.Context, params ListParams) ([]domain.Venue, int, error) {
	var searchParam interface{}
	if params.Search != "" {
		searchParam = "%" + params.Search + "%"
	}
	var statusParam interface{}
	if params.Status != "" {
		statusParam = params.Status
	}

	countQuery := `
		SELECT COUNT(*)
		FROM venues
		WHERE ($1::text IS NULL OR name ILIKE $1 OR category ILIKE $1 OR address_city ILIKE $1)
			AND ($2::text IS NULL OR status = $2)`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, searchParam, statusParam).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count venues: %w", err)
	}

	query := `SELECT ` + venueColumns + `
		FROM venues
		WHERE ($1::text IS NULL OR name ILIKE $1 OR category ILIKE $1 OR address_city ILIKE $1)
			AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC
		OFFSET $3 LIMIT $4`

	rows, err := r.pool.Query(ctx, query, searchParam, statusParam, params.Offset, params.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list venues with filters: %w", err)
	}
	defer rows.Close()

	venues, err := scanVenues(rows)
	if err != nil {
		return nil, 0, err
	}

	return venues, total, nil
}

// ListCategories returns the distinct categories of visible venues.
func (r *Repo) ListCategories(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT category FROM venues
		WHERE status = ANY($1) AND category <> '' ORDER BY category`

	rows, err := r.pool.Query(ctx, query, visibleStatuses())
	if err != nil {
		return nil, fmt.Errorf("list venue categories: %w", err)
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("scan venue category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate venue categories: %w", err)
	}

	return categories, nil
}

func visibleStatuses() []string {
	return []string{string(domain.StatusActive), string(domain.StatusApproved)}
}

func coordinateColumns(c *geo.Coordinate) (*float64, *float64) {
	if c == nil {
		return nil, nil
	}
	lat, lng := c.Latitude, c.Longitude
	return &lat, &lng
}

func imagesOrEmpty(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}

func scanVenue(row pgx.Row) (domain.Venue, error) {
	var v domain.Venue
	var lat, lng *float64
	var status string

	err := row.Scan(
		&v.ID, &v.Name, &v.Category, &v.Description,
		&v.Address.Street, &v.Address.Number, &v.Address.City,
		&v.Address.State, &v.Address.Full,
		&lat, &lng, &v.OpeningHours, &v.Phone, &v.Images, &v.Rating, &status,
		&v.OwnerID, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return domain.Venue{}, err
	}

	v.Status = domain.Status(status)
	if lat != nil && lng != nil {
		v.Coordinate = &geo.Coordinate{Latitude: *lat, Longitude: *lng}
	}

	return v, nil
}

func scanVenues(rows pgx.Rows) ([]domain.Venue, error) {
	venues := make([]domain.Venue, 0)
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			return nil, fmt.Errorf("scan venue: %w", err)
		}
		venues = append(venues, venue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate venues: %w", err)
	}
	return venues, nil
}
