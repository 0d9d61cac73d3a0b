// Package service implements the venues business logic: public browsing,
// nearby ranking around an observer, user submissions with moderation, and
// share artifacts.
package service

import (
	"context"
	"fmt"
	"time"

	"portal_da_fe_backend/internal/events"
	"portal_da_fe_backend/internal/geo"
	"portal_da_fe_backend/internal/geoposition"
	"portal_da_fe_backend/internal/venues/domain"
	"portal_da_fe_backend/internal/venues/ranking"
	"portal_da_fe_backend/internal/venues/repository"
	"portal_da_fe_backend/platform/apperr"
	"portal_da_fe_backend/platform/logger"
	"portal_da_fe_backend/platform/sanitize"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"golang.org/x/sync/errgroup"
)

const (
	imageURLExpiry = 15 * time.Minute
	qrCodeSize     = 256
)

// Geocoder resolves a free-form address into a coordinate. A nil result
// with a nil error means the address could not be resolved.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*geo.Coordinate, error)
}

// ImageStore resolves stored image keys into time-limited URLs.
type ImageStore interface {
	PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// UserReader resolves a user's email so moderation events can carry it.
type UserReader interface {
	GetEmailByID(ctx context.Context, id uuid.UUID) (string, error)
}

// NearbyParams carries one nearby ranking request.
type NearbyParams struct {
	// Observer overrides the caller's last reported position when set.
	Observer  *geo.Coordinate
	UserID    *uuid.UUID
	Type      string
	RadiusKm  *float64
	MinRating *float64
	Query     string
	Limit     int
}

// CreateParams carries a normalized venue submission.
type CreateParams struct {
	Name         string
	Category     string
	Description  string
	Address      domain.Address
	Coordinate   *geo.Coordinate
	OpeningHours string
	Phone        string
	Images       []string
	OwnerID      uuid.UUID
}

// UpdateParams carries a partial venue update.
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

// Service implements the venues business logic.
type Service struct {
	repo         *repository.Repo
	engine       ranking.Engine
	hub          *geoposition.Hub
	eventBus     events.Bus
	log          *logger.Logger
	defaultLimit int
	shareBaseURL string

	geocoder   Geocoder
	imageStore ImageStore
	users      UserReader
}

// New creates the venues service.
func New(repo *repository.Repo, engine ranking.Engine, hub *geoposition.Hub,
	eventBus events.Bus, log *logger.Logger, defaultLimit int, shareBaseURL string) *Service {
	return &Service{
		repo:         repo,
		engine:       engine,
		hub:          hub,
		eventBus:     eventBus,
		log:          log,
		defaultLimit: defaultLimit,
		shareBaseURL: shareBaseURL,
	}
}

// SetGeocoder wires the address geocoder. Optional; without it submissions
// keep a nil coordinate until one is supplied explicitly.
func (s *Service) SetGeocoder(g Geocoder) { s.geocoder = g }

// SetImageStore wires the presigning image store. Optional; without it
// image keys are returned as-is.
func (s *Service) SetImageStore(store ImageStore) { s.imageStore = store }

// SetUserReader wires the owner email lookup used by moderation events.
func (s *Service) SetUserReader(users UserReader) { s.users = users }

// Engine exposes the ranking engine for streaming consumers.
func (s *Service) Engine() ranking.Engine { return s.engine }

// DefaultLimit returns the result cap applied when a request names none.
func (s *Service) DefaultLimit() int { return s.defaultLimit }

// VisibleSnapshot loads the current publicly visible venues, optionally
// narrowed by a category filter.
func (s *Service) VisibleSnapshot(ctx context.Context, typeFilter string) ([]domain.Venue, error) {
	return s.repo.ListVisible(ctx, typeFilter)
}

// Nearby runs the full ranking pipeline for one request. When no explicit
// observer is given, the caller's last reported position is used; with
// neither, the result is empty rather than an error.
func (s *Service) Nearby(ctx context.Context, params NearbyParams) (*geo.Coordinate, []ranking.RankedVenue, error) {
	criteria, err := ranking.NewCriteria(params.Type, params.RadiusKm, params.MinRating, params.Query)
	if err != nil {
		return nil, nil, err
	}

	observer := params.Observer
	if observer == nil && params.UserID != nil {
		if fix, ok := s.hub.Latest(*params.UserID); ok {
			c := fix.Coordinate
			observer = &c
		}
	}
	if observer != nil && !observer.Valid() {
		return nil, nil, apperr.Validation("observer coordinate out of range")
	}

	venues, err := s.repo.ListVisible(ctx, params.Type)
	if err != nil {
		return nil, nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}

	ranked := s.engine.Rank(venues, observer, criteria, limit)
	if err := s.resolveRankedImages(ctx, ranked); err != nil {
		return nil, nil, err
	}

	return observer, ranked, nil
}

// List retrieves the public venue catalog, optionally narrowed by category.
func (s *Service) List(ctx context.Context, typeFilter string) ([]domain.Venue, error) {
	venues, err := s.repo.ListVisible(ctx, typeFilter)
	if err != nil {
		return nil, err
	}
	if err := s.resolveImages(ctx, venues); err != nil {
		return nil, err
	}
	return venues, nil
}

// Get retrieves one publicly visible venue.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Venue, error) {
	venue, err := s.repo.GetVisibleByID(ctx, id)
	if err != nil {
		return domain.Venue{}, err
	}
	single := []domain.Venue{venue}
	if err := s.resolveImages(ctx, single); err != nil {
		return domain.Venue{}, err
	}
	return single[0], nil
}

// GetAny retrieves a venue regardless of status, for owners and moderators.
func (s *Service) GetAny(ctx context.Context, id uuid.UUID) (domain.Venue, error) {
	return s.repo.GetByID(ctx, id)
}

// Create registers a new venue submission. Submissions always enter the
// moderation queue as pending; coordinates missing from the submission are
// resolved from the address when a geocoder is wired.
func (s *Service) Create(ctx context.Context, params CreateParams) (domain.Venue, error) {
	coordinate := params.Coordinate
	if coordinate != nil && !coordinate.Valid() {
		return domain.Venue{}, apperr.Validation("coordinate out of range")
	}
	if coordinate == nil && s.geocoder != nil && params.Address.Flatten() != "" {
		resolved, err := s.geocoder.Geocode(ctx, params.Address.Flatten())
		if err != nil {
			// Geocoding is best effort; the venue can be located later.
			s.log.Warn("geocoding failed for venue submission", "error", err)
		} else {
			coordinate = resolved
		}
	}

	venue, err := s.repo.Create(ctx, repository.CreateParams{
		ID:           uuid.New(),
		Name:         sanitize.Text(params.Name),
		Category:     sanitize.Text(params.Category),
		Description:  sanitize.Text(params.Description),
		Address:      sanitizeAddress(params.Address),
		Coordinate:   coordinate,
		OpeningHours: sanitize.Text(params.OpeningHours),
		Phone:        sanitize.Text(params.Phone),
		Images:       params.Images,
		Status:       domain.StatusPending,
		OwnerID:      params.OwnerID,
	})
	if err != nil {
		return domain.Venue{}, err
	}

	s.eventBus.Publish(ctx, events.VenueSubmitted{
		BaseEvent: events.NewBaseEvent(),
		VenueID:   venue.ID,
		OwnerID:   venue.OwnerID,
		VenueName: venue.Name,
	})

	return venue, nil
}

// Update applies a partial update. Only the owner or an admin may edit.
func (s *Service) Update(ctx context.Context, actorID uuid.UUID, isAdmin bool, params UpdateParams) (domain.Venue, error) {
	existing, err := s.repo.GetByID(ctx, params.ID)
	if err != nil {
		return domain.Venue{}, err
	}
	if !isAdmin && existing.OwnerID != actorID {
		return domain.Venue{}, apperr.Forbidden("only the venue owner can edit it")
	}
	if params.Coordinate != nil && !params.Coordinate.Valid() {
		return domain.Venue{}, apperr.Validation("coordinate out of range")
	}

	return s.repo.Update(ctx, repository.UpdateParams{
		ID:           params.ID,
		Name:         sanitize.TextPtr(params.Name),
		Category:     sanitize.TextPtr(params.Category),
		Description:  sanitize.TextPtr(params.Description),
		Address:      sanitizeAddressPtr(params.Address),
		Coordinate:   params.Coordinate,
		OpeningHours: sanitize.TextPtr(params.OpeningHours),
		Phone:        sanitize.TextPtr(params.Phone),
		Images:       params.Images,
	})
}

// ListMine retrieves the caller's own submissions, any status.
func (s *Service) ListMine(ctx context.Context, ownerID uuid.UUID) ([]domain.Venue, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// ListPending retrieves the moderation queue.
func (s *Service) ListPending(ctx context.Context) ([]domain.Venue, error) {
	return s.repo.ListPending(ctx)
}

// ListAll retrieves venues for the admin console.
func (s *Service) ListAll(ctx context.Context, params repository.ListParams) ([]domain.Venue, int, error) {
	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 20
	}
	return s.repo.ListWithFilters(ctx, params)
}

// Categories lists the distinct categories of visible venues.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.ListCategories(ctx)
}

// Approve moves a pending venue into the public catalog.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (domain.Venue, error) {
	venue, err := s.transitionPending(ctx, id, domain.StatusApproved)
	if err != nil {
		return domain.Venue{}, err
	}

	s.eventBus.Publish(ctx, events.VenueApproved{
		BaseEvent:  events.NewBaseEvent(),
		VenueID:    venue.ID,
		OwnerID:    venue.OwnerID,
		OwnerEmail: s.ownerEmail(ctx, venue.OwnerID),
		VenueName:  venue.Name,
	})

	return venue, nil
}

// Reject removes a pending venue from the moderation queue.
func (s *Service) Reject(ctx context.Context, id uuid.UUID, reason string) (domain.Venue, error) {
	venue, err := s.transitionPending(ctx, id, domain.StatusRejected)
	if err != nil {
		return domain.Venue{}, err
	}

	s.eventBus.Publish(ctx, events.VenueRejected{
		BaseEvent:  events.NewBaseEvent(),
		VenueID:    venue.ID,
		OwnerID:    venue.OwnerID,
		OwnerEmail: s.ownerEmail(ctx, venue.OwnerID),
		VenueName:  venue.Name,
		Reason:     sanitize.Text(reason),
	})

	return venue, nil
}

// Delete removes a venue entirely. Admin only; enforced at the route level.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ShareQR renders a PNG QR code pointing at the venue's public page.
func (s *Service) ShareQR(ctx context.Context, id uuid.UUID) ([]byte, error) {
	venue, err := s.repo.GetVisibleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/local/%s", s.shareBaseURL, venue.ID)
	png, err := qrcode.Encode(url, qrcode.Medium, qrCodeSize)
	if err != nil {
		return nil, fmt.Errorf("encode share qr: %w", err)
	}

	return png, nil
}

func (s *Service) transitionPending(ctx context.Context, id uuid.UUID, to domain.Status) (domain.Venue, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Venue{}, err
	}
	if existing.Status != domain.StatusPending {
		return domain.Venue{}, apperr.Conflict("venue is not pending moderation")
	}
	return s.repo.SetStatus(ctx, id, to)
}

func (s *Service) ownerEmail(ctx context.Context, ownerID uuid.UUID) string {
	if s.users == nil {
		return ""
	}
	email, err := s.users.GetEmailByID(ctx, ownerID)
	if err != nil {
		s.log.Warn("owner email lookup failed", "owner_id", ownerID, "error", err)
		return ""
	}
	return email
}

// resolveImages swaps stored object keys for presigned URLs, fanning out
// one presign call per image.
func (s *Service) resolveImages(ctx context.Context, venues []domain.Venue) error {
	if s.imageStore == nil {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for i := range venues {
		for j := range venues[i].Images {
			i, j := i, j
			g.Go(func() error {
				url, err := s.imageStore.PresignedGetURL(ctx, venues[i].Images[j], imageURLExpiry)
				if err != nil {
					return fmt.Errorf("presign venue image: %w", err)
				}
				venues[i].Images[j] = url
				return nil
			})
		}
	}

	return g.Wait()
}

func (s *Service) resolveRankedImages(ctx context.Context, ranked []ranking.RankedVenue) error {
	if s.imageStore == nil {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for i := range ranked {
		for j := range ranked[i].Images {
			i, j := i, j
			g.Go(func() error {
				url, err := s.imageStore.PresignedGetURL(ctx, ranked[i].Images[j], imageURLExpiry)
				if err != nil {
					return fmt.Errorf("presign venue image: %w", err)
				}
				ranked[i].Images[j] = url
				return nil
			})
		}
	}

	return g.Wait()
}

func sanitizeAddress(a domain.Address) domain.Address {
	return domain.Address{
		Street: sanitize.Text(a.Street),
		Number: sanitize.Text(a.Number),
		City:   sanitize.Text(a.City),
		State:  sanitize.Text(a.State),
		Full:   sanitize.Text(a.Full),
	}
}

func sanitizeAddressPtr(a *domain.Address) *domain.Address {
	if a == nil {
		return nil
	}
	clean := sanitizeAddress(*a)
	return &clean
}
