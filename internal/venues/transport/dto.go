// Package transport defines the HTTP request and response shapes for the
// venues module. Requests accept both the current shape and the legacy
// single-image / free-form-location shape still emitted by older clients;
// normalization into the canonical form happens here.
package transport

import (
	"strings"
	"time"

	"portal_da_fe_backend/internal/geo"
	"portal_da_fe_backend/internal/venues/domain"
	"portal_da_fe_backend/internal/venues/ranking"
)

// CoordinateDTO is a latitude/longitude pair in decimal degrees.
type CoordinateDTO struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// AddressDTO is the structured address shape.
type AddressDTO struct {
	Street string `json:"street" validate:"max=200"`
	Number string `json:"number" validate:"max=20"`
	City   string `json:"city" validate:"max=100"`
	State  string `json:"state" validate:"max=50"`
	Full   string `json:"full" validate:"max=400"`
}

// CreateVenueRequest is a venue submission. Image and Location are legacy
// aliases for Images and Address.Full respectively.
type CreateVenueRequest struct {
	Name         string         `json:"name" binding:"required" validate:"min=2,max=200"`
	Category     string         `json:"category" binding:"required" validate:"min=2,max=100"`
	Description  string         `json:"description" validate:"max=2000"`
	Address      *AddressDTO    `json:"address"`
	Location     string         `json:"location"`
	Coordinate   *CoordinateDTO `json:"coordinate"`
	OpeningHours string         `json:"openingHours" validate:"max=200"`
	Phone        string         `json:"phone" validate:"max=30"`
	Images       []string       `json:"images" validate:"max=10,dive,max=500"`
	Image        string         `json:"image"`
}

// UpdateVenueRequest is a partial venue update.
type UpdateVenueRequest struct {
	Name         *string        `json:"name" validate:"omitempty,min=2,max=200"`
	Category     *string        `json:"category" validate:"omitempty,min=2,max=100"`
	Description  *string        `json:"description" validate:"omitempty,max=2000"`
	Address      *AddressDTO    `json:"address"`
	Coordinate   *CoordinateDTO `json:"coordinate"`
	OpeningHours *string        `json:"openingHours" validate:"omitempty,max=200"`
	Phone        *string        `json:"phone" validate:"omitempty,max=30"`
	Images       []string       `json:"images" validate:"omitempty,max=10,dive,max=500"`
}

// NearbyQuery carries the nearby search parameters as query string values.
// Latitude and longitude override the caller's last reported position.
type NearbyQuery struct {
	Latitude  *float64 `form:"lat" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `form:"lng" validate:"omitempty,gte=-180,lte=180"`
	Type      string   `form:"type" validate:"max=100"`
	RadiusKm  *float64 `form:"radiusKm" validate:"omitempty,gt=0"`
	MinRating *float64 `form:"minRating" validate:"omitempty,gte=0,lte=5"`
	Query     string   `form:"q" validate:"max=200"`
	Limit     int      `form:"limit" validate:"gte=0,lte=100"`
}

// RejectVenueRequest carries the moderation rejection reason.
type RejectVenueRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// VenueResponse is the public venue shape.
type VenueResponse struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Category     string         `json:"category"`
	Description  string         `json:"description,omitempty"`
	Address      AddressDTO     `json:"address"`
	Coordinate   *CoordinateDTO `json:"coordinate,omitempty"`
	OpeningHours string         `json:"openingHours,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	Images       []string       `json:"images"`
	Rating       *float64       `json:"rating,omitempty"`
	Status       string         `json:"status"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// RankedVenueResponse is a venue annotated with its distance from the
// observer, in kilometers.
type RankedVenueResponse struct {
	VenueResponse
	DistanceKm float64 `json:"distanceKm"`
}

// NearbyResponse wraps a ranked result set with the observer that produced it.
type NearbyResponse struct {
	Observer *CoordinateDTO        `json:"observer,omitempty"`
	Venues   []RankedVenueResponse `json:"venues"`
}

// VenueListResponse is a paginated admin listing.
type VenueListResponse struct {
	Venues []VenueResponse `json:"venues"`
	Total  int             `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

// NormalizedImages folds the legacy single-image field into the image list.
func (r CreateVenueRequest) NormalizedImages() []string {
	images := make([]string, 0, len(r.Images)+1)
	for _, img := range r.Images {
		if strings.TrimSpace(img) != "" {
			images = append(images, img)
		}
	}
	if img := strings.TrimSpace(r.Image); img != "" {
		images = append(images, img)
	}
	return images
}

// NormalizedAddress builds the structured address, falling back to the
// legacy free-form location string when no structured address was sent.
func (r CreateVenueRequest) NormalizedAddress() domain.Address {
	if r.Address != nil {
		addr := domain.Address{
			Street: strings.TrimSpace(r.Address.Street),
			Number: strings.TrimSpace(r.Address.Number),
			City:   strings.TrimSpace(r.Address.City),
			State:  strings.TrimSpace(r.Address.State),
			Full:   strings.TrimSpace(r.Address.Full),
		}
		if addr.Full == "" {
			addr.Full = addr.Flatten()
		}
		return addr
	}
	return domain.Address{Full: strings.TrimSpace(r.Location)}
}

// ToCoordinate converts the optional DTO pair into a domain coordinate.
func (c *CoordinateDTO) ToCoordinate() *geo.Coordinate {
	if c == nil {
		return nil
	}
	return &geo.Coordinate{Latitude: c.Latitude, Longitude: c.Longitude}
}

// FromVenue maps a domain venue to its response shape.
func FromVenue(v domain.Venue) VenueResponse {
	resp := VenueResponse{
		ID:          v.ID.String(),
		Name:        v.Name,
		Category:    v.Category,
		Description: v.Description,
		Address: AddressDTO{
			Street: v.Address.Street,
			Number: v.Address.Number,
			City:   v.Address.City,
			State:  v.Address.State,
			Full:   v.Address.Full,
		},
		OpeningHours: v.OpeningHours,
		Phone:        v.Phone,
		Images:       v.Images,
		Rating:       v.Rating,
		Status:       string(v.Status),
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	if v.Coordinate != nil {
		resp.Coordinate = &CoordinateDTO{
			Latitude:  v.Coordinate.Latitude,
			Longitude: v.Coordinate.Longitude,
		}
	}
	return resp
}

// FromVenues maps a venue slice to response shapes.
func FromVenues(venues []domain.Venue) []VenueResponse {
	out := make([]VenueResponse, 0, len(venues))
	for _, v := range venues {
		out = append(out, FromVenue(v))
	}
	return out
}

// FromRanked maps ranked venues to response shapes.
func FromRanked(ranked []ranking.RankedVenue) []RankedVenueResponse {
	out := make([]RankedVenueResponse, 0, len(ranked))
	for _, rv := range ranked {
		out = append(out, RankedVenueResponse{
			VenueResponse: FromVenue(rv.Venue),
			DistanceKm:    rv.DistanceKm,
		})
	}
	return out
}
