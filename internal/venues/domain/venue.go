// Package domain holds the canonical venue model shared by the venues
// module and the ranking engine. The repository boundary normalizes every
// record into this shape, so downstream code never sees the historical
// image/images or location/address field drift.
package domain

import (
	"strings"
	"time"

	"portal_da_fe_backend/internal/geo"

	"github.com/google/uuid"
)

// Status is the venue lifecycle state.
type Status string

const (
	// StatusActive venues are publicly visible.
	StatusActive Status = "active"
	// StatusApproved is a legacy alias for active still present in older
	// records. It is treated as visible everywhere.
	StatusApproved Status = "approved"
	// StatusPending venues await admin moderation.
	StatusPending Status = "pending"
	// StatusRejected venues were declined by a moderator.
	StatusRejected Status = "rejected"
)

// IsVisible reports whether the venue may appear in public listings and
// nearby ranking.
func (s Status) IsVisible() bool {
	return s == StatusActive || s == StatusApproved
}

// Venue category tags. Upstream data is free-form, so these are the
// canonical values rather than a closed enum enforced at read time.
const (
	CategoryChurch          = "igreja"
	CategoryTemple          = "templo"
	CategorySpiritualCenter = "centro espiritual"
	CategoryOther           = "outro"
)

// Address is a postal address, either flat or structured. Structured parts
// are optional; Flatten always produces a single display string.
type Address struct {
	Street string `json:"street,omitempty"`
	Number string `json:"number,omitempty"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
	Full   string `json:"full,omitempty"`
}

// Flatten returns the address as one string: the flat form when present,
// otherwise the structured parts joined in display order.
func (a Address) Flatten() string {
	if a.Full != "" {
		return a.Full
	}

	parts := make([]string, 0, 4)
	street := a.Street
	if street != "" && a.Number != "" {
		street = street + ", " + a.Number
	}
	if street != "" {
		parts = append(parts, street)
	}
	if a.City != "" {
		parts = append(parts, a.City)
	}
	if a.State != "" {
		parts = append(parts, a.State)
	}
	return strings.Join(parts, " - ")
}

// Venue is a discoverable religious/spiritual place record.
type Venue struct {
	ID           uuid.UUID
	Name         string
	Category     string
	Description  string
	Address      Address
	Coordinate   *geo.Coordinate // nil when the record has no usable position
	OpeningHours string
	Phone        string
	Images       []string // ordered storage keys, may be empty
	Rating       *float64 // [0,5], nil when the venue has no reviews yet
	Status       Status
	OwnerID      uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasValidCoordinate reports whether the venue carries a coordinate inside
// the WGS84 domain. Records failing this check are skipped by the ranking
// engine instead of aborting the whole pass.
func (v Venue) HasValidCoordinate() bool {
	return v.Coordinate != nil && v.Coordinate.Valid()
}
