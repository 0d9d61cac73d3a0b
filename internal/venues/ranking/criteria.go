package ranking

import (
	"strings"

	"portal_da_fe_backend/platform/apperr"
)

// Criteria is an immutable description of the user's desired view. A new
// Criteria replaces the old one on every filter change; fields are never
// mutated in place. Construction validates bounds so Rank can assume
// well-formed criteria.
type Criteria struct {
	venueType      string
	maxDistanceKm  float64
	hasMaxDistance bool
	minRating      float64
	hasMinRating   bool
	query          string
}

// NewCriteria validates and builds a Criteria. A nil maxDistanceKm or
// minRating means "no constraint". Violations return apperr.Validation.
func NewCriteria(venueType string, maxDistanceKm, minRating *float64, query string) (Criteria, error) {
	c := Criteria{
		venueType: strings.TrimSpace(venueType),
		query:     strings.TrimSpace(query),
	}

	if maxDistanceKm != nil {
		if *maxDistanceKm <= 0 {
			return Criteria{}, apperr.Validation("max distance must be positive")
		}
		c.maxDistanceKm = *maxDistanceKm
		c.hasMaxDistance = true
	}

	if minRating != nil {
		if *minRating < 0 || *minRating > 5 {
			return Criteria{}, apperr.Validation("minimum rating must be between 0 and 5")
		}
		c.minRating = *minRating
		c.hasMinRating = true
	}

	return c, nil
}

// Type returns the category filter, empty when unset.
func (c Criteria) Type() string { return c.venueType }

// MaxDistanceKm returns the radius bound and whether one was set.
func (c Criteria) MaxDistanceKm() (float64, bool) { return c.maxDistanceKm, c.hasMaxDistance }

// MinRating returns the rating floor and whether one was set.
func (c Criteria) MinRating() (float64, bool) { return c.minRating, c.hasMinRating }

// Query returns the free-text filter, empty when unset.
func (c Criteria) Query() string { return c.query }
