// Package ranking implements the nearby-places pipeline: it combines a
// venue snapshot, the observer's coordinate, and filter criteria into a
// sorted, distance-annotated result list. Rank is synchronous, stateless,
// and side-effect free; callers own all state and re-invoke it on every
// input change.
package ranking

import (
	"sort"
	"strings"

	"portal_da_fe_backend/internal/geo"
	"portal_da_fe_backend/internal/venues/domain"
)

// RankedVenue is a venue annotated with its distance from the observer for
// one ranking pass. It is derived, never persisted.
type RankedVenue struct {
	domain.Venue
	DistanceKm float64
}

// Engine ranks venues around an observer. The default radius applies when
// criteria carry no explicit bound; it is a product default surfaced
// through configuration, not a law of the engine. A zero default disables
// the implicit bound.
type Engine struct {
	defaultRadiusKm float64
}

// NewEngine creates an Engine with the given default radius in kilometers.
func NewEngine(defaultRadiusKm float64) Engine {
	if defaultRadiusKm < 0 {
		defaultRadiusKm = 0
	}
	return Engine{defaultRadiusKm: defaultRadiusKm}
}

// DefaultRadiusKm returns the engine's implicit radius bound.
func (e Engine) DefaultRadiusKm() float64 { return e.defaultRadiusKm }

// Rank produces the ordered nearby result list.
//
// A nil observer yields an empty list: the engine never guesses a location,
// though callers may pass an explicit fallback coordinate. Venues that are
// not visible (status other than active/approved) are dropped before any
// distance math. A venue with a missing or invalid coordinate is skipped,
// never fatal. Results are sorted by distance ascending, then rating
// descending (absent rating last), then ID, so output is deterministic
// regardless of repository order. limit <= 0 means unbounded; truncation
// happens after sorting.
//
// Rank never mutates its inputs and returns a freshly allocated slice, so
// calling it twice with identical inputs yields identical output.
func (e Engine) Rank(venues []domain.Venue, observer *geo.Coordinate, criteria Criteria, limit int) []RankedVenue {
	ranked := make([]RankedVenue, 0, len(venues))
	if observer == nil || !observer.Valid() {
		return ranked
	}

	maxDistance, bounded := criteria.MaxDistanceKm()
	if !bounded && e.defaultRadiusKm > 0 {
		maxDistance, bounded = e.defaultRadiusKm, true
	}
	minRating, hasMinRating := criteria.MinRating()

	for _, v := range venues {
		if !v.Status.IsVisible() {
			continue
		}
		if !matchesType(v.Category, criteria.Type()) {
			continue
		}
		if !v.HasValidCoordinate() {
			continue
		}

		distance := geo.DistanceKm(*observer, *v.Coordinate)
		if bounded && distance > maxDistance {
			continue
		}
		if hasMinRating && (v.Rating == nil || *v.Rating < minRating) {
			continue
		}
		if !matchesQuery(v, criteria.Query()) {
			continue
		}

		ranked = append(ranked, RankedVenue{Venue: v, DistanceKm: distance})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.DistanceKm != b.DistanceKm {
			return a.DistanceKm < b.DistanceKm
		}
		if ra, rb := ratingOrAbsent(a.Rating), ratingOrAbsent(b.Rating); ra != rb {
			return ra > rb
		}
		return strings.Compare(a.ID.String(), b.ID.String()) < 0
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}

// matchesType applies the tolerant category policy: case-insensitive
// substring match in either direction. Upstream category values are
// free-form and inconsistently cased, so "templo" matches "Templo Budista"
// and vice versa. A venue without a category never matches an explicit
// filter; the bidirectional Contains would otherwise accept it against
// everything, since every string contains the empty string.
func matchesType(category, filter string) bool {
	if filter == "" {
		return true
	}
	if category == "" {
		return false
	}
	c := strings.ToLower(category)
	f := strings.ToLower(filter)
	return strings.Contains(c, f) || strings.Contains(f, c)
}

func matchesQuery(v domain.Venue, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(v.Name), q) ||
		strings.Contains(strings.ToLower(v.Category), q) ||
		strings.Contains(strings.ToLower(v.Address.Flatten()), q)
}

// ratingOrAbsent maps a missing rating below every real rating so unrated
// venues sort last among distance ties.
func ratingOrAbsent(r *float64) float64 {
	if r == nil {
		return -1
	}
	return *r
}
