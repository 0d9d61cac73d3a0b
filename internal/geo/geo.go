// Package geo provides coordinate types and great-circle distance math for
// the nearby ranking pipeline. Everything in this package is pure: no I/O,
// no allocation beyond return values, no global state.
package geo

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Coordinate is an immutable latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate lies within the WGS84 domain:
// latitude in [-90, 90] and longitude in [-180, 180]. NaN and infinities
// are rejected, which is how malformed venue records are screened out
// before any distance math runs.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return false
	}
	if math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// DistanceKm computes the haversine great-circle distance between two
// coordinates in kilometers. The function is symmetric, returns exactly 0
// for identical coordinates, and never fails for valid inputs. Spherical
// trig handles the antimeridian; no special dateline casing is needed.
// NaN or infinite inputs propagate NaN rather than producing a
// wrong-but-finite result.
func DistanceKm(a, b Coordinate) float64 {
	if a == b {
		return 0
	}

	lat1 := degreesToRadians(a.Latitude)
	lat2 := degreesToRadians(b.Latitude)
	deltaLat := degreesToRadians(b.Latitude - a.Latitude)
	deltaLon := degreesToRadians(b.Longitude - a.Longitude)

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
