package geo

import (
	"math"
	"testing"
)

func TestDistanceKm_SamePointIsZero(t *testing.T) {
	points := []Coordinate{
		{Latitude: 0, Longitude: 0},
		{Latitude: -23.5505, Longitude: -46.6333},
		{Latitude: 90, Longitude: 0},
		{Latitude: -90, Longitude: 180},
	}

	for _, p := range points {
		if d := DistanceKm(p, p); d != 0 {
			t.Fatalf("expected zero distance for %+v to itself, got %f", p, d)
		}
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	a := Coordinate{Latitude: -23.5505, Longitude: -46.6333}
	b := Coordinate{Latitude: -22.9068, Longitude: -43.1729}

	ab := DistanceKm(a, b)
	ba := DistanceKm(b, a)

	if ab != ba {
		t.Fatalf("expected symmetric distance, got %f and %f", ab, ba)
	}
	if ab <= 0 {
		t.Fatalf("expected positive distance between distinct points, got %f", ab)
	}
}

func TestDistanceKm_OneDegreeLatitude(t *testing.T) {
	// São Paulo and a point 1 degree of latitude north: ~111 km.
	a := Coordinate{Latitude: -23.5505, Longitude: -46.6333}
	b := Coordinate{Latitude: -22.5505, Longitude: -46.6333}

	d := DistanceKm(a, b)
	if math.Abs(d-111.0) > 1.0 {
		t.Fatalf("expected ~111 km for 1 degree of latitude, got %f", d)
	}
}

func TestDistanceKm_Poles(t *testing.T) {
	north := Coordinate{Latitude: 90, Longitude: 0}
	south := Coordinate{Latitude: -90, Longitude: 0}

	d := DistanceKm(north, south)
	// Half the Earth's circumference on the 6371 km sphere.
	expected := math.Pi * 6371.0
	if math.Abs(d-expected) > 1.0 {
		t.Fatalf("expected pole-to-pole distance ~%f km, got %f", expected, d)
	}

	// Longitude is degenerate at the poles: every longitude is the same point.
	alsoNorth := Coordinate{Latitude: 90, Longitude: 137.5}
	if d := DistanceKm(north, alsoNorth); d > 0.001 {
		t.Fatalf("expected ~0 km between two north pole coordinates, got %f", d)
	}
}

func TestDistanceKm_Antimeridian(t *testing.T) {
	// Two points straddling longitude ±180 at the equator, 1 degree apart.
	a := Coordinate{Latitude: 0, Longitude: 179.5}
	b := Coordinate{Latitude: 0, Longitude: -179.5}

	d := DistanceKm(a, b)
	// Haversine works on spherical trig, not linear longitude subtraction,
	// so the short way across the dateline (~111 km) is what comes out.
	if math.Abs(d-111.0) > 1.5 {
		t.Fatalf("expected ~111 km across the antimeridian, got %f", d)
	}
}

func TestDistanceKm_NaNPropagates(t *testing.T) {
	a := Coordinate{Latitude: math.NaN(), Longitude: 0}
	b := Coordinate{Latitude: 0, Longitude: 0}

	if d := DistanceKm(a, b); !math.IsNaN(d) {
		t.Fatalf("expected NaN to propagate, got %f", d)
	}
}

func TestCoordinate_Valid(t *testing.T) {
	valid := []Coordinate{
		{Latitude: 0, Longitude: 0},
		{Latitude: 90, Longitude: 180},
		{Latitude: -90, Longitude: -180},
		{Latitude: -23.5505, Longitude: -46.6333},
	}
	for _, c := range valid {
		if !c.Valid() {
			t.Fatalf("expected %+v to be valid", c)
		}
	}

	invalid := []Coordinate{
		{Latitude: 90.0001, Longitude: 0},
		{Latitude: 0, Longitude: 180.0001},
		{Latitude: math.NaN(), Longitude: 0},
		{Latitude: 0, Longitude: math.Inf(1)},
	}
	for _, c := range invalid {
		if c.Valid() {
			t.Fatalf("expected %+v to be invalid", c)
		}
	}
}
