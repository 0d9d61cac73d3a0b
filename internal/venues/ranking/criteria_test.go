package ranking

import (
	"testing"

	"portal_da_fe_backend/platform/apperr"
)

func TestNewCriteria_ValidBounds(t *testing.T) {
	radius := 5.0
	rating := 4.0

	c, err := NewCriteria("  templo ", &radius, &rating, " luz ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Type() != "templo" {
		t.Fatalf("expected trimmed type, got %q", c.Type())
	}
	if got, ok := c.MaxDistanceKm(); !ok || got != 5.0 {
		t.Fatalf("expected max distance 5, got %f (set=%v)", got, ok)
	}
	if got, ok := c.MinRating(); !ok || got != 4.0 {
		t.Fatalf("expected min rating 4, got %f (set=%v)", got, ok)
	}
	if c.Query() != "luz" {
		t.Fatalf("expected trimmed query, got %q", c.Query())
	}
}

func TestNewCriteria_UnsetBounds(t *testing.T) {
	c, err := NewCriteria("", nil, nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.MaxDistanceKm(); ok {
		t.Fatalf("expected no distance bound")
	}
	if _, ok := c.MinRating(); ok {
		t.Fatalf("expected no rating bound")
	}
}

func TestNewCriteria_RejectsNonPositiveRadius(t *testing.T) {
	zero := 0.0
	if _, err := NewCriteria("", &zero, nil, ""); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for zero radius, got %v", err)
	}

	negative := -3.0
	if _, err := NewCriteria("", &negative, nil, ""); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for negative radius, got %v", err)
	}
}

func TestNewCriteria_RejectsOutOfRangeRating(t *testing.T) {
	high := 5.1
	if _, err := NewCriteria("", nil, &high, ""); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for rating above 5, got %v", err)
	}

	low := -0.1
	if _, err := NewCriteria("", nil, &low, ""); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for negative rating, got %v", err)
	}
}
