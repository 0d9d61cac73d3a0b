package agenda

import (
	"testing"
	"time"

	"portal_da_fe_backend/platform/apperr"

	"github.com/google/uuid"
)

var clock = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func TestValidateWindowAcceptsOrderedFutureWindow(t *testing.T) {
	starts := clock.Add(24 * time.Hour)
	if err := validateWindow(starts, starts.Add(2*time.Hour), clock); err != nil {
		t.Fatalf("expected valid window, got %v", err)
	}
}

func TestValidateWindowRejectsBadWindows(t *testing.T) {
	cases := []struct {
		name             string
		startsAt, endsAt time.Time
	}{
		{"zero start", time.Time{}, clock.Add(time.Hour)},
		{"zero end", clock.Add(time.Hour), time.Time{}},
		{"end before start", clock.Add(2 * time.Hour), clock.Add(time.Hour)},
		{"end equals start", clock.Add(time.Hour), clock.Add(time.Hour)},
		{"already over", clock.Add(-48 * time.Hour), clock.Add(-24 * time.Hour)},
		{"spans more than a week", clock.Add(time.Hour), clock.Add(time.Hour + 8*24*time.Hour)},
	}

	for _, tc := range cases {
		if err := validateWindow(tc.startsAt, tc.endsAt, clock); !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestValidateWindowAcceptsEventAlreadyUnderway(t *testing.T) {
	// An event that started but has not ended is still announceable.
	if err := validateWindow(clock.Add(-time.Hour), clock.Add(time.Hour), clock); err != nil {
		t.Fatalf("expected ongoing event to be accepted, got %v", err)
	}
}

func TestEventResponseHidesStatusOnPublicViews(t *testing.T) {
	event := VenueEvent{
		ID:       uuid.New(),
		VenueID:  uuid.New(),
		Title:    "Missa de Domingo",
		StartsAt: clock,
		EndsAt:   clock.Add(time.Hour),
		Status:   StatusActive,
	}

	public := toEventResponse(event, false)
	if public.Status != "" {
		t.Fatalf("expected no status on public view, got %q", public.Status)
	}

	moderation := toEventResponse(event, true)
	if moderation.Status != string(StatusActive) {
		t.Fatalf("status = %q, want %q", moderation.Status, StatusActive)
	}
	if moderation.ID != event.ID.String() || moderation.VenueID != event.VenueID.String() {
		t.Fatalf("identifier mapping mismatch: %+v", moderation)
	}
}
