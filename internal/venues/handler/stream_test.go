package handler

import (
	"testing"
	"time"

	"portal_da_fe_backend/internal/geo"
	"portal_da_fe_backend/internal/geoposition"
	"portal_da_fe_backend/internal/venues/domain"
	"portal_da_fe_backend/internal/venues/ranking"

	"github.com/google/uuid"
)

var streamOrigin = geo.Coordinate{Latitude: -23.5505, Longitude: -46.6333}

func fixUpdate(coord geo.Coordinate) geoposition.Update {
	return geoposition.Update{Fix: &geoposition.Fix{Coordinate: coord, Timestamp: time.Now()}}
}

func TestObserverAfterFixTracksCoordinate(t *testing.T) {
	observer := observerAfter(fixUpdate(streamOrigin))
	if observer == nil {
		t.Fatal("expected observer after a fix update")
	}
	if observer.Latitude != streamOrigin.Latitude || observer.Longitude != streamOrigin.Longitude {
		t.Fatalf("observer = %+v, want %+v", *observer, streamOrigin)
	}
}

func TestObserverAfterErrorInvalidatesPosition(t *testing.T) {
	if got := observerAfter(geoposition.Update{Err: geoposition.CauseTimeout}); got != nil {
		t.Fatalf("expected nil observer after error update, got %+v", *got)
	}
	if got := observerAfter(geoposition.Update{}); got != nil {
		t.Fatalf("expected nil observer for update without fix, got %+v", *got)
	}
}

// A location error mid-stream must drop the previous fix: until the client
// reports again, re-ranking the snapshot yields nothing instead of results
// anchored to the stale coordinate.
func TestStreamErrorThenRefreshRanksNothing(t *testing.T) {
	coord := geo.Coordinate{Latitude: streamOrigin.Latitude + 0.01, Longitude: streamOrigin.Longitude}
	snapshot := []domain.Venue{{
		ID:         uuid.New(),
		Name:       "Igreja Matriz",
		Category:   domain.CategoryChurch,
		Status:     domain.StatusActive,
		Coordinate: &coord,
	}}
	engine := ranking.NewEngine(10)

	observer := observerAfter(fixUpdate(streamOrigin))
	if got := engine.Rank(snapshot, observer, ranking.Criteria{}, 0); len(got) != 1 {
		t.Fatalf("expected 1 ranked venue with an observer, got %d", len(got))
	}

	observer = observerAfter(geoposition.Update{Err: geoposition.CausePermissionDenied})
	if got := engine.Rank(snapshot, observer, ranking.Criteria{}, 0); len(got) != 0 {
		t.Fatalf("expected empty ranking after location error, got %d venues", len(got))
	}
}
