package geoposition

import (
	"context"
	"testing"
	"time"

	"portal_da_fe_backend/internal/geo"
	"portal_da_fe_backend/platform/logger"

	"github.com/google/uuid"
)

func testHub() *Hub {
	return NewHub(logger.New("development"))
}

func TestHub_SubscriberReceivesFix(t *testing.T) {
	hub := testHub()
	userID := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := hub.Subscribe(ctx, userID)
	fix := Fix{Coordinate: geo.Coordinate{Latitude: -23.5, Longitude: -46.6}}
	hub.Publish(userID, fix)

	select {
	case update := <-updates:
		if update.Fix == nil {
			t.Fatalf("expected a fix update, got %+v", update)
		}
		if update.Fix.Coordinate != fix.Coordinate {
			t.Fatalf("expected coordinate %+v, got %+v", fix.Coordinate, update.Fix.Coordinate)
		}
		if update.Fix.Timestamp.IsZero() {
			t.Fatalf("expected timestamp to be stamped on publish")
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for fix")
	}
}

func TestHub_FixesAreNotReplayedToNewSubscribers(t *testing.T) {
	hub := testHub()
	userID := uuid.New()

	hub.Publish(userID, Fix{Coordinate: geo.Coordinate{Latitude: 1, Longitude: 1}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates := hub.Subscribe(ctx, userID)

	select {
	case update := <-updates:
		t.Fatalf("expected no replay of historical fixes, got %+v", update)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_CancelReleasesSubscription(t *testing.T) {
	hub := testHub()
	userID := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	updates := hub.Subscribe(ctx, userID)
	cancel()

	deadline := time.After(time.Second)
	for {
		select {
		case _, open := <-updates:
			if !open {
				// Channel closed; a publish afterwards must not panic.
				hub.Publish(userID, Fix{Coordinate: geo.Coordinate{Latitude: 2, Longitude: 2}})
				return
			}
		case <-deadline:
			t.Fatalf("subscription was not released on cancel")
		}
	}
}

func TestHub_ErrorClearsLatestFix(t *testing.T) {
	hub := testHub()
	userID := uuid.New()

	hub.Publish(userID, Fix{Coordinate: geo.Coordinate{Latitude: -23.5, Longitude: -46.6}})
	if _, ok := hub.Latest(userID); !ok {
		t.Fatalf("expected latest fix after publish")
	}

	hub.ReportError(userID, CausePermissionDenied)
	if _, ok := hub.Latest(userID); ok {
		t.Fatalf("expected latest fix to be cleared on error")
	}
}

func TestHub_ErrorReachesSubscribersWithCause(t *testing.T) {
	hub := testHub()
	userID := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates := hub.Subscribe(ctx, userID)

	hub.ReportError(userID, CauseTimeout)

	select {
	case update := <-updates:
		if update.Fix != nil || update.Err != CauseTimeout {
			t.Fatalf("expected timeout error update, got %+v", update)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for error update")
	}
}

func TestHub_SlowSubscriberGetsNewestFix(t *testing.T) {
	hub := testHub()
	userID := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates := hub.Subscribe(ctx, userID)

	// Publish twice without draining; the buffer holds one update and
	// the newer fix must displace the older one.
	hub.Publish(userID, Fix{Coordinate: geo.Coordinate{Latitude: 1, Longitude: 1}})
	hub.Publish(userID, Fix{Coordinate: geo.Coordinate{Latitude: 2, Longitude: 2}})

	select {
	case update := <-updates:
		if update.Fix == nil || update.Fix.Coordinate.Latitude != 2 {
			t.Fatalf("expected newest fix to win, got %+v", update)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for fix")
	}
}

func TestHub_FixesAreScopedPerUser(t *testing.T) {
	hub := testHub()
	alice := uuid.New()
	bob := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bobUpdates := hub.Subscribe(ctx, bob)

	hub.Publish(alice, Fix{Coordinate: geo.Coordinate{Latitude: 3, Longitude: 3}})

	select {
	case update := <-bobUpdates:
		t.Fatalf("expected no cross-user delivery, got %+v", update)
	case <-time.After(50 * time.Millisecond):
	}
}
