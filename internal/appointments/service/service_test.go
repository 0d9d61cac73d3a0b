package service

import (
	"testing"
	"time"

	"portal_da_fe_backend/internal/appointments/repository"

	"github.com/google/uuid"
)

func day(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
}

func TestSlotsFromWindowsExpandsWholeSlots(t *testing.T) {
	dayStart := day(t)
	windows := []repository.VisitWindow{
		{VenueID: uuid.New(), Weekday: dayStart.Weekday(), OpensAt: 9 * 60, ClosesAt: 11 * 60, SlotMinutes: 30},
	}

	slots := slotsFromWindows(windows, nil, dayStart, dayStart)
	if len(slots) != 4 {
		t.Fatalf("expected 4 slots, got %d: %v", len(slots), slots)
	}
	if !slots[0].Equal(dayStart.Add(9 * time.Hour)) {
		t.Fatalf("first slot should open at 09:00, got %v", slots[0])
	}
	if !slots[3].Equal(dayStart.Add(10*time.Hour + 30*time.Minute)) {
		t.Fatalf("last slot should start at 10:30, got %v", slots[3])
	}
}

func TestSlotsFromWindowsDropsTrailingPartialSlot(t *testing.T) {
	dayStart := day(t)
	windows := []repository.VisitWindow{
		{OpensAt: 9 * 60, ClosesAt: 9*60 + 50, SlotMinutes: 30},
	}

	slots := slotsFromWindows(windows, nil, dayStart, dayStart)
	if len(slots) != 1 {
		t.Fatalf("expected 1 whole slot, got %d", len(slots))
	}
}

func TestSlotsFromWindowsSkipsBookedAndPast(t *testing.T) {
	dayStart := day(t)
	windows := []repository.VisitWindow{
		{OpensAt: 9 * 60, ClosesAt: 12 * 60, SlotMinutes: 60},
	}
	booked := []time.Time{dayStart.Add(10 * time.Hour)}
	now := dayStart.Add(9*time.Hour + 15*time.Minute)

	slots := slotsFromWindows(windows, booked, dayStart, now)
	if len(slots) != 1 {
		t.Fatalf("expected only the 11:00 slot, got %v", slots)
	}
	if !slots[0].Equal(dayStart.Add(11 * time.Hour)) {
		t.Fatalf("expected 11:00, got %v", slots[0])
	}
}

func TestSlotsFromWindowsMergesMultipleWindowsSorted(t *testing.T) {
	dayStart := day(t)
	windows := []repository.VisitWindow{
		{OpensAt: 14 * 60, ClosesAt: 15 * 60, SlotMinutes: 60},
		{OpensAt: 9 * 60, ClosesAt: 10 * 60, SlotMinutes: 60},
	}

	slots := slotsFromWindows(windows, nil, dayStart, dayStart)
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if !slots[0].Before(slots[1]) {
		t.Fatalf("slots must be sorted ascending: %v", slots)
	}
}

func TestSlotsFromWindowsDefaultsZeroSlotLength(t *testing.T) {
	dayStart := day(t)
	windows := []repository.VisitWindow{
		{OpensAt: 9 * 60, ClosesAt: 11 * 60, SlotMinutes: 0},
	}

	slots := slotsFromWindows(windows, nil, dayStart, dayStart)
	if len(slots) != 2 {
		t.Fatalf("expected hourly fallback to yield 2 slots, got %d", len(slots))
	}
}
