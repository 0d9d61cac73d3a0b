package notification

import (
	"context"
	"testing"

	"portal_da_fe_backend/internal/events"
	"portal_da_fe_backend/platform/logger"

	"github.com/google/uuid"
)

type testAppConfig struct{}

func (testAppConfig) GetAppBaseURL() string { return "https://portal.example.com/" }

type testSender struct {
	welcomeCalls       int
	venueApprovedCalls int
	reminderCalls      int
	lastVenueURL       string
}

func (s *testSender) SendWelcomeEmail(context.Context, string, string) error {
	s.welcomeCalls++
	return nil
}
func (s *testSender) SendVenueApprovedEmail(_ context.Context, _, _, venueURL string) error {
	s.venueApprovedCalls++
	s.lastVenueURL = venueURL
	return nil
}
func (s *testSender) SendVenueRejectedEmail(context.Context, string, string, string) error {
	return nil
}
func (s *testSender) SendCommentModeratedEmail(context.Context, string, string, bool, string) error {
	return nil
}
func (s *testSender) SendAppointmentBookedEmail(context.Context, string, string, string) error {
	return nil
}
func (s *testSender) SendAppointmentCancelledEmail(context.Context, string, string) error {
	return nil
}
func (s *testSender) SendAppointmentReminderEmail(context.Context, string, string, string) error {
	s.reminderCalls++
	return nil
}
func (s *testSender) SendCustomEmail(context.Context, string, string, string) error { return nil }

type testStore struct {
	inserted []Notification
	prefs    map[uuid.UUID]Preferences
}

func newTestStore() *testStore {
	return &testStore{prefs: make(map[uuid.UUID]Preferences)}
}

func (s *testStore) Insert(_ context.Context, n Notification) (Notification, error) {
	n.ID = uuid.New()
	s.inserted = append(s.inserted, n)
	return n, nil
}

func (s *testStore) ListByUser(context.Context, uuid.UUID, bool, int) ([]Notification, error) {
	return s.inserted, nil
}
func (s *testStore) CountUnread(context.Context, uuid.UUID) (int, error) { return 0, nil }
func (s *testStore) MarkRead(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}
func (s *testStore) MarkAllRead(context.Context, uuid.UUID) error { return nil }

func (s *testStore) GetPreferences(_ context.Context, userID uuid.UUID) (Preferences, error) {
	if prefs, ok := s.prefs[userID]; ok {
		return prefs, nil
	}
	return defaultPreferences(), nil
}

func (s *testStore) SavePreferences(_ context.Context, userID uuid.UUID, prefs Preferences) error {
	s.prefs[userID] = prefs
	return nil
}

func newTestModule() (*Module, *testSender, *testStore) {
	sender := &testSender{}
	store := newTestStore()
	return New(sender, store, testAppConfig{}, logger.New("development")), sender, store
}

func TestHandleVenueApprovedBuildsVenueURL(t *testing.T) {
	m, sender, _ := newTestModule()

	venueID := uuid.New()
	err := m.Handle(context.Background(), events.VenueApproved{
		VenueID:    venueID,
		OwnerID:    uuid.New(),
		OwnerEmail: "dono@example.com",
		VenueName:  "Igreja Matriz",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if sender.venueApprovedCalls != 1 {
		t.Fatalf("venueApprovedCalls = %d, want 1", sender.venueApprovedCalls)
	}
	want := "https://portal.example.com/local/" + venueID.String()
	if sender.lastVenueURL != want {
		t.Fatalf("venue URL = %q, want %q", sender.lastVenueURL, want)
	}
}

func TestHandleVenueApprovedSkipsEmailWithoutAddress(t *testing.T) {
	m, sender, store := newTestModule()
	ownerID := uuid.New()

	err := m.Handle(context.Background(), events.VenueApproved{VenueID: uuid.New(), OwnerID: ownerID})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if sender.venueApprovedCalls != 0 {
		t.Fatalf("expected no email for event without owner email")
	}
	// The in-app entry is independent of the email address.
	if len(store.inserted) != 1 || store.inserted[0].UserID != ownerID {
		t.Fatalf("expected one feed entry for the owner, got %+v", store.inserted)
	}
}

func TestHandleVenueApprovedRecordsFeedEntry(t *testing.T) {
	m, _, store := newTestModule()
	ownerID := uuid.New()
	venueID := uuid.New()

	err := m.Handle(context.Background(), events.VenueApproved{
		VenueID:    venueID,
		OwnerID:    ownerID,
		OwnerEmail: "dono@example.com",
		VenueName:  "Igreja Matriz",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if len(store.inserted) != 1 {
		t.Fatalf("feed entries = %d, want 1", len(store.inserted))
	}
	entry := store.inserted[0]
	if entry.UserID != ownerID || entry.Kind != kindVenueApproved {
		t.Fatalf("unexpected feed entry: %+v", entry)
	}
	if entry.VenueID == nil || *entry.VenueID != venueID {
		t.Fatalf("expected feed entry linked to venue %s, got %+v", venueID, entry.VenueID)
	}
}

func TestDisabledEmailChannelStillFeedsInApp(t *testing.T) {
	m, sender, store := newTestModule()
	ownerID := uuid.New()
	store.prefs[ownerID] = Preferences{EmailEnabled: false, InAppEnabled: true}

	err := m.Handle(context.Background(), events.VenueApproved{
		VenueID:    uuid.New(),
		OwnerID:    ownerID,
		OwnerEmail: "dono@example.com",
		VenueName:  "Igreja Matriz",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if sender.venueApprovedCalls != 0 {
		t.Fatalf("expected email suppressed by preferences")
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected in-app entry despite disabled email, got %d", len(store.inserted))
	}
}

func TestDisabledInAppChannelStillSendsEmail(t *testing.T) {
	m, sender, store := newTestModule()
	ownerID := uuid.New()
	store.prefs[ownerID] = Preferences{EmailEnabled: true, InAppEnabled: false}

	err := m.Handle(context.Background(), events.VenueApproved{
		VenueID:    uuid.New(),
		OwnerID:    ownerID,
		OwnerEmail: "dono@example.com",
		VenueName:  "Igreja Matriz",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if sender.venueApprovedCalls != 1 {
		t.Fatalf("venueApprovedCalls = %d, want 1", sender.venueApprovedCalls)
	}
	if len(store.inserted) != 0 {
		t.Fatalf("expected no feed entry with in-app disabled, got %d", len(store.inserted))
	}
}

func TestHandleReminderDue(t *testing.T) {
	m, sender, store := newTestModule()
	userID := uuid.New()

	err := m.Handle(context.Background(), events.AppointmentReminderDue{
		AppointmentID: uuid.New(),
		UserID:        userID,
		UserEmail:     "fiel@example.com",
		VenueName:     "Santuário Nacional",
		When:          "2026-09-07T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if sender.reminderCalls != 1 {
		t.Fatalf("reminderCalls = %d, want 1", sender.reminderCalls)
	}
	if len(store.inserted) != 1 || store.inserted[0].Kind != kindAppointmentReminder {
		t.Fatalf("expected one reminder feed entry, got %+v", store.inserted)
	}
}

func TestHandleVenueEventModeratedIsFeedOnly(t *testing.T) {
	m, sender, store := newTestModule()
	creatorID := uuid.New()

	err := m.Handle(context.Background(), events.VenueEventModerated{
		EventID:   uuid.New(),
		VenueID:   uuid.New(),
		CreatorID: creatorID,
		Title:     "Missa de Domingo",
		Approved:  true,
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("feed entries = %d, want 1", len(store.inserted))
	}
	entry := store.inserted[0]
	if entry.UserID != creatorID || entry.Kind != kindVenueEventModerated {
		t.Fatalf("unexpected feed entry: %+v", entry)
	}
	if sender.welcomeCalls+sender.venueApprovedCalls+sender.reminderCalls != 0 {
		t.Fatalf("agenda moderation must not send email")
	}
}
