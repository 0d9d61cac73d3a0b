// Package notification turns domain events into user-facing messages over
// two channels: email and the persisted in-app feed. The module subscribes
// to the event bus and inverts the dependency: domain modules never need to
// know about email providers, templates, or feed storage. Per-user
// preferences gate each channel; lookup failures fail open so a preferences
// hiccup never silences deliveries.
package notification

import (
	"context"
	"fmt"
	"strings"

	"portal_da_fe_backend/internal/email"
	"portal_da_fe_backend/internal/events"
	apphttp "portal_da_fe_backend/internal/http"
	"portal_da_fe_backend/platform/config"
	"portal_da_fe_backend/platform/logger"

	"github.com/google/uuid"
)

// Feed entry kinds, part of the API contract with the frontend.
const (
	kindWelcome             = "welcome"
	kindVenueApproved       = "venue_approved"
	kindVenueRejected       = "venue_rejected"
	kindCommentModerated    = "comment_moderated"
	kindAppointmentBooked   = "appointment_booked"
	kindAppointmentCanceled = "appointment_cancelled"
	kindAppointmentReminder = "appointment_reminder"
	kindVenueEventModerated = "venue_event_moderated"
)

// VenueNameReader resolves a venue name for notification copy.
type VenueNameReader interface {
	VisibleName(ctx context.Context, venueID uuid.UUID) (string, error)
}

// Module handles all notification-related event subscriptions and serves
// the notification center routes.
type Module struct {
	sender     email.Sender
	store      Store
	cfg        config.AppConfig
	log        *logger.Logger
	handler    *FeedHandler
	venueNames VenueNameReader
}

// New creates a new notification module.
func New(sender email.Sender, store Store, cfg config.AppConfig, log *logger.Logger) *Module {
	m := &Module{sender: sender, store: store, cfg: cfg, log: log}
	if store != nil {
		m.handler = NewFeedHandler(store)
	}
	return m
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notifications" }

// SetVenueNameReader injects a reader used to resolve venue names for
// comment moderation copy.
func (m *Module) SetVenueNameReader(reader VenueNameReader) { m.venueNames = reader }

// RegisterRoutes mounts the notification center routes. All require auth.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	if m.handler == nil {
		return
	}

	group := ctx.Protected.Group("/notifications")
	{
		group.GET("", m.handler.List)
		group.POST("/:id/read", m.handler.MarkRead)
		group.POST("/read-all", m.handler.MarkAllRead)
		group.GET("/preferences", m.handler.GetPreferences)
		group.PUT("/preferences", m.handler.UpdatePreferences)
	}
}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.UserSignedUp{}.EventName(), m)
	bus.Subscribe(events.VenueApproved{}.EventName(), m)
	bus.Subscribe(events.VenueRejected{}.EventName(), m)
	bus.Subscribe(events.CommentModerated{}.EventName(), m)
	bus.Subscribe(events.VenueEventModerated{}.EventName(), m)
	bus.Subscribe(events.AppointmentBooked{}.EventName(), m)
	bus.Subscribe(events.AppointmentCancelled{}.EventName(), m)
	bus.Subscribe(events.AppointmentReminderDue{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.UserSignedUp:
		return m.handleUserSignedUp(ctx, e)
	case events.VenueApproved:
		return m.handleVenueApproved(ctx, e)
	case events.VenueRejected:
		return m.handleVenueRejected(ctx, e)
	case events.CommentModerated:
		return m.handleCommentModerated(ctx, e)
	case events.VenueEventModerated:
		return m.handleVenueEventModerated(ctx, e)
	case events.AppointmentBooked:
		return m.handleAppointmentBooked(ctx, e)
	case events.AppointmentCancelled:
		return m.handleAppointmentCancelled(ctx, e)
	case events.AppointmentReminderDue:
		return m.handleAppointmentReminderDue(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleUserSignedUp(ctx context.Context, e events.UserSignedUp) error {
	prefs := m.preferencesFor(ctx, e.UserID)
	m.feed(ctx, prefs, Notification{
		UserID: e.UserID,
		Kind:   kindWelcome,
		Title:  "Bem-vindo ao Portal da Fé",
		Body:   fmt.Sprintf("Olá, %s! Sua conta foi criada.", e.Name),
	})

	if e.Email == "" || !prefs.EmailEnabled {
		return nil
	}
	if err := m.sender.SendWelcomeEmail(ctx, e.Email, e.Name); err != nil {
		m.log.Error("failed to send welcome email", "userId", e.UserID, "email", e.Email, "error", err)
		return err
	}
	m.log.Info("welcome email sent", "userId", e.UserID, "email", e.Email)
	return nil
}

func (m *Module) handleVenueApproved(ctx context.Context, e events.VenueApproved) error {
	prefs := m.preferencesFor(ctx, e.OwnerID)
	m.feed(ctx, prefs, Notification{
		UserID:  e.OwnerID,
		Kind:    kindVenueApproved,
		Title:   "Local aprovado",
		Body:    fmt.Sprintf("Seu local %s foi aprovado e já aparece nas buscas.", e.VenueName),
		VenueID: &e.VenueID,
	})

	if e.OwnerEmail == "" || !prefs.EmailEnabled {
		return nil
	}
	venueURL := m.buildVenueURL(e.VenueID)
	if err := m.sender.SendVenueApprovedEmail(ctx, e.OwnerEmail, e.VenueName, venueURL); err != nil {
		m.log.Error("failed to send venue approved email", "venueId", e.VenueID, "email", e.OwnerEmail, "error", err)
		return err
	}
	m.log.Info("venue approved email sent", "venueId", e.VenueID, "email", e.OwnerEmail)
	return nil
}

func (m *Module) handleVenueRejected(ctx context.Context, e events.VenueRejected) error {
	body := fmt.Sprintf("Seu local %s não foi aprovado.", e.VenueName)
	if e.Reason != "" {
		body += " Motivo: " + e.Reason
	}

	prefs := m.preferencesFor(ctx, e.OwnerID)
	m.feed(ctx, prefs, Notification{
		UserID: e.OwnerID,
		Kind:   kindVenueRejected,
		Title:  "Local recusado",
		Body:   body,
	})

	if e.OwnerEmail == "" || !prefs.EmailEnabled {
		return nil
	}
	if err := m.sender.SendVenueRejectedEmail(ctx, e.OwnerEmail, e.VenueName, e.Reason); err != nil {
		m.log.Error("failed to send venue rejected email", "venueId", e.VenueID, "email", e.OwnerEmail, "error", err)
		return err
	}
	m.log.Info("venue rejected email sent", "venueId", e.VenueID, "email", e.OwnerEmail)
	return nil
}

func (m *Module) handleCommentModerated(ctx context.Context, e events.CommentModerated) error {
	venueName := m.resolveVenueName(ctx, e.VenueID)

	title := "Comentário recusado"
	body := fmt.Sprintf("Seu comentário sobre %s não foi aprovado.", venueName)
	if e.Approved {
		title = "Comentário aprovado"
		body = fmt.Sprintf("Seu comentário sobre %s foi publicado.", venueName)
	}

	prefs := m.preferencesFor(ctx, e.AuthorID)
	m.feed(ctx, prefs, Notification{
		UserID:  e.AuthorID,
		Kind:    kindCommentModerated,
		Title:   title,
		Body:    body,
		VenueID: &e.VenueID,
	})

	if e.AuthorEmail == "" || !prefs.EmailEnabled {
		return nil
	}
	if err := m.sender.SendCommentModeratedEmail(ctx, e.AuthorEmail, venueName, e.Approved, e.Note); err != nil {
		m.log.Error("failed to send comment moderated email", "commentId", e.CommentID, "email", e.AuthorEmail, "error", err)
		return err
	}
	m.log.Info("comment moderated email sent", "commentId", e.CommentID, "email", e.AuthorEmail)
	return nil
}

// Agenda moderation is feed-only: venue owners check their panel often
// enough that an email per event would be noise.
func (m *Module) handleVenueEventModerated(ctx context.Context, e events.VenueEventModerated) error {
	title := "Evento recusado"
	body := fmt.Sprintf("Seu evento %q não foi aprovado.", e.Title)
	if e.Approved {
		title = "Evento aprovado"
		body = fmt.Sprintf("Seu evento %q já aparece na agenda do local.", e.Title)
	}
	if e.Note != "" {
		body += " Observação: " + e.Note
	}

	prefs := m.preferencesFor(ctx, e.CreatorID)
	m.feed(ctx, prefs, Notification{
		UserID:  e.CreatorID,
		Kind:    kindVenueEventModerated,
		Title:   title,
		Body:    body,
		VenueID: &e.VenueID,
	})
	return nil
}

func (m *Module) handleAppointmentBooked(ctx context.Context, e events.AppointmentBooked) error {
	prefs := m.preferencesFor(ctx, e.UserID)
	m.feed(ctx, prefs, Notification{
		UserID:  e.UserID,
		Kind:    kindAppointmentBooked,
		Title:   "Visita agendada",
		Body:    fmt.Sprintf("Sua visita a %s está confirmada para %s.", e.VenueName, e.When),
		VenueID: &e.VenueID,
	})

	if e.UserEmail == "" || !prefs.EmailEnabled {
		return nil
	}
	if err := m.sender.SendAppointmentBookedEmail(ctx, e.UserEmail, e.VenueName, e.When); err != nil {
		m.log.Error("failed to send appointment booked email", "appointmentId", e.AppointmentID, "email", e.UserEmail, "error", err)
		return err
	}
	m.log.Info("appointment booked email sent", "appointmentId", e.AppointmentID, "email", e.UserEmail)
	return nil
}

func (m *Module) handleAppointmentCancelled(ctx context.Context, e events.AppointmentCancelled) error {
	prefs := m.preferencesFor(ctx, e.UserID)
	m.feed(ctx, prefs, Notification{
		UserID:  e.UserID,
		Kind:    kindAppointmentCanceled,
		Title:   "Visita cancelada",
		Body:    fmt.Sprintf("Sua visita a %s foi cancelada.", e.VenueName),
		VenueID: &e.VenueID,
	})

	if e.UserEmail == "" || !prefs.EmailEnabled {
		return nil
	}
	if err := m.sender.SendAppointmentCancelledEmail(ctx, e.UserEmail, e.VenueName); err != nil {
		m.log.Error("failed to send appointment cancelled email", "appointmentId", e.AppointmentID, "email", e.UserEmail, "error", err)
		return err
	}
	m.log.Info("appointment cancelled email sent", "appointmentId", e.AppointmentID, "email", e.UserEmail)
	return nil
}

func (m *Module) handleAppointmentReminderDue(ctx context.Context, e events.AppointmentReminderDue) error {
	prefs := defaultPreferences()
	if e.UserID != uuid.Nil {
		prefs = m.preferencesFor(ctx, e.UserID)
		m.feed(ctx, prefs, Notification{
			UserID: e.UserID,
			Kind:   kindAppointmentReminder,
			Title:  "Lembrete de visita",
			Body:   fmt.Sprintf("Sua visita a %s está marcada para %s.", e.VenueName, e.When),
		})
	}

	if e.UserEmail == "" || !prefs.EmailEnabled {
		return nil
	}
	if err := m.sender.SendAppointmentReminderEmail(ctx, e.UserEmail, e.VenueName, e.When); err != nil {
		m.log.Error("failed to send appointment reminder email", "appointmentId", e.AppointmentID, "email", e.UserEmail, "error", err)
		return err
	}
	m.log.Info("appointment reminder email sent", "appointmentId", e.AppointmentID, "email", e.UserEmail)
	return nil
}

// preferencesFor loads delivery preferences, failing open on storage
// trouble.
func (m *Module) preferencesFor(ctx context.Context, userID uuid.UUID) Preferences {
	if m.store == nil {
		return Preferences{EmailEnabled: true, InAppEnabled: false}
	}
	prefs, err := m.store.GetPreferences(ctx, userID)
	if err != nil {
		m.log.Warn("notification preferences lookup failed", "userId", userID, "error", err)
		return defaultPreferences()
	}
	return prefs
}

func (m *Module) feed(ctx context.Context, prefs Preferences, n Notification) {
	if m.store == nil || !prefs.InAppEnabled || n.UserID == uuid.Nil {
		return
	}
	if _, err := m.store.Insert(ctx, n); err != nil {
		m.log.Error("failed to record in-app notification", "userId", n.UserID, "kind", n.Kind, "error", err)
	}
}

func (m *Module) resolveVenueName(ctx context.Context, venueID uuid.UUID) string {
	if m.venueNames == nil {
		return "o local"
	}
	name, err := m.venueNames.VisibleName(ctx, venueID)
	if err != nil || strings.TrimSpace(name) == "" {
		return "o local"
	}
	return name
}

func (m *Module) buildVenueURL(venueID uuid.UUID) string {
	base := strings.TrimRight(m.cfg.GetAppBaseURL(), "/")
	return base + "/local/" + venueID.String()
}

var _ apphttp.Module = (*Module)(nil)
