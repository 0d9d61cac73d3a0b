// Package email delivers transactional mail for the portal. Delivery goes
// through the Sender interface so modules never depend on a concrete
// transport; SMTPSender is the real implementation and NoopSender stands in
// when email is disabled.
package email

import (
	"context"
	"fmt"

	"portal_da_fe_backend/platform/config"
)

// Attachment represents a file attachment for an email.
type Attachment struct {
	Content  []byte
	FileName string
	MIMEType string
}

type Sender interface {
	SendWelcomeEmail(ctx context.Context, toEmail, name string) error
	SendVenueApprovedEmail(ctx context.Context, toEmail, venueName, venueURL string) error
	SendVenueRejectedEmail(ctx context.Context, toEmail, venueName, reason string) error
	SendCommentModeratedEmail(ctx context.Context, toEmail, venueName string, approved bool, note string) error
	SendAppointmentBookedEmail(ctx context.Context, toEmail, venueName, when string) error
	SendAppointmentCancelledEmail(ctx context.Context, toEmail, venueName string) error
	SendAppointmentReminderEmail(ctx context.Context, toEmail, venueName, when string) error
	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error
}

// NewSender builds the configured Sender. Email is optional; without SMTP
// settings a NoopSender is returned and notifications become log-only.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}
	if cfg.GetSMTPHost() == "" {
		return nil, fmt.Errorf("email enabled but SMTP_HOST is empty")
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}

// NoopSender satisfies Sender without delivering anything. Used when
// EMAIL_ENABLED is false or SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendWelcomeEmail(ctx context.Context, toEmail, name string) error { return nil }
func (NoopSender) SendVenueApprovedEmail(ctx context.Context, toEmail, venueName, venueURL string) error {
	return nil
}
func (NoopSender) SendVenueRejectedEmail(ctx context.Context, toEmail, venueName, reason string) error {
	return nil
}
func (NoopSender) SendCommentModeratedEmail(ctx context.Context, toEmail, venueName string, approved bool, note string) error {
	return nil
}
func (NoopSender) SendAppointmentBookedEmail(ctx context.Context, toEmail, venueName, when string) error {
	return nil
}
func (NoopSender) SendAppointmentCancelledEmail(ctx context.Context, toEmail, venueName string) error {
	return nil
}
func (NoopSender) SendAppointmentReminderEmail(ctx context.Context, toEmail, venueName, when string) error {
	return nil
}
func (NoopSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return nil
}
