package email

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP
// connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string, attachments ...Attachment) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	for _, att := range attachments {
		msg.AttachReader(att.FileName, bytes.NewReader(att.Content))
	}

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendWelcomeEmail(ctx context.Context, toEmail, name string) error {
	content, err := renderEmailTemplate("welcome.html", welcomeEmailData{
		baseEmailData: baseEmailData{
			Title:      "Bem-vindo ao Portal da Fé",
			Heading:    "Bem-vindo ao Portal da Fé",
			Subheading: "Sua conta foi criada com sucesso.",
		},
		Name: name,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectWelcome, content)
}

func (s *SMTPSender) SendVenueApprovedEmail(ctx context.Context, toEmail, venueName, venueURL string) error {
	subject := fmt.Sprintf(subjectVenueApprovedFmt, venueName)
	content, err := renderEmailTemplate("venue_approved.html", venueApprovedEmailData{
		baseEmailData: baseEmailData{
			Title:    "Local aprovado",
			Heading:  "Local aprovado",
			CTALabel: "Ver local",
			CTAURL:   venueURL,
		},
		VenueName: venueName,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendVenueRejectedEmail(ctx context.Context, toEmail, venueName, reason string) error {
	subject := fmt.Sprintf(subjectVenueRejectedFmt, venueName)
	content, err := renderEmailTemplate("venue_rejected.html", venueRejectedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Local não aprovado",
			Heading: "Local não aprovado",
		},
		VenueName: venueName,
		Reason:    reason,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendCommentModeratedEmail(ctx context.Context, toEmail, venueName string, approved bool, note string) error {
	subjectFmt := subjectCommentApprovedFmt
	heading := "Comentário publicado"
	if !approved {
		subjectFmt = subjectCommentRejectedFmt
		heading = "Comentário não publicado"
	}
	content, err := renderEmailTemplate("comment_moderated.html", commentModeratedEmailData{
		baseEmailData: baseEmailData{
			Title:   heading,
			Heading: heading,
		},
		VenueName: venueName,
		Approved:  approved,
		Note:      note,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectFmt, venueName), content)
}

func (s *SMTPSender) SendAppointmentBookedEmail(ctx context.Context, toEmail, venueName, when string) error {
	subject := fmt.Sprintf(subjectAppointmentBookedFmt, venueName)
	content, err := renderEmailTemplate("appointment_booked.html", appointmentBookedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Visita agendada",
			Heading: "Visita agendada",
		},
		VenueName: venueName,
		When:      when,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendAppointmentCancelledEmail(ctx context.Context, toEmail, venueName string) error {
	content, err := renderEmailTemplate("appointment_cancelled.html", appointmentCancelledEmailData{
		baseEmailData: baseEmailData{
			Title:   "Visita cancelada",
			Heading: "Visita cancelada",
		},
		VenueName: venueName,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectAppointmentCancelled, content)
}

func (s *SMTPSender) SendAppointmentReminderEmail(ctx context.Context, toEmail, venueName, when string) error {
	content, err := renderEmailTemplate("appointment_reminder.html", appointmentReminderEmailData{
		baseEmailData: baseEmailData{
			Title:   "Lembrete de visita",
			Heading: "Lembrete de visita",
		},
		VenueName: venueName,
		When:      when,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectAppointmentReminder, content)
}

func (s *SMTPSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return s.send(ctx, toEmail, subject, htmlContent)
}
