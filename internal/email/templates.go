package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type welcomeEmailData struct {
	baseEmailData
	Name string
}

type venueApprovedEmailData struct {
	baseEmailData
	VenueName string
}

type venueRejectedEmailData struct {
	baseEmailData
	VenueName string
	Reason    string
}

type commentModeratedEmailData struct {
	baseEmailData
	VenueName string
	Approved  bool
	Note      string
}

type appointmentBookedEmailData struct {
	baseEmailData
	VenueName string
	When      string
}

type appointmentCancelledEmailData struct {
	baseEmailData
	VenueName string
}

type appointmentReminderEmailData struct {
	baseEmailData
	VenueName string
	When      string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}
