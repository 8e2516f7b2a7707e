package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// LoginLinkEmailData holds data for the magic-link login email.
type LoginLinkEmailData struct {
	Email            string
	LoginURL         string
	ExpiresInMinutes int
}

// ContactMessage holds a submission from the public contact form.
type ContactMessage struct {
	Email   string
	Name    string
	Message string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendLoginLink(ctx context.Context, data *LoginLinkEmailData) error
	SendContactMessage(ctx context.Context, msg *ContactMessage) error
}
