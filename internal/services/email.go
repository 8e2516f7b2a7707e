package services

import (
	"context"
	"fmt"
	"strings"

	"vapaweb/internal/domain"
)

const minContactMessageLen = 10

type emailService struct {
	mailer       domain.Mailer
	renderer     domain.EmailTemplateRenderer
	contactEmail string
}

// NewEmailService returns an EmailService that uses the given Mailer and
// template renderer. contactEmail is the inbox that receives contact-form
// submissions.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, contactEmail string) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, contactEmail: contactEmail}
}

// SendLoginLink sends the magic-link email using the "login_link" template.
func (s *emailService) SendLoginLink(ctx context.Context, data *domain.LoginLinkEmailData) error {
	if data == nil {
		return fmt.Errorf("login link data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("login_link", data)
	if err != nil {
		return fmt.Errorf("failed to render login_link template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send login link email: %w", err)
	}
	return nil
}

// SendContactMessage relays a contact-form submission to the association's
// contact inbox using the "contact" template.
func (s *emailService) SendContactMessage(ctx context.Context, msg *domain.ContactMessage) error {
	if msg == nil {
		return fmt.Errorf("contact message is nil")
	}
	if s.contactEmail == "" {
		return fmt.Errorf("contact inbox is not configured")
	}
	if !strings.Contains(msg.Email, "@") {
		return fmt.Errorf("invalid sender email")
	}
	if len(strings.TrimSpace(msg.Message)) < minContactMessageLen {
		return fmt.Errorf("message must be at least %d characters", minContactMessageLen)
	}
	subject, htmlBody, textBody, err := s.renderer.Render("contact", msg)
	if err != nil {
		return fmt.Errorf("failed to render contact template: %w", err)
	}
	if err := s.mailer.Send(s.contactEmail, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send contact email: %w", err)
	}
	return nil
}
