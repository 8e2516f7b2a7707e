package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"vapaweb/internal/delivery/http/helpers"
	"vapaweb/internal/domain"
)

// ContactController serves the public contact form.
type ContactController struct {
	Logger  *slog.Logger
	Service domain.EmailService
}

func NewContactController(logger *slog.Logger, svc domain.EmailService) *ContactController {
	return &ContactController{
		Logger:  logger,
		Service: svc,
	}
}

// ContactRequest is the request body for POST /contact.
type ContactRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Validate implements Validator. Mirrors the rules the email service
// enforces so malformed submissions fail with 400 instead of 500.
func (c ContactRequest) Validate() []string {
	var errs []string
	if !strings.Contains(c.Email, "@") {
		errs = append(errs, "a valid email is required")
	}
	if len(strings.TrimSpace(c.Message)) < 10 {
		errs = append(errs, "message must be at least 10 characters")
	}
	return errs
}

// SubmitContact handles POST /contact. Forwards the message to the
// association inbox.
func (c *ContactController) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	msg := &domain.ContactMessage{
		Email:   strings.TrimSpace(req.Email),
		Name:    strings.TrimSpace(req.Name),
		Message: strings.TrimSpace(req.Message),
	}
	if err := c.Service.SendContactMessage(r.Context(), msg); err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to send message")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "Message sent."})
}
