package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"vapaweb/internal/delivery/http/helpers"
	"vapaweb/internal/domain"
)

// AuthController serves the passwordless admin login flow.
type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// LoginLinkRequest is the request body for POST /auth/login-link.
type LoginLinkRequest struct {
	Email string `json:"email"`
}

// Validate implements Validator.
func (l LoginLinkRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Email) == "" {
		errs = append(errs, "email is required")
	}
	return errs
}

// RequestLoginLink handles POST /auth/login-link. The response is the same
// whether or not the address is an administrator, so the endpoint cannot be
// used to probe the allow-list.
func (c *AuthController) RequestLoginLink(w http.ResponseWriter, r *http.Request) {
	var req LoginLinkRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.RequestLoginLink(r.Context(), req.Email); err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to send login link")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{
		"message": "If the address is registered, a login link has been sent.",
	})
}

// VerifyRequest is the request body for POST /auth/verify.
type VerifyRequest struct {
	Token string `json:"token"`
}

// Validate implements Validator.
func (v VerifyRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(v.Token) == "" {
		errs = append(errs, "token is required")
	}
	return errs
}

// SessionResponse is the payload returned on successful login-link redemption.
type SessionResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// VerifyLoginLink handles POST /auth/verify. Redeems a one-time magic-link
// token for a session token. The link token is single use; a second attempt
// with the same token is 401.
func (c *AuthController) VerifyLoginLink(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	sessionToken, email, err := c.Service.VerifyLoginLink(r.Context(), req.Token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid or expired login link")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to verify login link")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, SessionResponse{Token: sessionToken, Email: email})
}
