package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "vapaweb/internal/delivery/http/helpers"
	"vapaweb/internal/domain"
)

type contextKey string

const adminEmailKey contextKey = "adminEmail"

// SetAdminEmail returns a context with the admin email set. Used by auth middleware.
func SetAdminEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, adminEmailKey, email)
}

// AdminEmailFromContext returns the authenticated admin email from the context, if present.
func AdminEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(adminEmailKey).(string)
	return email, ok
}

// RequireAdmin returns a wrapper that validates the Bearer session token and
// checks the resulting email against the administrator allow-list. If the
// token is missing, invalid, or not allow-listed, it responds with 401 and
// does not call next.
func RequireAdmin(verifier domain.TokenVerifier, auth domain.AuthService, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(header[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			email, err := verifier.Verify(token)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			if !auth.IsAdmin(email) {
				logger.Warn("session for non-admin address rejected", "email", email)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "not an administrator")
				return
			}
			r = r.WithContext(SetAdminEmail(r.Context(), email))
			next(w, r)
		}
	}
}
