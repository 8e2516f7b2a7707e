package domain

import (
	"context"
	"errors"
	"time"
)

// ErrUnauthorized is returned when a login link or session token does not
// resolve to an allow-listed administrator.
var ErrUnauthorized = errors.New("unauthorized")

// LoginLinkRepository stores one-time magic-link tokens. Only a digest of
// the link secret is persisted; Consume deletes the row on success.
type LoginLinkRepository interface {
	Create(ctx context.Context, tokenID, email, secretHash string, expiresAt time.Time) error
	Consume(ctx context.Context, tokenID, secret string) (email string, err error)
	DeleteExpired(ctx context.Context) error
}

// TokenIssuer issues session tokens (e.g. JWT) for an authenticated admin.
type TokenIssuer interface {
	Issue(email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a session token and returns the admin email.
type TokenVerifier interface {
	Verify(token string) (email string, err error)
}

// AuthService defines the passwordless admin authentication flow: a magic
// link is mailed to an allow-listed address, and redeeming it yields a
// session token.
type AuthService interface {
	RequestLoginLink(ctx context.Context, email string) error
	VerifyLoginLink(ctx context.Context, token string) (sessionToken, email string, err error)
	IsAdmin(email string) bool
}
