package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"vapaweb/internal/domain"
)

type loginLinkRepository struct {
	DB *sql.DB
}

// NewLoginLinkRepository returns a domain.LoginLinkRepository implemented
// with Postgres. Link secrets are stored as bcrypt digests.
func NewLoginLinkRepository(db *sql.DB) domain.LoginLinkRepository {
	return &loginLinkRepository{DB: db}
}

func (r *loginLinkRepository) Create(ctx context.Context, tokenID, email, secretHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO login_links (id, email, secret_hash, expires_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.DB.ExecContext(ctx, query, tokenID, email, secretHash, expiresAt)
	return err
}

// Consume looks up an unexpired link by id, compares the secret against the
// stored digest, and deletes the row so the link is single-use.
func (r *loginLinkRepository) Consume(ctx context.Context, tokenID, secret string) (string, error) {
	var email, secretHash string
	query := `
		SELECT email, secret_hash FROM login_links
		WHERE id = $1 AND expires_at > NOW()
	`
	err := r.DB.QueryRowContext(ctx, query, tokenID).Scan(&email, &secretHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrUnauthorized
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(secretHash), []byte(secret)) != nil {
		return "", domain.ErrUnauthorized
	}
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM login_links WHERE id = $1`, tokenID); err != nil {
		return "", err
	}
	return email, nil
}

func (r *loginLinkRepository) DeleteExpired(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM login_links WHERE expires_at <= NOW()`)
	return err
}
