package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"vapaweb/internal/domain"
)

const (
	bcryptCost          = 10
	loginLinkExpiryMins = 15
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type authService struct {
	linkRepo     domain.LoginLinkRepository
	tokenIssuer  domain.TokenIssuer
	tokenExpiry  time.Duration
	emailService domain.EmailService
	adminEmails  map[string]bool
	baseURL      string
	logger       *slog.Logger
}

// NewAuthService creates the magic-link AuthService. adminEmails is the
// allow-list of administrator addresses; baseURL is the site origin the
// login link points back to.
func NewAuthService(linkRepo domain.LoginLinkRepository, tokenIssuer domain.TokenIssuer, tokenExpiry time.Duration, emailService domain.EmailService, adminEmails []string, baseURL string, logger *slog.Logger) domain.AuthService {
	allowed := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		allowed[strings.ToLower(strings.TrimSpace(e))] = true
	}
	return &authService{
		linkRepo:     linkRepo,
		tokenIssuer:  tokenIssuer,
		tokenExpiry:  tokenExpiry,
		emailService: emailService,
		adminEmails:  allowed,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		logger:       logger,
	}
}

func (s *authService) IsAdmin(email string) bool {
	return s.adminEmails[strings.ToLower(strings.TrimSpace(email))]
}

// RequestLoginLink mails a one-time login link to the address. Requests for
// addresses outside the allow-list succeed without sending anything, so the
// endpoint does not reveal which addresses are administrators.
func (s *authService) RequestLoginLink(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	if !s.adminEmails[email] {
		s.logger.Info("login link requested for non-admin address", "email", email)
		return nil
	}

	secret, err := generateLinkSecret()
	if err != nil {
		return fmt.Errorf("failed to generate link secret: %w", err)
	}
	secretHash, err := bcrypt.GenerateFromPassword([]byte(secret), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash link secret: %w", err)
	}
	tokenID := uuid.NewString()
	expiresAt := time.Now().Add(loginLinkExpiryMins * time.Minute)
	if err := s.linkRepo.Create(ctx, tokenID, email, string(secretHash), expiresAt); err != nil {
		return fmt.Errorf("failed to store login link: %w", err)
	}

	data := &domain.LoginLinkEmailData{
		Email:            email,
		LoginURL:         fmt.Sprintf("%s/admin/auth/callback?token=%s.%s", s.baseURL, tokenID, secret),
		ExpiresInMinutes: loginLinkExpiryMins,
	}
	if err := s.emailService.SendLoginLink(ctx, data); err != nil {
		return fmt.Errorf("failed to send login link email: %w", err)
	}
	return nil
}

// VerifyLoginLink redeems a "<id>.<secret>" token. The link is single-use;
// a second redemption fails with ErrUnauthorized.
func (s *authService) VerifyLoginLink(ctx context.Context, token string) (string, string, error) {
	tokenID, secret, ok := strings.Cut(strings.TrimSpace(token), ".")
	if !ok || tokenID == "" || secret == "" {
		return "", "", domain.ErrUnauthorized
	}
	if _, err := uuid.Parse(tokenID); err != nil {
		return "", "", domain.ErrUnauthorized
	}

	email, err := s.linkRepo.Consume(ctx, tokenID, secret)
	if err != nil {
		return "", "", err
	}
	// The allow-list may have changed since the link was issued.
	if !s.adminEmails[email] {
		return "", "", domain.ErrUnauthorized
	}

	sessionToken, err := s.tokenIssuer.Issue(email, s.tokenExpiry)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign token: %w", err)
	}
	return sessionToken, email, nil
}

func generateLinkSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
