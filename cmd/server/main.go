package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"

	"vapaweb/config"
	authadapter "vapaweb/internal/adapters/auth"
	"vapaweb/internal/adapters/email"
	"vapaweb/internal/adapters/images"
	delivery "vapaweb/internal/delivery/http"
	"vapaweb/internal/delivery/http/controllers"
	"vapaweb/internal/delivery/http/middleware"
	"vapaweb/internal/repository/postgres"
	"vapaweb/internal/services"
)

const (
	serviceTimeout = 5 * time.Second
	sessionExpiry  = 12 * time.Hour
)

func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to reach database", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	linkRepo := postgres.NewLoginLinkRepository(db)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), cfg.ContactEmail)
	tokens := authadapter.NewJWTTokens(cfg.JWTSecret)
	authService := services.NewAuthService(linkRepo, tokens, sessionExpiry, emailService, cfg.AdminEmails, cfg.BaseURL, logger)
	eventService := services.NewEventService(eventRepo, serviceTimeout)

	searcher := images.NewUnsplashSearcher(nil, cfg.UnsplashAccessKey)
	uploader := images.NewS3Uploader(images.S3Config{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretKey,
		PublicBaseURL:   cfg.S3PublicBaseURL,
	})

	mux := delivery.NewRouter(
		logger,
		controllers.NewEventController(logger, eventService),
		controllers.NewAuthController(logger, authService),
		controllers.NewContactController(logger, emailService),
		controllers.NewImageController(logger, searcher, uploader),
		tokens,
		authService,
	)

	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSOrigins, mux))

	addr := ":" + cfg.Port
	logger.Info("server listening", "addr", addr, "env", cfg.Environment)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
