package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"vapaweb/internal/delivery/http/controllers"
	"vapaweb/internal/delivery/http/middleware"
	"vapaweb/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	logger *slog.Logger,
	eventController *controllers.EventController,
	authController *controllers.AuthController,
	contactController *controllers.ContactController,
	imageController *controllers.ImageController,
	verifier domain.TokenVerifier,
	authService domain.AuthService,
) *http.ServeMux {
	mux := http.NewServeMux()
	admin := middleware.RequireAdmin(verifier, authService, logger)

	// Public event queries
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("GET /events/years", eventController.ListYears)
	mux.HandleFunc("GET /events/types", eventController.ListTypes)
	mux.HandleFunc("GET /events/upcoming", eventController.ListUpcoming)
	mux.HandleFunc("GET /events/recent", eventController.ListRecent)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEventByID)

	// Contact form
	mux.HandleFunc("POST /contact", contactController.SubmitContact)

	// Auth
	mux.HandleFunc("POST /auth/login-link", authController.RequestLoginLink)
	mux.HandleFunc("POST /auth/verify", authController.VerifyLoginLink)

	// Admin event management
	mux.HandleFunc("POST /events", admin(eventController.CreateEvent))
	mux.HandleFunc("PUT /events/{eventID}", admin(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", admin(eventController.DeleteEvent))

	// Admin image tooling
	mux.HandleFunc("GET /images/search", admin(imageController.SearchImages))
	mux.HandleFunc("POST /images/upload", admin(imageController.UploadImage))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
