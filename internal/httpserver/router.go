package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"dmchat/internal/config"
	"dmchat/internal/domain"
	"dmchat/internal/security"
	"dmchat/internal/service"
)

// Stores bundles the repository implementations of the selected storage
// backend.
type Stores struct {
	Users         domain.UserRepository
	Messages      domain.MessageRepository
	Conversations domain.ConversationRepository
	Recovery      domain.RecoveryRepository
}

// NewRouter constructs the main HTTP router and wires routes, services, and
// middleware.
func NewRouter(cfg *config.Config, stores Stores, tokenSvc *security.TokenService, passwordHasher *security.PasswordHasher) http.Handler {
	r := chi.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Services
	authSvc := service.NewAuthService(stores.Users, tokenSvc, passwordHasher)
	userSvc := service.NewUserService(stores.Users)
	msgSvc := service.NewMessageService(stores.Messages, stores.Users)
	convSvc := service.NewConversationService(stores.Conversations)
	recoverySvc := service.NewRecoveryService(
		stores.Users, stores.Messages, stores.Recovery, passwordHasher,
		cfg.SupportUsername, time.Duration(cfg.RecoveryCodeTTLMin)*time.Minute,
	)

	authLimiter := NewLimiterStore(cfg.AuthRatePerMinute, cfg.AuthRateBurst)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": cfg.AppName,
			"version": "1.0.0",
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Unauthenticated routes, rate-limited per IP
		r.Group(func(r chi.Router) {
			r.Use(RateLimit(authLimiter))

			r.Route("/auth", func(r chi.Router) {
				r.Post("/register", handleRegister(authSvc))
				r.Post("/login", handleLogin(authSvc))
			})
			r.Route("/recovery", func(r chi.Router) {
				r.Post("/request", handleRequestCode(recoverySvc))
				r.Post("/reset", handleResetPassword(recoverySvc))
			})
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(tokenSvc, stores.Users))

			r.Post("/auth/logout", handleLogout(authSvc))
			r.Get("/auth/me", handleMe())

			r.Get("/users/{userID}", handleGetUser(userSvc))
			r.Get("/profile", handleGetProfile())
			r.Patch("/profile", handleUpdateProfile(userSvc))

			r.Route("/conversations", func(r chi.Router) {
				r.Get("/", handleListConversations(convSvc))
				r.Get("/{partnerID}/messages", handleListMessages(msgSvc))
				r.Post("/{partnerID}/read", handleMarkConversationRead(msgSvc))
			})

			r.Post("/messages", handleSendMessage(msgSvc))

			r.Mount("/uploads", UploadRoutes(cfg))
		})
	})

	return r
}
