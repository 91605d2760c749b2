package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"moxie-backend/internal/handlers"
	"moxie-backend/internal/middleware"
)

func New(
	chatHandler *handlers.ChatHandler,
	sessionHandler *handlers.SessionHandler,
	frontendURL string,
	chatRateLimitPerMin int,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	chatLimiter := middleware.NewRateLimiter(chatRateLimitPerMin, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {

		// ──── Chat Relay ────
		// Registered for every method; the handler owns the 405 so the
		// error body stays JSON instead of chi's plain-text default.
		r.With(chatLimiter.Middleware).HandleFunc("/chat", chatHandler.Relay)

		// ──── Session Mirror (optional) ────
		if sessionHandler != nil {
			r.Route("/session", func(r chi.Router) {
				r.Get("/{id}", sessionHandler.GetSession)
				r.Put("/{id}", sessionHandler.SaveSession)
			})
		}
	})

	return r
}
