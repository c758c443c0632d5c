package api

import (
	"log/slog"
	"net/http"

	"github.com/Babidiii/webhoogz/internal/events"
	"github.com/Babidiii/webhoogz/internal/hooks"
	"github.com/Babidiii/webhoogz/internal/store"
	ws "github.com/Babidiii/webhoogz/internal/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(pgStore *store.PostgresStore, registry *events.Registry, hk *hooks.Hooks, hub *ws.Hub, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// Handlers
	destHandler := NewDestinationHandler(pgStore, logger)
	eventHandler := NewEventHandler(registry)
	hookHandler := NewHookHandler(hk)

	// Live delivery-outcome feed for the admin log view
	r.Get("/ws", hub.HandleWebSocket)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", HealthHandler())

		r.Get("/events", eventHandler.List)

		r.Route("/destinations", func(r chi.Router) {
			r.Get("/", destHandler.List)
			r.Put("/", destHandler.ReplaceAll)
			r.Delete("/{id}", destHandler.Delete)
			r.Get("/{id}/logs", destHandler.Logs)
		})

		r.Route("/hooks", func(r chi.Router) {
			r.Post("/challenges", hookHandler.ChallengeCreated)
			r.Post("/teams", hookHandler.TeamCreated)
			r.Post("/solves", hookHandler.SolveInserted)
		})
	})

	return r
}
