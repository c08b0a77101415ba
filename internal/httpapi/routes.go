package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DoyleJ11/hearts-client/internal/hub"
)

// SetupRoutes builds the status router. games may be nil when history is disabled.
func SetupRoutes(h *hub.Hub, games GameLister) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/sessions", ListSessions(h))
	r.Get("/sessions/{id}", GetSession(h, games))
	r.Get("/history", RecentGames(games))
	return r
}
