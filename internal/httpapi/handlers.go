package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/DoyleJ11/hearts-client/internal/hub"
	"github.com/DoyleJ11/hearts-client/pkg/types"
)

// GameLister is the slice of the history store the status API reads.
type GameLister interface {
	RecentGames(ctx context.Context, limit int) ([]types.GameView, error)
	HandCount(ctx context.Context, sessionID string) (int64, error)
}

func ListSessions(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := h.Views(r.Context())
		if err != nil {
			http.Error(w, "failed to read sessions", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func GetSession(h *hub.Hub, games GameLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seat := h.Get(r.Context(), chi.URLParam(r, "id"))
		if seat == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		v, err := seat.View(r.Context())
		if err != nil {
			http.Error(w, "failed to read session", http.StatusServiceUnavailable)
			return
		}
		if games != nil {
			n, err := games.HandCount(r.Context(), v.ID)
			if err != nil {
				http.Error(w, "failed to read history", http.StatusInternalServerError)
				return
			}
			v.HandsRecorded = &n
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func RecentGames(games GameLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if games == nil {
			http.Error(w, "history disabled", http.StatusNotFound)
			return
		}
		limit := 20
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				http.Error(w, "bad limit", http.StatusBadRequest)
				return
			}
			limit = n
		}
		out, err := games.RecentGames(r.Context(), limit)
		if err != nil {
			http.Error(w, "failed to read history", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
