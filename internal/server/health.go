package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/minemates/minemates/internal/game"
	"github.com/minemates/minemates/internal/session"
)

// HealthResponse reports transport readiness plus session-store health.
// The store being down degrades reconnection only, so it never turns the
// endpoint unhealthy while rooms keep playing.
type HealthResponse struct {
	Status       string `json:"status"`
	SessionStore string `json:"sessionStore"`
	Rooms        int    `json:"rooms"`
}

func handleHealth(logger *slog.Logger, sessions session.Store, registry *game.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		resp := HealthResponse{
			Status:       "ok",
			SessionStore: "ok",
			Rooms:        registry.Count(),
		}
		if err := sessions.Ping(ctx); err != nil {
			logger.Error("health check failed", "name", "sessionStore", "error", err)
			resp.SessionStore = "degraded"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}
}
