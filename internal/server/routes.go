package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/minemates/minemates/internal/game"
	"github.com/minemates/minemates/internal/session"
)

// AddRoutes wires the HTTP boundary: health, API docs, and the game
// websocket. Everything else the game does rides on /ws.
func AddRoutes(r chi.Router, logger *slog.Logger, gw *Gateway, registry *game.Registry, sessions session.Store, allowedOrigins []string) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Minemates API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, sessions, registry))
	r.Get("/ws", handleWS(gw, NewOriginChecker(allowedOrigins), logger))
}
