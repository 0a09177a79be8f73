package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Minemates API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("HTTP boundary of the Minemates realtime server. Gameplay itself runs over the websocket at /ws.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Reports transport readiness. A degraded session store does not fail the check; active play continues without it.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getHealthz)

	// GET /ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws")
	getWS.SetSummary("Game websocket")
	getWS.SetDescription("Upgrades to the realtime game connection. Clients send join_room, open_cell, toggle_flag, chord_cell, reset_board, start_pvp, pvp_rematch, cell_hover and leave_room messages; the server answers with joined, state_snapshot and room event broadcasts.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusForbidden),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(spec)
	}
}
