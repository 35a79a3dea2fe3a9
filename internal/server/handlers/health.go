package handlers

import (
	"log/slog"
	"net/http"

	"github.com/scanvocab/scanvocab/pkg/api"
)

// HealthHandler answers the liveness probe the client uses to decide
// whether it is online.
type HealthHandler struct {
	logger  *slog.Logger
	version string
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(logger *slog.Logger, version string) *HealthHandler {
	return &HealthHandler{logger: logger, version: version}
}

// Get handles GET /api/v1/health.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, h.logger, api.HealthResponse{Status: "ok", Version: h.version}, http.StatusOK)
}
