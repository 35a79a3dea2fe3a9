// Package handlers implements the HTTP surface of the progress service.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/scanvocab/scanvocab/pkg/api"
)

// contextKey keys values stored in the request context by middleware.
type contextKey string

// UserIDKey holds the authenticated user's id.
const UserIDKey contextKey = "user_id"

// UsernameKey holds the authenticated user's username.
const UsernameKey contextKey = "username"

// UserIDFromContext returns the authenticated user id set by the auth
// middleware.
func UserIDFromContext(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

func sendJSON(w http.ResponseWriter, logger *slog.Logger, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func sendError(w http.ResponseWriter, logger *slog.Logger, message string, status int) {
	sendJSON(w, logger, api.ErrorResponse{Error: message}, status)
}
