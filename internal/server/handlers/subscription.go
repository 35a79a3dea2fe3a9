package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/scanvocab/scanvocab/internal/server/storage"
	"github.com/scanvocab/scanvocab/pkg/api"
)

// SubscriptionHandler serves the authenticated subscription lookup.
type SubscriptionHandler struct {
	logger *slog.Logger
	users  storage.UserStorage
}

// NewSubscriptionHandler creates the subscription handler.
func NewSubscriptionHandler(logger *slog.Logger, users storage.UserStorage) *SubscriptionHandler {
	return &SubscriptionHandler{logger: logger, users: users}
}

// Get handles GET /api/v1/subscription.
func (h *SubscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r)
	if !ok {
		sendError(w, h.logger, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(w, h.logger, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to load user", "error", err)
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}
	sendJSON(w, h.logger, api.SubscriptionResponse{Status: user.Subscription}, http.StatusOK)
}
