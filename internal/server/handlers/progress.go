package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/scanvocab/scanvocab/internal/models"
	"github.com/scanvocab/scanvocab/internal/server/storage"
	"github.com/scanvocab/scanvocab/internal/validation"
	"github.com/scanvocab/scanvocab/pkg/api"
)

// ProgressHandler serves the authenticated progress endpoints. Writes
// merge into the stored records, so any client replay is harmless.
type ProgressHandler struct {
	logger   *slog.Logger
	progress storage.ProgressStorage
}

// NewProgressHandler creates the progress handler.
func NewProgressHandler(logger *slog.Logger, progress storage.ProgressStorage) *ProgressHandler {
	return &ProgressHandler{logger: logger, progress: progress}
}

// GetCounters handles GET /api/v1/progress/counters.
func (h *ProgressHandler) GetCounters(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r)
	if !ok {
		sendError(w, h.logger, "unauthorized", http.StatusUnauthorized)
		return
	}
	from, to, err := dateRange(r)
	if err != nil {
		sendError(w, h.logger, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := h.progress.ReadCounters(r.Context(), userID, from, to)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to read counters", "error", err)
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}
	sendJSON(w, h.logger, api.CountersResponse{Counters: records}, http.StatusOK)
}

// PutCounter handles PUT /api/v1/progress/counters.
func (h *ProgressHandler) PutCounter(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r)
	if !ok {
		sendError(w, h.logger, "unauthorized", http.StatusUnauthorized)
		return
	}

	var rec models.CounterRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		sendError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateDateKey(rec.Date); err != nil {
		sendError(w, h.logger, err.Error(), http.StatusBadRequest)
		return
	}
	if rec.QuizCount < 0 || rec.CorrectCount < 0 || rec.MasteredCount < 0 {
		sendError(w, h.logger, "counts must be non-negative", http.StatusBadRequest)
		return
	}

	if err := h.progress.UpsertCounter(r.Context(), userID, rec); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to upsert counter", "error", err)
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetActivity handles GET /api/v1/progress/activity.
func (h *ProgressHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r)
	if !ok {
		sendError(w, h.logger, "unauthorized", http.StatusUnauthorized)
		return
	}
	from, to, err := dateRange(r)
	if err != nil {
		sendError(w, h.logger, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := h.progress.ReadActivity(r.Context(), userID, from, to)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to read activity", "error", err)
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}
	sendJSON(w, h.logger, api.ActivityResponse{Activity: records}, http.StatusOK)
}

// PutActivity handles PUT /api/v1/progress/activity.
func (h *ProgressHandler) PutActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r)
	if !ok {
		sendError(w, h.logger, "unauthorized", http.StatusUnauthorized)
		return
	}

	var rec models.ActivityRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		sendError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateDateKey(rec.Date); err != nil {
		sendError(w, h.logger, err.Error(), http.StatusBadRequest)
		return
	}
	if rec.QuizCount < 0 || rec.CorrectCount < 0 {
		sendError(w, h.logger, "counts must be non-negative", http.StatusBadRequest)
		return
	}

	if err := h.progress.UpsertActivity(r.Context(), userID, rec); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to upsert activity", "error", err)
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetStreak handles GET /api/v1/progress/streak.
func (h *ProgressHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r)
	if !ok {
		sendError(w, h.logger, "unauthorized", http.StatusUnauthorized)
		return
	}

	streak, err := h.progress.ReadStreak(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrStreakNotFound) {
			sendJSON(w, h.logger, api.StreakResponse{Found: false}, http.StatusOK)
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to read streak", "error", err)
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}
	sendJSON(w, h.logger, api.StreakResponse{Streak: streak, Found: true}, http.StatusOK)
}

// PutStreak handles PUT /api/v1/progress/streak.
func (h *ProgressHandler) PutStreak(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r)
	if !ok {
		sendError(w, h.logger, "unauthorized", http.StatusUnauthorized)
		return
	}

	var rec models.StreakRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		sendError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateDateKey(rec.LastActivityDate); err != nil {
		sendError(w, h.logger, err.Error(), http.StatusBadRequest)
		return
	}
	if rec.StreakCount < 0 {
		sendError(w, h.logger, "streak count must be non-negative", http.StatusBadRequest)
		return
	}

	if err := h.progress.UpsertStreak(r.Context(), userID, rec); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to upsert streak", "error", err)
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetWrongAnswers handles GET /api/v1/progress/wrong-answers.
func (h *ProgressHandler) GetWrongAnswers(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r)
	if !ok {
		sendError(w, h.logger, "unauthorized", http.StatusUnauthorized)
		return
	}

	records, err := h.progress.ReadWrongAnswers(r.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to read wrong answers", "error", err)
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}
	sendJSON(w, h.logger, api.WrongAnswersResponse{WrongAnswers: records}, http.StatusOK)
}

// PutWrongAnswer handles PUT /api/v1/progress/wrong-answers.
func (h *ProgressHandler) PutWrongAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r)
	if !ok {
		sendError(w, h.logger, "unauthorized", http.StatusUnauthorized)
		return
	}

	var rec models.WrongAnswerRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		sendError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}
	if rec.WordID == "" {
		sendError(w, h.logger, "word_id is required", http.StatusBadRequest)
		return
	}
	if rec.WrongCount < 0 || rec.LastWrongAt < 0 {
		sendError(w, h.logger, "counts must be non-negative", http.StatusBadRequest)
		return
	}

	if err := h.progress.UpsertWrongAnswer(r.Context(), userID, rec); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to upsert wrong answer", "error", err)
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteWrongAnswer handles DELETE /api/v1/progress/wrong-answers/{wordID}.
func (h *ProgressHandler) DeleteWrongAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r)
	if !ok {
		sendError(w, h.logger, "unauthorized", http.StatusUnauthorized)
		return
	}
	wordID := r.PathValue("wordID")
	if wordID == "" {
		sendError(w, h.logger, "word id is required", http.StatusBadRequest)
		return
	}

	if err := h.progress.DeleteWrongAnswer(r.Context(), userID, wordID); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to delete wrong answer", "error", err)
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearWrongAnswers handles DELETE /api/v1/progress/wrong-answers.
func (h *ProgressHandler) ClearWrongAnswers(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r)
	if !ok {
		sendError(w, h.logger, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.progress.ClearWrongAnswers(r.Context(), userID); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to clear wrong answers", "error", err)
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// dateRange extracts and validates the optional from/to query bounds.
func dateRange(r *http.Request) (from, to string, err error) {
	q := r.URL.Query()
	from = q.Get("from")
	to = q.Get("to")
	if from != "" {
		if err := validation.ValidateDateKey(from); err != nil {
			return "", "", err
		}
	}
	if to != "" {
		if err := validation.ValidateDateKey(to); err != nil {
			return "", "", err
		}
	}
	return from, to, nil
}
