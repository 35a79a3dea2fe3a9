package storage

import (
	"context"

	"github.com/scanvocab/scanvocab/internal/models"
)

// ProgressStorage persists progress records per user. Every upsert
// merges the incoming record with the stored one, so replays and
// out-of-order deliveries from clients cannot regress a record.
type ProgressStorage interface {
	// ReadCounters returns counter records for dates in [from, to],
	// ordered by date. Empty bounds are unbounded.
	ReadCounters(ctx context.Context, userID, from, to string) ([]models.CounterRecord, error)

	// UpsertCounter merges the record into the stored one for its date.
	UpsertCounter(ctx context.Context, userID string, rec models.CounterRecord) error

	// ReadActivity returns activity records for dates in [from, to],
	// ordered by date.
	ReadActivity(ctx context.Context, userID, from, to string) ([]models.ActivityRecord, error)

	// UpsertActivity merges the record into the stored one for its date.
	UpsertActivity(ctx context.Context, userID string, rec models.ActivityRecord) error

	// ReadStreak returns the user's streak record.
	// Returns ErrStreakNotFound if the user has none.
	ReadStreak(ctx context.Context, userID string) (models.StreakRecord, error)

	// UpsertStreak merges the record into the stored one.
	UpsertStreak(ctx context.Context, userID string, rec models.StreakRecord) error

	// ReadWrongAnswers returns all wrong answers, ordered by word id.
	ReadWrongAnswers(ctx context.Context, userID string) ([]models.WrongAnswerRecord, error)

	// UpsertWrongAnswer merges the record into the stored one for its
	// word id.
	UpsertWrongAnswer(ctx context.Context, userID string, rec models.WrongAnswerRecord) error

	// DeleteWrongAnswer removes one record; a no-op when absent.
	DeleteWrongAnswer(ctx context.Context, userID, wordID string) error

	// ClearWrongAnswers removes every wrong answer for the user.
	ClearWrongAnswers(ctx context.Context, userID string) error
}
