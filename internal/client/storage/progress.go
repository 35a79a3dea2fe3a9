package storage

import (
	"context"

	"github.com/scanvocab/scanvocab/internal/models"
)

// ProgressStore is the contract shared by the device-local store and
// the remote store adapter. The sync orchestrator picks which
// implementation an operation goes to; everything above it is store
// agnostic.
//
// All upserts are idempotent: applying the same record twice is a
// no-op beyond the first.
type ProgressStore interface {
	// ReadCounters returns the per-day counters for dates in
	// [from, to] inclusive, ordered by date. Empty from/to means
	// unbounded on that side.
	ReadCounters(ctx context.Context, userID, from, to string) ([]models.CounterRecord, error)

	// UpsertCounter stores or replaces the counter record for its date.
	UpsertCounter(ctx context.Context, userID string, rec models.CounterRecord) error

	// ReadActivity returns per-day activity records for dates in
	// [from, to] inclusive, ordered by date.
	ReadActivity(ctx context.Context, userID, from, to string) ([]models.ActivityRecord, error)

	// UpsertActivity stores or replaces the activity record for its date.
	UpsertActivity(ctx context.Context, userID string, rec models.ActivityRecord) error

	// ReadStreak returns the user's streak record.
	// Returns ErrStreakNotFound if no streak has been recorded.
	ReadStreak(ctx context.Context, userID string) (models.StreakRecord, error)

	// UpsertStreak stores or replaces the streak record.
	UpsertStreak(ctx context.Context, userID string, rec models.StreakRecord) error

	// ReadWrongAnswers returns all tracked wrong answers.
	ReadWrongAnswers(ctx context.Context, userID string) ([]models.WrongAnswerRecord, error)

	// UpsertWrongAnswer stores or replaces one wrong-answer record.
	UpsertWrongAnswer(ctx context.Context, userID string, rec models.WrongAnswerRecord) error

	// DeleteWrongAnswer removes one wrong-answer record. Deleting an
	// absent record is a no-op.
	DeleteWrongAnswer(ctx context.Context, userID, wordID string) error

	// ClearWrongAnswers removes every wrong-answer record.
	ClearWrongAnswers(ctx context.Context, userID string) error
}
