package models

import (
	"encoding/json"
	"time"
)

// QueueKind tags the operation a queue entry carries.
type QueueKind string

// Queue operation kinds. Every kind is an idempotent upsert or delete,
// so replaying an entry after a crash is always safe.
const (
	KindUpsertCounter     QueueKind = "upsert-counter"
	KindUpsertActivity    QueueKind = "upsert-activity"
	KindUpsertStreak      QueueKind = "upsert-streak"
	KindUpsertWrongAnswer QueueKind = "upsert-wrong-answer"
	KindDeleteWrongAnswer QueueKind = "delete-wrong-answer"
	KindClearWrongAnswers QueueKind = "clear-wrong-answers"
)

// QueueEntry is one pending mutation destined for the remote store.
// The payload carries the full record so a drain never has to read the
// local store back; entries survive process restarts.
type QueueEntry struct {
	EnqueuedAt time.Time       `json:"enqueued_at"`
	ID         string          `json:"id"`
	Kind       QueueKind       `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
}

// DeleteWrongAnswerPayload is the payload for KindDeleteWrongAnswer.
type DeleteWrongAnswerPayload struct {
	WordID string `json:"word_id"`
}

// SyncCursor records the last completed full sync. The zero value means
// no full sync has ever run for any identity.
type SyncCursor struct {
	LastFullSyncAt time.Time `json:"last_full_sync_at"`
	SyncedUserID   string    `json:"synced_user_id"`
}
