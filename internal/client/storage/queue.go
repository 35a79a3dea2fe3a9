package storage

import (
	"context"

	"github.com/scanvocab/scanvocab/internal/models"
)

// QueueStorage is the durable buffer for mutations that have not yet
// reached the remote store. Entries are appended by the write path and
// removed by the orchestrator's drain path only; nothing else touches
// the queue.
type QueueStorage interface {
	// Enqueue appends an entry. The entry is durable once Enqueue
	// returns: it must survive a process restart.
	Enqueue(ctx context.Context, entry models.QueueEntry) error

	// PeekAll returns every pending entry in insertion order without
	// removing any.
	PeekAll(ctx context.Context) ([]models.QueueEntry, error)

	// Remove deletes one entry by id. Called only after the remote
	// store confirmed the apply, or when the apply was rejected
	// outright. Removing an unknown id is a no-op.
	Remove(ctx context.Context, entryID string) error

	// Len returns the number of pending entries.
	Len(ctx context.Context) (int, error)
}
