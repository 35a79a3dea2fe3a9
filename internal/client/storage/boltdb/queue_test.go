package boltdb

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scanvocab/scanvocab/internal/models"
)

func queueEntry(id string, kind models.QueueKind) models.QueueEntry {
	return models.QueueEntry{
		ID:         id,
		Kind:       kind,
		Payload:    json.RawMessage(`{}`),
		EnqueuedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestQueue_FIFOOrder(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	ids := []string{"e1", "e2", "e3"}
	for _, id := range ids {
		require.NoError(t, store.Enqueue(ctx, queueEntry(id, models.KindUpsertCounter)))
	}

	entries, err := store.PeekAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, id := range ids {
		assert.Equal(t, id, entries[i].ID)
	}
}

func TestQueue_PeekDoesNotRemove(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Enqueue(ctx, queueEntry("e1", models.KindUpsertStreak)))

	for i := 0; i < 3; i++ {
		entries, err := store.PeekAll(ctx)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	}
}

func TestQueue_Remove(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Enqueue(ctx, queueEntry("e1", models.KindUpsertCounter)))
	require.NoError(t, store.Enqueue(ctx, queueEntry("e2", models.KindUpsertCounter)))

	require.NoError(t, store.Remove(ctx, "e1"))

	entries, err := store.PeekAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "e2", entries[0].ID)

	// Removing an unknown id is a no-op.
	require.NoError(t, store.Remove(ctx, "missing"))

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestQueue_SurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "queue.db")
	ctx := context.Background()

	store, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Enqueue(ctx, queueEntry("e1", models.KindUpsertWrongAnswer)))
	require.NoError(t, store.Close())

	// A restart must see the entry: durability is the queue's whole job.
	store, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	entries, err := store.PeekAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "e1", entries[0].ID)
	assert.Equal(t, models.KindUpsertWrongAnswer, entries[0].Kind)
}

func TestQueue_OrderSurvivesRemoveAndAppend(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Enqueue(ctx, queueEntry("e1", models.KindUpsertCounter)))
	require.NoError(t, store.Enqueue(ctx, queueEntry("e2", models.KindUpsertCounter)))
	require.NoError(t, store.Remove(ctx, "e1"))
	require.NoError(t, store.Enqueue(ctx, queueEntry("e3", models.KindUpsertCounter)))

	entries, err := store.PeekAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "e2", entries[0].ID)
	assert.Equal(t, "e3", entries[1].ID)
}
