package boltdb

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scanvocab/scanvocab/internal/models"
)

func TestSyncCursor_ZeroWhenUnset(t *testing.T) {
	store := newTestStorage(t)

	cursor, err := store.GetSyncCursor(context.Background())
	require.NoError(t, err)
	assert.True(t, cursor.LastFullSyncAt.IsZero())
	assert.Empty(t, cursor.SyncedUserID)
}

func TestSyncCursor_SaveGetReset(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	want := models.SyncCursor{
		LastFullSyncAt: time.Now().UTC().Truncate(time.Millisecond),
		SyncedUserID:   "user-1",
	}
	require.NoError(t, store.SaveSyncCursor(ctx, want))

	got, err := store.GetSyncCursor(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.SyncedUserID, got.SyncedUserID)
	assert.True(t, want.LastFullSyncAt.Equal(got.LastFullSyncAt))

	require.NoError(t, store.ResetSyncCursor(ctx))

	got, err = store.GetSyncCursor(ctx)
	require.NoError(t, err)
	assert.True(t, got.LastFullSyncAt.IsZero())
	assert.Empty(t, got.SyncedUserID)
}

func TestDeviceID_GeneratedOnceAndPersisted(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "meta.db")
	ctx := context.Background()

	store, err := New(ctx, dbPath)
	require.NoError(t, err)

	id1, err := store.DeviceID(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id1, "device:"))

	id2, err := store.DeviceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	require.NoError(t, store.Close())

	// Reopen: same device identity.
	store, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	id3, err := store.DeviceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, id1, id3)
}
