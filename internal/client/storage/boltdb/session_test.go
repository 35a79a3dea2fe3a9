package boltdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scanvocab/scanvocab/internal/client/storage"
	"github.com/scanvocab/scanvocab/internal/models"
)

func TestSession_GetNotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetSession(context.Background())
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestSession_SaveGetDelete(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	want := &storage.Session{
		ExpiresAt:    time.Now().Add(24 * time.Hour).UTC().Truncate(time.Millisecond),
		UserID:       "user-1",
		Username:     "alice",
		AccessToken:  "token",
		Subscription: models.StatusActive,
	}
	require.NoError(t, store.SaveSession(ctx, want))

	got, err := store.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.UserID, got.UserID)
	assert.Equal(t, want.Username, got.Username)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.Equal(t, want.Subscription, got.Subscription)
	assert.True(t, want.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, store.DeleteSession(ctx))
	_, err = store.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestSession_SaveNil(t *testing.T) {
	store := newTestStorage(t)
	assert.Error(t, store.SaveSession(context.Background(), nil))
}

func TestSession_Valid(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		session storage.Session
		valid   bool
	}{
		{"valid token", storage.Session{AccessToken: "t", ExpiresAt: now.Add(time.Hour)}, true},
		{"expired", storage.Session{AccessToken: "t", ExpiresAt: now.Add(-time.Hour)}, false},
		{"no token", storage.Session{ExpiresAt: now.Add(time.Hour)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.session.Valid(now))
		})
	}
}
