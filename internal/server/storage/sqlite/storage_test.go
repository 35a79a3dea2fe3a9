package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/scanvocab/scanvocab/internal/models"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	store, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	return store
}

func createTestUser(t *testing.T, store *Storage) *models.User {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	user := &models.User{
		ID:           uuid.New().String(),
		Username:     "user_" + uuid.New().String()[:8],
		PasswordHash: "$2a$10$fakehash",
		Subscription: models.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}
