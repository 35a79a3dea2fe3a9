package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scanvocab/scanvocab/internal/client/storage"
	"github.com/scanvocab/scanvocab/internal/client/storage/boltdb"
	"github.com/scanvocab/scanvocab/internal/models"
	pkgapi "github.com/scanvocab/scanvocab/pkg/api"
)

type fakeAPI struct {
	registerResp *pkgapi.RegisterResponse
	registerErr  error
	loginResp    *pkgapi.TokenResponse
	loginErr     error
	subscription models.SubscriptionStatus
	subErr       error
}

func (f *fakeAPI) Register(ctx context.Context, req pkgapi.RegisterRequest) (*pkgapi.RegisterResponse, error) {
	return f.registerResp, f.registerErr
}

func (f *fakeAPI) Login(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.TokenResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAPI) Subscription(ctx context.Context) (models.SubscriptionStatus, error) {
	return f.subscription, f.subErr
}

type fakeAdopter struct {
	calls [][2]string
	err   error
}

func (f *fakeAdopter) AdoptLocalProgress(ctx context.Context, from, to string) error {
	f.calls = append(f.calls, [2]string{from, to})
	return f.err
}

func newTestService(t *testing.T) (*Service, *boltdb.Storage, *fakeAPI, *fakeAdopter) {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	api := &fakeAPI{
		registerResp: &pkgapi.RegisterResponse{UserID: "user-1"},
		loginResp:    &pkgapi.TokenResponse{AccessToken: "jwt", UserID: "user-1", ExpiresIn: 86400},
		subscription: models.StatusActive,
	}
	adopter := &fakeAdopter{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewService(api, store, store, adopter, logger), store, api, adopter
}

func TestRegister(t *testing.T) {
	service, _, api, _ := newTestService(t)
	ctx := context.Background()

	userID, err := service.Register(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	// Validation failures never reach the server.
	_, err = service.Register(ctx, "a", "password123")
	require.Error(t, err)
	_, err = service.Register(ctx, "alice", "short")
	require.Error(t, err)

	api.registerErr = errors.New("boom")
	_, err = service.Register(ctx, "alice", "password123")
	require.Error(t, err)
}

func TestLogin_StoresSessionWithSubscription(t *testing.T) {
	service, store, _, adopter := newTestService(t)
	ctx := context.Background()

	session, err := service.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, models.StatusActive, session.Subscription)

	stored, err := store.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jwt", stored.AccessToken)
	assert.Equal(t, models.StatusActive, stored.Subscription)
	assert.True(t, stored.Valid(time.Now()))

	// Device progress was adopted into the account.
	deviceID, err := store.DeviceID(ctx)
	require.NoError(t, err)
	require.Len(t, adopter.calls, 1)
	assert.Equal(t, deviceID, adopter.calls[0][0])
	assert.Equal(t, "user-1", adopter.calls[0][1])
}

func TestLogin_SubscriptionFailureKeepsSession(t *testing.T) {
	service, store, api, _ := newTestService(t)
	api.subErr = errors.New("unreachable")
	ctx := context.Background()

	session, err := service.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, models.StatusNone, session.Subscription)

	stored, err := store.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNone, stored.Subscription)
}

func TestLogin_IdentityChangeResetsCursor(t *testing.T) {
	service, store, _, _ := newTestService(t)
	ctx := context.Background()

	// A previous user's cursor is stored.
	require.NoError(t, store.SaveSyncCursor(ctx, models.SyncCursor{
		SyncedUserID:   "user-2",
		LastFullSyncAt: time.Now(),
	}))

	_, err := service.Login(ctx, "alice", "password123")
	require.NoError(t, err)

	cursor, err := store.GetSyncCursor(ctx)
	require.NoError(t, err)
	assert.Empty(t, cursor.SyncedUserID)
	assert.True(t, cursor.LastFullSyncAt.IsZero())
}

func TestLogin_SameIdentityKeepsCursor(t *testing.T) {
	service, store, _, _ := newTestService(t)
	ctx := context.Background()

	at := time.Now().Truncate(time.Second)
	require.NoError(t, store.SaveSyncCursor(ctx, models.SyncCursor{
		SyncedUserID:   "user-1",
		LastFullSyncAt: at,
	}))

	_, err := service.Login(ctx, "alice", "password123")
	require.NoError(t, err)

	cursor, err := store.GetSyncCursor(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", cursor.SyncedUserID)
}

func TestLogout(t *testing.T) {
	service, store, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.Login(ctx, "alice", "password123")
	require.NoError(t, err)

	ok, err := service.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, service.Logout(ctx))

	ok, err = service.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestIsAuthenticated_ExpiredSession(t *testing.T) {
	service, store, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, &storage.Session{
		ExpiresAt:   time.Now().Add(-time.Hour),
		UserID:      "user-1",
		Username:    "alice",
		AccessToken: "jwt",
	}))

	ok, err := service.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
