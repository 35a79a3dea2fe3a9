package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scanvocab/scanvocab/internal/client/auth"
	"github.com/scanvocab/scanvocab/internal/client/progress"
	"github.com/scanvocab/scanvocab/internal/client/storage"
	"github.com/scanvocab/scanvocab/internal/client/storage/boltdb"
	"github.com/scanvocab/scanvocab/internal/client/sync"
	"github.com/scanvocab/scanvocab/internal/models"
	pkgapi "github.com/scanvocab/scanvocab/pkg/api"
)

// testIO scripts inputs and captures output.
type testIO struct {
	inputs []string
	out    bytes.Buffer
}

func (t *testIO) Println(a ...any)            { fmt.Fprintln(&t.out, a...) }
func (t *testIO) Printf(f string, a ...any)   { fmt.Fprintf(&t.out, f, a...) }
func (t *testIO) ReadInput(string) (string, error) {
	return t.next()
}
func (t *testIO) ReadPassword(string) (string, error) {
	return t.next()
}
func (t *testIO) next() (string, error) {
	if len(t.inputs) == 0 {
		return "", io.EOF
	}
	in := t.inputs[0]
	t.inputs = t.inputs[1:]
	return in, nil
}

// nullRemote satisfies the remote contract for commands that never
// reach the network.
type nullRemote struct{}

func (nullRemote) Subscription(context.Context) (models.SubscriptionStatus, error) {
	return models.StatusNone, nil
}
func (nullRemote) ReadCounters(context.Context, string, string, string) ([]models.CounterRecord, error) {
	return nil, nil
}
func (nullRemote) UpsertCounter(context.Context, string, models.CounterRecord) error { return nil }
func (nullRemote) ReadActivity(context.Context, string, string, string) ([]models.ActivityRecord, error) {
	return nil, nil
}
func (nullRemote) UpsertActivity(context.Context, string, models.ActivityRecord) error { return nil }
func (nullRemote) ReadStreak(context.Context, string) (models.StreakRecord, error) {
	return models.StreakRecord{}, storage.ErrStreakNotFound
}
func (nullRemote) UpsertStreak(context.Context, string, models.StreakRecord) error { return nil }
func (nullRemote) ReadWrongAnswers(context.Context, string) ([]models.WrongAnswerRecord, error) {
	return nil, nil
}
func (nullRemote) UpsertWrongAnswer(context.Context, string, models.WrongAnswerRecord) error {
	return nil
}
func (nullRemote) DeleteWrongAnswer(context.Context, string, string) error { return nil }
func (nullRemote) ClearWrongAnswers(context.Context, string) error         { return nil }

type nullProbe struct{ err error }

func (p nullProbe) Health(context.Context) error { return p.err }

type fakeAuthAPI struct{}

func (fakeAuthAPI) Register(ctx context.Context, req pkgapi.RegisterRequest) (*pkgapi.RegisterResponse, error) {
	return &pkgapi.RegisterResponse{UserID: "user-1"}, nil
}
func (fakeAuthAPI) Login(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.TokenResponse, error) {
	return &pkgapi.TokenResponse{AccessToken: "jwt", UserID: "user-1", ExpiresIn: 86400}, nil
}
func (fakeAuthAPI) Subscription(ctx context.Context) (models.SubscriptionStatus, error) {
	return models.StatusActive, nil
}

func newTestCli(t *testing.T, inputs ...string) (*Cli, *testIO) {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	syncService := sync.NewService(store, nullRemote{}, store, store, store, logger)
	cache := progress.NewCache(progress.DefaultCacheTTL, time.Now)
	progressService := progress.NewService(store, store, syncService, cache, logger)
	authService := auth.NewService(fakeAuthAPI{}, store, store, progressService, logger)

	tio := &testIO{inputs: inputs}
	return New(tio, authService, progressService, syncService, nullProbe{}, nil), tio
}

func TestRun_UnknownCommand(t *testing.T) {
	c, _ := newTestCli(t)
	err := c.Run(context.Background(), "bogus", nil)
	require.Error(t, err)
}

func TestRun_QuizAndStats(t *testing.T) {
	c, tio := newTestCli(t)
	ctx := context.Background()

	require.NoError(t, c.Run(ctx, "quiz", []string{"-correct"}))
	require.NoError(t, c.Run(ctx, "quiz", []string{"-correct", "-mastered"}))
	require.NoError(t, c.Run(ctx, "quiz", []string{"-word", "w1", "-en", "apple", "-ja", "りんご"}))

	tio.out.Reset()
	require.NoError(t, c.Run(ctx, "stats", nil))
	out := tio.out.String()
	assert.Contains(t, out, "Questions: 3")
	assert.Contains(t, out, "Correct:   2")
	assert.Contains(t, out, "Mastered:  1")
	assert.Contains(t, out, "Streak: 1 day(s)")
}

func TestRun_QuizWrongAnswerNeedsWordID(t *testing.T) {
	c, _ := newTestCli(t)
	err := c.Run(context.Background(), "quiz", nil)
	require.Error(t, err)
}

func TestRun_ReviewLifecycle(t *testing.T) {
	c, tio := newTestCli(t)
	ctx := context.Background()

	require.NoError(t, c.Run(ctx, "quiz", []string{"-word", "w1", "-en", "apple", "-ja", "りんご"}))
	require.NoError(t, c.Run(ctx, "quiz", []string{"-word", "w2", "-en", "dog", "-ja", "いぬ"}))

	tio.out.Reset()
	require.NoError(t, c.Run(ctx, "review", nil))
	out := tio.out.String()
	assert.Contains(t, out, "2 word(s) to review")
	assert.Contains(t, out, "apple")

	require.NoError(t, c.Run(ctx, "review", []string{"-resolve", "w1"}))

	tio.out.Reset()
	require.NoError(t, c.Run(ctx, "review", nil))
	assert.Contains(t, tio.out.String(), "1 word(s) to review")
	assert.NotContains(t, tio.out.String(), "apple")

	require.NoError(t, c.Run(ctx, "review", []string{"-clear"}))
	tio.out.Reset()
	require.NoError(t, c.Run(ctx, "review", nil))
	assert.Contains(t, tio.out.String(), "Nothing to review")
}

func TestRun_StatusOffline(t *testing.T) {
	c, tio := newTestCli(t)
	require.NoError(t, c.Run(context.Background(), "status", nil))
	out := tio.out.String()
	assert.Contains(t, out, "not logged in")
	assert.Contains(t, out, "local only")
	assert.Contains(t, out, "offline")
}

func TestRun_RegisterPasswordMismatch(t *testing.T) {
	c, _ := newTestCli(t, "alice", "password123", "password456")
	err := c.Run(context.Background(), "register", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "do not match")
}

func TestRun_RegisterAndLogin(t *testing.T) {
	c, tio := newTestCli(t, "alice", "password123", "password123")
	ctx := context.Background()

	require.NoError(t, c.Run(ctx, "register", nil))
	assert.Contains(t, tio.out.String(), "Registered alice")

	c2, tio2 := newTestCli(t, "alice", "password123")
	require.NoError(t, c2.Run(ctx, "login", nil))
	assert.Contains(t, tio2.out.String(), "Logged in as alice")
	assert.Contains(t, tio2.out.String(), "Subscription active")
}

func TestRun_SyncWithoutEntitlement(t *testing.T) {
	c, tio := newTestCli(t)
	require.NoError(t, c.Run(context.Background(), "sync", nil))
	assert.Contains(t, tio.out.String(), "active subscription")
}

func TestPrintUsage_ListsEveryCommand(t *testing.T) {
	var tio testIO
	printUsage(&tio)

	out := tio.out.String()
	for _, command := range []string{
		"register", "login", "logout", "status",
		"quiz", "review", "stats", "sync", "watch",
	} {
		assert.Contains(t, out, "  "+command, command)
	}

	// The help command and the package-level entrypoint share the
	// same body.
	c, tio2 := newTestCli(t)
	require.NoError(t, c.Run(context.Background(), "help", nil))
	assert.Equal(t, out, tio2.out.String())
}
