// Package sync holds the orchestrator that keeps the device-local
// store and the remote progress service eventually consistent: it
// routes operations by entitlement, drains the durable queue when
// connectivity allows, and reconciles pulled snapshots through the
// merge engine.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	apiclient "github.com/scanvocab/scanvocab/internal/client/api"
	"github.com/scanvocab/scanvocab/internal/client/storage"
	"github.com/scanvocab/scanvocab/internal/merge"
	"github.com/scanvocab/scanvocab/internal/models"
)

const (
	// FullSyncInterval is the minimum time between bootstrap full
	// syncs for an unchanged identity.
	FullSyncInterval = time.Hour

	// DrainInterval is the periodic drain/pull cadence while entitled
	// and online.
	DrainInterval = 5 * time.Minute

	// StartupDelay is how long after orchestrator start the one-time
	// initial cycle fires.
	StartupDelay = 10 * time.Second

	// kickTimeout bounds the background cycle kicked off by a write.
	kickTimeout = 30 * time.Second
)

// Status is the user-visible sync state.
type Status string

const (
	StatusOffline Status = "offline"
	StatusSyncing Status = "syncing"
	StatusPending Status = "pending" // queued changes waiting for a drain
	StatusSynced  Status = "synced"
)

// State pairs the status with the pending-change count shown to the user.
type State struct {
	Status  Status
	Pending int
}

// Entitlement is the capability switch between local-only and
// dual-store operation. It is re-derived from the stored session at
// every orchestrator decision point, never cached in the service.
type Entitlement int

const (
	NotEntitled Entitlement = iota
	Entitled
)

// RemoteStore is the remote side of the dual-store model: the shared
// progress contract plus the entitlement signal.
type RemoteStore interface {
	storage.ProgressStore

	// Subscription returns the current entitlement signal.
	Subscription(ctx context.Context) (models.SubscriptionStatus, error)
}

// Service is the sync orchestrator. At most one drain/pull cycle runs
// at a time; triggers that fire while a cycle is in flight are
// coalesced into no-ops.
type Service struct {
	now     func() time.Time
	local   storage.ProgressStore
	remote  RemoteStore
	queue   storage.QueueStorage
	meta    storage.MetadataStorage
	session storage.SessionStorage
	logger  *slog.Logger

	online  atomic.Bool
	syncing atomic.Bool
}

// NewService creates the orchestrator. The service starts offline;
// connectivity is reported via SetOnline.
func NewService(
	local storage.ProgressStore,
	remote RemoteStore,
	queue storage.QueueStorage,
	meta storage.MetadataStorage,
	session storage.SessionStorage,
	logger *slog.Logger,
) *Service {
	return &Service{
		local:   local,
		remote:  remote,
		queue:   queue,
		meta:    meta,
		session: session,
		logger:  logger,
		now:     time.Now,
	}
}

// CycleResult summarizes one drain/pull cycle.
type CycleResult struct {
	Applied     int // queue entries confirmed by the remote store
	Dropped     int // queue entries rejected and removed
	PulledBack  int // records written back locally after merge
	RanFullSync bool
}

// Entitlement re-reads the stored session and returns the current
// capability. Missing or expired sessions and non-active subscriptions
// all mean local-only operation.
func (s *Service) Entitlement(ctx context.Context) Entitlement {
	session, err := s.session.GetSession(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrSessionNotFound) {
			s.logger.Warn("failed to read session, assuming not entitled", "error", err)
		}
		return NotEntitled
	}
	if !session.Valid(s.now()) {
		return NotEntitled
	}
	if !session.Subscription.Entitled() {
		return NotEntitled
	}
	return Entitled
}

// UserID returns the identity local records are keyed by: the session
// user once authenticated, the persistent device id before that.
func (s *Service) UserID(ctx context.Context) (string, error) {
	session, err := s.session.GetSession(ctx)
	if err == nil {
		return session.UserID, nil
	}
	if !errors.Is(err, storage.ErrSessionNotFound) {
		return "", fmt.Errorf("failed to read session: %w", err)
	}
	return s.meta.DeviceID(ctx)
}

// Online reports the last known connectivity state.
func (s *Service) Online() bool {
	return s.online.Load()
}

// SetOnline records a connectivity change and reports an offline to
// online transition, so callers can trigger the reconnect drain.
func (s *Service) SetOnline(online bool) bool {
	was := s.online.Swap(online)
	transitioned := !was && online
	if transitioned {
		s.logger.Info("connectivity restored")
	}
	return transitioned
}

// Kick starts a background cycle, best-effort. Writes call this so
// the queue drains soon without blocking the caller.
func (s *Service) Kick() {
	if !s.online.Load() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), kickTimeout)
		defer cancel()
		if _, err := s.RunCycle(ctx); err != nil {
			s.logger.Warn("background sync cycle failed", "error", err)
		}
	}()
}

// RunCycle performs one full decision cycle: refresh the entitlement
// signal, run the bootstrap full sync if due, drain the queue, pull
// and merge. Concurrent calls coalesce: if a cycle is already in
// flight the call returns immediately with an empty result.
func (s *Service) RunCycle(ctx context.Context) (CycleResult, error) {
	var result CycleResult

	if !s.syncing.CompareAndSwap(false, true) {
		return result, nil
	}
	defer s.syncing.Store(false)

	if !s.online.Load() {
		return result, nil
	}
	if s.Entitlement(ctx) != Entitled {
		return result, nil
	}

	// Refresh the entitlement signal while the server is reachable;
	// losing entitlement stops remote calls within this cycle.
	if !s.refreshSubscription(ctx) {
		return result, nil
	}

	session, err := s.session.GetSession(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to read session: %w", err)
	}
	userID := session.UserID

	cursor, err := s.meta.GetSyncCursor(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to read sync cursor: %w", err)
	}

	if ShouldRunFullSync(cursor, userID, s.now()) {
		if err := s.fullSync(ctx, userID); err != nil {
			return result, fmt.Errorf("full sync failed: %w", err)
		}
		result.RanFullSync = true
	}

	applied, dropped, err := s.drain(ctx, userID)
	result.Applied = applied
	result.Dropped = dropped
	if err != nil {
		return result, err
	}

	pulled, err := s.pull(ctx, userID)
	result.PulledBack = pulled
	if err != nil {
		return result, err
	}

	s.logger.Info("sync cycle completed",
		"applied", result.Applied,
		"dropped", result.Dropped,
		"pulled_back", result.PulledBack,
		"full_sync", result.RanFullSync)

	return result, nil
}

// refreshSubscription updates the cached subscription status from the
// server. Returns false when the user is no longer entitled. A
// transient failure keeps the cached status.
func (s *Service) refreshSubscription(ctx context.Context) bool {
	status, err := s.remote.Subscription(ctx)
	if err != nil {
		if errors.Is(err, apiclient.ErrRejected) {
			s.logger.Warn("subscription check rejected, treating as not entitled", "error", err)
			s.updateCachedSubscription(ctx, models.StatusNone)
			return false
		}
		s.logger.Debug("subscription check failed, using cached status", "error", err)
		return s.Entitlement(ctx) == Entitled
	}

	s.updateCachedSubscription(ctx, status)
	return status.Entitled()
}

func (s *Service) updateCachedSubscription(ctx context.Context, status models.SubscriptionStatus) {
	session, err := s.session.GetSession(ctx)
	if err != nil {
		return
	}
	if session.Subscription == status {
		return
	}
	session.Subscription = status
	if err := s.session.SaveSession(ctx, session); err != nil {
		s.logger.Warn("failed to persist subscription status", "error", err)
	}
}

// drain applies pending queue entries to the remote store in FIFO
// order. A transient failure stops the pass (order is preserved and
// the entry retried on the next trigger); a rejection drops the entry
// with a warning, the one case where a write is knowingly lost.
func (s *Service) drain(ctx context.Context, userID string) (applied, dropped int, err error) {
	entries, err := s.queue.PeekAll(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read sync queue: %w", err)
	}

	for _, entry := range entries {
		if err := s.applyEntry(ctx, userID, entry); err != nil {
			if errors.Is(err, apiclient.ErrRejected) {
				s.logger.Warn("dropping rejected queue entry",
					"entry_id", entry.ID,
					"kind", entry.Kind,
					"error", err)
				if rmErr := s.queue.Remove(ctx, entry.ID); rmErr != nil {
					return applied, dropped, fmt.Errorf("failed to remove rejected entry: %w", rmErr)
				}
				dropped++
				continue
			}
			// Transient: leave the entry queued, stop this pass.
			s.logger.Debug("queue entry apply failed, will retry",
				"entry_id", entry.ID,
				"kind", entry.Kind,
				"error", err)
			return applied, dropped, nil
		}

		if err := s.queue.Remove(ctx, entry.ID); err != nil {
			return applied, dropped, fmt.Errorf("failed to remove applied entry: %w", err)
		}
		applied++
	}

	return applied, dropped, nil
}

// applyEntry applies one queue entry against the remote store. Every
// kind is an idempotent upsert or delete, so replaying after a crash
// between apply and remove is safe.
func (s *Service) applyEntry(ctx context.Context, userID string, entry models.QueueEntry) error {
	switch entry.Kind {
	case models.KindUpsertCounter:
		var rec models.CounterRecord
		if err := json.Unmarshal(entry.Payload, &rec); err != nil {
			return fmt.Errorf("%w: bad counter payload: %v", apiclient.ErrRejected, err)
		}
		return s.remote.UpsertCounter(ctx, userID, rec)

	case models.KindUpsertActivity:
		var rec models.ActivityRecord
		if err := json.Unmarshal(entry.Payload, &rec); err != nil {
			return fmt.Errorf("%w: bad activity payload: %v", apiclient.ErrRejected, err)
		}
		return s.remote.UpsertActivity(ctx, userID, rec)

	case models.KindUpsertStreak:
		var rec models.StreakRecord
		if err := json.Unmarshal(entry.Payload, &rec); err != nil {
			return fmt.Errorf("%w: bad streak payload: %v", apiclient.ErrRejected, err)
		}
		return s.remote.UpsertStreak(ctx, userID, rec)

	case models.KindUpsertWrongAnswer:
		var rec models.WrongAnswerRecord
		if err := json.Unmarshal(entry.Payload, &rec); err != nil {
			return fmt.Errorf("%w: bad wrong-answer payload: %v", apiclient.ErrRejected, err)
		}
		return s.remote.UpsertWrongAnswer(ctx, userID, rec)

	case models.KindDeleteWrongAnswer:
		var payload models.DeleteWrongAnswerPayload
		if err := json.Unmarshal(entry.Payload, &payload); err != nil {
			return fmt.Errorf("%w: bad delete payload: %v", apiclient.ErrRejected, err)
		}
		return s.remote.DeleteWrongAnswer(ctx, userID, payload.WordID)

	case models.KindClearWrongAnswers:
		return s.remote.ClearWrongAnswers(ctx, userID)

	default:
		return fmt.Errorf("%w: unknown queue kind %q", apiclient.ErrRejected, entry.Kind)
	}
}

// pull reads the remote snapshots, merges them against local state and
// writes back only the records that changed. All remote reads happen
// before any local write, so a failed pull leaves the local store
// untouched.
func (s *Service) pull(ctx context.Context, userID string) (written int, err error) {
	remoteCounters, err := s.remote.ReadCounters(ctx, userID, "", "")
	if err != nil {
		return 0, fmt.Errorf("pull counters failed: %w", err)
	}
	remoteActivity, err := s.remote.ReadActivity(ctx, userID, "", "")
	if err != nil {
		return 0, fmt.Errorf("pull activity failed: %w", err)
	}
	remoteWrong, err := s.remote.ReadWrongAnswers(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("pull wrong answers failed: %w", err)
	}
	remoteStreak, err := s.remote.ReadStreak(ctx, userID)
	if err != nil && !errors.Is(err, storage.ErrStreakNotFound) {
		return 0, fmt.Errorf("pull streak failed: %w", err)
	}

	localCounters, err := s.local.ReadCounters(ctx, userID, "", "")
	if err != nil {
		return 0, fmt.Errorf("read local counters failed: %w", err)
	}
	localActivity, err := s.local.ReadActivity(ctx, userID, "", "")
	if err != nil {
		return 0, fmt.Errorf("read local activity failed: %w", err)
	}
	localWrong, err := s.local.ReadWrongAnswers(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("read local wrong answers failed: %w", err)
	}
	localStreak, err := s.local.ReadStreak(ctx, userID)
	if err != nil && !errors.Is(err, storage.ErrStreakNotFound) {
		return 0, fmt.Errorf("read local streak failed: %w", err)
	}

	_, changedCounters := merge.Counters(localCounters, remoteCounters)
	for _, rec := range changedCounters {
		if err := s.local.UpsertCounter(ctx, userID, rec); err != nil {
			return written, fmt.Errorf("write back counter failed: %w", err)
		}
		written++
	}

	_, changedActivity := merge.Activity(localActivity, remoteActivity)
	for _, rec := range changedActivity {
		if err := s.local.UpsertActivity(ctx, userID, rec); err != nil {
			return written, fmt.Errorf("write back activity failed: %w", err)
		}
		written++
	}

	_, changedWrong := merge.WrongAnswers(localWrong, remoteWrong)
	for _, rec := range changedWrong {
		if err := s.local.UpsertWrongAnswer(ctx, userID, rec); err != nil {
			return written, fmt.Errorf("write back wrong answer failed: %w", err)
		}
		written++
	}

	if mergedStreak, changed := merge.Streak(localStreak, remoteStreak); changed {
		if err := s.local.UpsertStreak(ctx, userID, mergedStreak); err != nil {
			return written, fmt.Errorf("write back streak failed: %w", err)
		}
		written++
	}

	return written, nil
}

// fullSync runs the one-time bidirectional bootstrap: push every local
// record, then pull and merge everything back. On success the cursor
// is rewritten for the current identity.
func (s *Service) fullSync(ctx context.Context, userID string) error {
	s.logger.Info("running full sync", "user_id", userID)

	counters, err := s.local.ReadCounters(ctx, userID, "", "")
	if err != nil {
		return fmt.Errorf("read local counters failed: %w", err)
	}
	for _, rec := range counters {
		if err := s.remote.UpsertCounter(ctx, userID, rec); err != nil {
			return fmt.Errorf("push counter failed: %w", err)
		}
	}

	activity, err := s.local.ReadActivity(ctx, userID, "", "")
	if err != nil {
		return fmt.Errorf("read local activity failed: %w", err)
	}
	for _, rec := range activity {
		if err := s.remote.UpsertActivity(ctx, userID, rec); err != nil {
			return fmt.Errorf("push activity failed: %w", err)
		}
	}

	wrong, err := s.local.ReadWrongAnswers(ctx, userID)
	if err != nil {
		return fmt.Errorf("read local wrong answers failed: %w", err)
	}
	for _, rec := range wrong {
		if err := s.remote.UpsertWrongAnswer(ctx, userID, rec); err != nil {
			return fmt.Errorf("push wrong answer failed: %w", err)
		}
	}

	streak, err := s.local.ReadStreak(ctx, userID)
	switch {
	case err == nil && !streak.IsZero():
		if err := s.remote.UpsertStreak(ctx, userID, streak); err != nil {
			return fmt.Errorf("push streak failed: %w", err)
		}
	case err != nil && !errors.Is(err, storage.ErrStreakNotFound):
		return fmt.Errorf("read local streak failed: %w", err)
	}

	if _, err := s.pull(ctx, userID); err != nil {
		return err
	}

	cursor := models.SyncCursor{
		SyncedUserID:   userID,
		LastFullSyncAt: s.now(),
	}
	if err := s.meta.SaveSyncCursor(ctx, cursor); err != nil {
		return fmt.Errorf("failed to save sync cursor: %w", err)
	}

	return nil
}

// ShouldRunFullSync decides whether the bootstrap full sync is due:
// yes when the identity changed (or never synced), when no sync has
// ever completed, or when the last one is older than FullSyncInterval.
func ShouldRunFullSync(cursor models.SyncCursor, currentUserID string, now time.Time) bool {
	if cursor.SyncedUserID != currentUserID {
		return true
	}
	if cursor.LastFullSyncAt.IsZero() {
		return true
	}
	return now.Sub(cursor.LastFullSyncAt) > FullSyncInterval
}

// Status returns the user-visible sync state. Reads and writes are
// never blocked while any of these apply.
func (s *Service) Status(ctx context.Context) State {
	pending, err := s.queue.Len(ctx)
	if err != nil {
		s.logger.Warn("failed to read queue length", "error", err)
	}

	switch {
	case !s.online.Load():
		return State{Status: StatusOffline, Pending: pending}
	case s.syncing.Load():
		return State{Status: StatusSyncing, Pending: pending}
	case pending > 0:
		return State{Status: StatusPending, Pending: pending}
	default:
		return State{Status: StatusSynced}
	}
}
