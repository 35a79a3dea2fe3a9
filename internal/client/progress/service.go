// Package progress is the UI-facing write path: every quiz result and
// wrong answer lands in the local store first, and a queue entry is
// added for the remote store only when the user is entitled to sync.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	syncer "github.com/scanvocab/scanvocab/internal/client/sync"
	"github.com/scanvocab/scanvocab/internal/client/storage"
	"github.com/scanvocab/scanvocab/internal/merge"
	"github.com/scanvocab/scanvocab/internal/models"
	"github.com/scanvocab/scanvocab/internal/validation"
)

// Syncer is the slice of the orchestrator the write path needs.
type Syncer interface {
	Entitlement(ctx context.Context) syncer.Entitlement
	UserID(ctx context.Context) (string, error)
	Kick()
}

// QuizResult is one answered quiz question.
type QuizResult struct {
	Correct  bool
	Mastered bool // the word crossed its mastery threshold on this answer
}

// WrongWord identifies a word the user answered incorrectly.
type WrongWord struct {
	WordID      string
	ProjectID   string
	English     string
	Japanese    string
	Distractors []string
}

// Stats aggregates counters over a date range.
type Stats struct {
	From          string
	To            string
	QuizCount     int
	CorrectCount  int
	MasteredCount int
	ActiveDays    int
	Days          []models.CounterRecord
}

// Service records progress locally and queues remote writes.
type Service struct {
	now    func() time.Time
	local  storage.ProgressStore
	queue  storage.QueueStorage
	syncer Syncer
	cache  *Cache
	logger *slog.Logger
}

// NewService creates the progress service.
func NewService(
	local storage.ProgressStore,
	queue storage.QueueStorage,
	sync Syncer,
	cache *Cache,
	logger *slog.Logger,
) *Service {
	return &Service{
		now:    time.Now,
		local:  local,
		queue:  queue,
		syncer: sync,
		cache:  cache,
		logger: logger,
	}
}

// Cache exposes the observer registry.
func (s *Service) Cache() *Cache {
	return s.cache
}

// RecordQuizResult updates today's counter, activity and streak records
// in the local store, then queues the new values for the remote store.
func (s *Service) RecordQuizResult(ctx context.Context, result QuizResult) error {
	userID, err := s.syncer.UserID(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve user id: %w", err)
	}
	today := validation.DateKey(s.now())

	counter, err := s.readDayCounter(ctx, userID, today)
	if err != nil {
		return err
	}
	counter.QuizCount++
	if result.Correct {
		counter.CorrectCount++
	}
	if result.Mastered {
		counter.MasteredCount++
	}
	if err := s.local.UpsertCounter(ctx, userID, counter); err != nil {
		return fmt.Errorf("failed to save counter: %w", err)
	}

	activity, err := s.readDayActivity(ctx, userID, today)
	if err != nil {
		return err
	}
	activity.QuizCount++
	if result.Correct {
		activity.CorrectCount++
	}
	if err := s.local.UpsertActivity(ctx, userID, activity); err != nil {
		return fmt.Errorf("failed to save activity: %w", err)
	}

	streak, changed, err := s.advanceStreak(ctx, userID, today)
	if err != nil {
		return err
	}

	if s.syncer.Entitlement(ctx) == syncer.Entitled {
		if err := s.enqueue(ctx, models.KindUpsertCounter, counter); err != nil {
			return err
		}
		if err := s.enqueue(ctx, models.KindUpsertActivity, activity); err != nil {
			return err
		}
		if changed {
			if err := s.enqueue(ctx, models.KindUpsertStreak, streak); err != nil {
				return err
			}
		}
	}

	s.afterWrite()
	return nil
}

// RecordWrongAnswer increments the wrong count for the word, creating
// the record on first miss.
func (s *Service) RecordWrongAnswer(ctx context.Context, word WrongWord) error {
	if word.WordID == "" {
		return fmt.Errorf("word id is required")
	}
	userID, err := s.syncer.UserID(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve user id: %w", err)
	}

	existing, err := s.local.ReadWrongAnswers(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to read wrong answers: %w", err)
	}

	rec := models.WrongAnswerRecord{
		WordID:      word.WordID,
		ProjectID:   word.ProjectID,
		English:     word.English,
		Japanese:    word.Japanese,
		Distractors: word.Distractors,
	}
	for _, prev := range existing {
		if prev.WordID == word.WordID {
			rec = *prev.Clone()
			if len(word.Distractors) > 0 {
				rec.Distractors = word.Distractors
			}
			break
		}
	}
	rec.WrongCount++
	rec.LastWrongAt = s.now().UnixMilli()

	if err := s.local.UpsertWrongAnswer(ctx, userID, rec); err != nil {
		return fmt.Errorf("failed to save wrong answer: %w", err)
	}

	if s.syncer.Entitlement(ctx) == syncer.Entitled {
		if err := s.enqueue(ctx, models.KindUpsertWrongAnswer, rec); err != nil {
			return err
		}
	}

	s.afterWrite()
	return nil
}

// ResolveWrongAnswer removes the word from the review list.
func (s *Service) ResolveWrongAnswer(ctx context.Context, wordID string) error {
	userID, err := s.syncer.UserID(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve user id: %w", err)
	}

	if err := s.local.DeleteWrongAnswer(ctx, userID, wordID); err != nil {
		return fmt.Errorf("failed to delete wrong answer: %w", err)
	}

	if s.syncer.Entitlement(ctx) == syncer.Entitled {
		payload := models.DeleteWrongAnswerPayload{WordID: wordID}
		if err := s.enqueue(ctx, models.KindDeleteWrongAnswer, payload); err != nil {
			return err
		}
	}

	s.afterWrite()
	return nil
}

// ClearWrongAnswers empties the review list.
func (s *Service) ClearWrongAnswers(ctx context.Context) error {
	userID, err := s.syncer.UserID(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve user id: %w", err)
	}

	if err := s.local.ClearWrongAnswers(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear wrong answers: %w", err)
	}

	if s.syncer.Entitlement(ctx) == syncer.Entitled {
		if err := s.enqueue(ctx, models.KindClearWrongAnswers, struct{}{}); err != nil {
			return err
		}
	}

	s.afterWrite()
	return nil
}

// Stats aggregates the counters in [from, to]. Served from the cache
// when a fresh value for the same range exists.
func (s *Service) Stats(ctx context.Context, from, to string) (Stats, error) {
	if cached := s.cache.Get(from, to); cached != nil {
		return *cached, nil
	}

	userID, err := s.syncer.UserID(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to resolve user id: %w", err)
	}

	days, err := s.local.ReadCounters(ctx, userID, from, to)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read counters: %w", err)
	}

	stats := Stats{From: from, To: to, Days: days}
	for _, day := range days {
		stats.QuizCount += day.QuizCount
		stats.CorrectCount += day.CorrectCount
		stats.MasteredCount += day.MasteredCount
		if day.QuizCount > 0 {
			stats.ActiveDays++
		}
	}

	s.cache.Put(from, to, stats)
	return stats, nil
}

// Streak returns the current streak, counting a streak as broken when
// the last activity is older than yesterday.
func (s *Service) Streak(ctx context.Context) (models.StreakRecord, error) {
	userID, err := s.syncer.UserID(ctx)
	if err != nil {
		return models.StreakRecord{}, fmt.Errorf("failed to resolve user id: %w", err)
	}

	streak, err := s.local.ReadStreak(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrStreakNotFound) {
			return models.StreakRecord{}, nil
		}
		return models.StreakRecord{}, fmt.Errorf("failed to read streak: %w", err)
	}

	today := validation.DateKey(s.now())
	yesterday := validation.DateKey(s.now().AddDate(0, 0, -1))
	if streak.LastActivityDate != today && streak.LastActivityDate != yesterday {
		return models.StreakRecord{LastActivityDate: streak.LastActivityDate}, nil
	}
	return streak, nil
}

// ReviewList returns the wrong answers ordered by how often and how
// recently the user missed them.
func (s *Service) ReviewList(ctx context.Context) ([]models.WrongAnswerRecord, error) {
	userID, err := s.syncer.UserID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user id: %w", err)
	}

	records, err := s.local.ReadWrongAnswers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read wrong answers: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].WrongCount != records[j].WrongCount {
			return records[i].WrongCount > records[j].WrongCount
		}
		if records[i].LastWrongAt != records[j].LastWrongAt {
			return records[i].LastWrongAt > records[j].LastWrongAt
		}
		return records[i].WordID < records[j].WordID
	})
	return records, nil
}

// AdoptLocalProgress merges every record stored under fromUserID into
// toUserID. Called after the first login so progress recorded under the
// device identity follows the account. Idempotent: the merge rules make
// repeated adoption a no-op.
func (s *Service) AdoptLocalProgress(ctx context.Context, fromUserID, toUserID string) error {
	if fromUserID == toUserID {
		return nil
	}

	fromCounters, err := s.local.ReadCounters(ctx, fromUserID, "", "")
	if err != nil {
		return fmt.Errorf("failed to read counters: %w", err)
	}
	toCounters, err := s.local.ReadCounters(ctx, toUserID, "", "")
	if err != nil {
		return fmt.Errorf("failed to read counters: %w", err)
	}
	mergedCounters, _ := merge.Counters(toCounters, fromCounters)
	for _, rec := range mergedCounters {
		if err := s.local.UpsertCounter(ctx, toUserID, rec); err != nil {
			return fmt.Errorf("failed to adopt counter: %w", err)
		}
	}

	fromActivity, err := s.local.ReadActivity(ctx, fromUserID, "", "")
	if err != nil {
		return fmt.Errorf("failed to read activity: %w", err)
	}
	toActivity, err := s.local.ReadActivity(ctx, toUserID, "", "")
	if err != nil {
		return fmt.Errorf("failed to read activity: %w", err)
	}
	mergedActivity, _ := merge.Activity(toActivity, fromActivity)
	for _, rec := range mergedActivity {
		if err := s.local.UpsertActivity(ctx, toUserID, rec); err != nil {
			return fmt.Errorf("failed to adopt activity: %w", err)
		}
	}

	fromWrong, err := s.local.ReadWrongAnswers(ctx, fromUserID)
	if err != nil {
		return fmt.Errorf("failed to read wrong answers: %w", err)
	}
	toWrong, err := s.local.ReadWrongAnswers(ctx, toUserID)
	if err != nil {
		return fmt.Errorf("failed to read wrong answers: %w", err)
	}
	mergedWrong, _ := merge.WrongAnswers(toWrong, fromWrong)
	for _, rec := range mergedWrong {
		if err := s.local.UpsertWrongAnswer(ctx, toUserID, rec); err != nil {
			return fmt.Errorf("failed to adopt wrong answer: %w", err)
		}
	}

	fromStreak, err := s.local.ReadStreak(ctx, fromUserID)
	if err != nil && !errors.Is(err, storage.ErrStreakNotFound) {
		return fmt.Errorf("failed to read streak: %w", err)
	}
	toStreak, err := s.local.ReadStreak(ctx, toUserID)
	if err != nil && !errors.Is(err, storage.ErrStreakNotFound) {
		return fmt.Errorf("failed to read streak: %w", err)
	}
	if mergedStreak, _ := merge.Streak(toStreak, fromStreak); !mergedStreak.IsZero() {
		if err := s.local.UpsertStreak(ctx, toUserID, mergedStreak); err != nil {
			return fmt.Errorf("failed to adopt streak: %w", err)
		}
	}

	s.logger.Info("adopted local progress",
		"from", fromUserID,
		"to", toUserID,
		"counters", len(mergedCounters),
		"wrong_answers", len(mergedWrong))

	s.cache.Invalidate()
	return nil
}

func (s *Service) readDayCounter(ctx context.Context, userID, date string) (models.CounterRecord, error) {
	records, err := s.local.ReadCounters(ctx, userID, date, date)
	if err != nil {
		return models.CounterRecord{}, fmt.Errorf("failed to read counters: %w", err)
	}
	if len(records) > 0 {
		return records[0], nil
	}
	return models.CounterRecord{Date: date}, nil
}

func (s *Service) readDayActivity(ctx context.Context, userID, date string) (models.ActivityRecord, error) {
	records, err := s.local.ReadActivity(ctx, userID, date, date)
	if err != nil {
		return models.ActivityRecord{}, fmt.Errorf("failed to read activity: %w", err)
	}
	if len(records) > 0 {
		return records[0], nil
	}
	return models.ActivityRecord{Date: date}, nil
}

// advanceStreak extends or restarts the streak for activity on date:
// same day keeps the count, the day after increments it, anything
// older restarts at one.
func (s *Service) advanceStreak(ctx context.Context, userID, date string) (models.StreakRecord, bool, error) {
	streak, err := s.local.ReadStreak(ctx, userID)
	if err != nil && !errors.Is(err, storage.ErrStreakNotFound) {
		return models.StreakRecord{}, false, fmt.Errorf("failed to read streak: %w", err)
	}

	if streak.LastActivityDate == date {
		return streak, false, nil
	}

	day, err := time.Parse(validation.DateKeyLayout, date)
	if err != nil {
		return models.StreakRecord{}, false, fmt.Errorf("bad date key %q: %w", date, err)
	}
	yesterday := day.AddDate(0, 0, -1).Format(validation.DateKeyLayout)

	next := models.StreakRecord{StreakCount: 1, LastActivityDate: date}
	if streak.LastActivityDate == yesterday {
		next.StreakCount = streak.StreakCount + 1
	}

	if err := s.local.UpsertStreak(ctx, userID, next); err != nil {
		return models.StreakRecord{}, false, fmt.Errorf("failed to save streak: %w", err)
	}
	return next, true, nil
}

func (s *Service) enqueue(ctx context.Context, kind models.QueueKind, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", kind, err)
	}
	entry := models.QueueEntry{
		EnqueuedAt: s.now(),
		ID:         uuid.New().String(),
		Kind:       kind,
		Payload:    data,
	}
	if err := s.queue.Enqueue(ctx, entry); err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", kind, err)
	}
	return nil
}

// afterWrite invalidates the cache, notifies observers and nudges the
// orchestrator to drain soon.
func (s *Service) afterWrite() {
	s.cache.Invalidate()
	s.syncer.Kick()
}
