package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/scanvocab/scanvocab/internal/merge"
	"github.com/scanvocab/scanvocab/internal/models"
	"github.com/scanvocab/scanvocab/internal/server/storage"
)

var _ storage.ProgressStorage = (*Storage)(nil)

type counterRow struct {
	UserID        string `db:"user_id"`
	Date          string `db:"date"`
	QuizCount     int    `db:"quiz_count"`
	CorrectCount  int    `db:"correct_count"`
	MasteredCount int    `db:"mastered_count"`
}

type activityRow struct {
	UserID       string `db:"user_id"`
	Date         string `db:"date"`
	QuizCount    int    `db:"quiz_count"`
	CorrectCount int    `db:"correct_count"`
}

type wrongAnswerRow struct {
	UserID      string `db:"user_id"`
	WordID      string `db:"word_id"`
	ProjectID   string `db:"project_id"`
	English     string `db:"english"`
	Japanese    string `db:"japanese"`
	Distractors string `db:"distractors"`
	WrongCount  int    `db:"wrong_count"`
	LastWrongAt int64  `db:"last_wrong_at"`
}

func (r wrongAnswerRow) toModel() (models.WrongAnswerRecord, error) {
	rec := models.WrongAnswerRecord{
		WordID:      r.WordID,
		ProjectID:   r.ProjectID,
		English:     r.English,
		Japanese:    r.Japanese,
		WrongCount:  r.WrongCount,
		LastWrongAt: r.LastWrongAt,
	}
	if err := json.Unmarshal([]byte(r.Distractors), &rec.Distractors); err != nil {
		return rec, fmt.Errorf("failed to decode distractors: %w", err)
	}
	return rec, nil
}

// ReadCounters returns counter records for dates in [from, to].
func (s *Storage) ReadCounters(ctx context.Context, userID, from, to string) ([]models.CounterRecord, error) {
	query, args := dateRangeQuery(
		`SELECT user_id, date, quiz_count, correct_count, mastered_count FROM daily_counters`,
		userID, from, to)

	var rows []counterRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select counters: %w", err)
	}

	records := make([]models.CounterRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.CounterRecord{
			Date:          row.Date,
			QuizCount:     row.QuizCount,
			CorrectCount:  row.CorrectCount,
			MasteredCount: row.MasteredCount,
		})
	}
	return records, nil
}

// UpsertCounter merges rec into the stored record for its date.
func (s *Storage) UpsertCounter(ctx context.Context, userID string, rec models.CounterRecord) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var row counterRow
		err := tx.GetContext(ctx, &row,
			`SELECT user_id, date, quiz_count, correct_count, mastered_count
			 FROM daily_counters WHERE user_id = ? AND date = ?`, userID, rec.Date)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to read counter: %w", err)
		}

		stored := models.CounterRecord{
			Date:          rec.Date,
			QuizCount:     row.QuizCount,
			CorrectCount:  row.CorrectCount,
			MasteredCount: row.MasteredCount,
		}
		merged, _ := merge.Counters([]models.CounterRecord{stored}, []models.CounterRecord{rec})

		_, err = tx.ExecContext(ctx,
			`INSERT INTO daily_counters (user_id, date, quiz_count, correct_count, mastered_count)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT (user_id, date) DO UPDATE SET
				quiz_count = excluded.quiz_count,
				correct_count = excluded.correct_count,
				mastered_count = excluded.mastered_count`,
			userID, rec.Date, merged[0].QuizCount, merged[0].CorrectCount, merged[0].MasteredCount)
		if err != nil {
			return fmt.Errorf("failed to upsert counter: %w", err)
		}
		return nil
	})
}

// ReadActivity returns activity records for dates in [from, to].
func (s *Storage) ReadActivity(ctx context.Context, userID, from, to string) ([]models.ActivityRecord, error) {
	query, args := dateRangeQuery(
		`SELECT user_id, date, quiz_count, correct_count FROM activity_days`,
		userID, from, to)

	var rows []activityRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select activity: %w", err)
	}

	records := make([]models.ActivityRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.ActivityRecord{
			Date:         row.Date,
			QuizCount:    row.QuizCount,
			CorrectCount: row.CorrectCount,
		})
	}
	return records, nil
}

// UpsertActivity merges rec into the stored record for its date.
func (s *Storage) UpsertActivity(ctx context.Context, userID string, rec models.ActivityRecord) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var row activityRow
		err := tx.GetContext(ctx, &row,
			`SELECT user_id, date, quiz_count, correct_count
			 FROM activity_days WHERE user_id = ? AND date = ?`, userID, rec.Date)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to read activity: %w", err)
		}

		stored := models.ActivityRecord{
			Date:         rec.Date,
			QuizCount:    row.QuizCount,
			CorrectCount: row.CorrectCount,
		}
		merged, _ := merge.Activity([]models.ActivityRecord{stored}, []models.ActivityRecord{rec})

		_, err = tx.ExecContext(ctx,
			`INSERT INTO activity_days (user_id, date, quiz_count, correct_count)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT (user_id, date) DO UPDATE SET
				quiz_count = excluded.quiz_count,
				correct_count = excluded.correct_count`,
			userID, rec.Date, merged[0].QuizCount, merged[0].CorrectCount)
		if err != nil {
			return fmt.Errorf("failed to upsert activity: %w", err)
		}
		return nil
	})
}

// ReadStreak returns the user's streak record.
func (s *Storage) ReadStreak(ctx context.Context, userID string) (models.StreakRecord, error) {
	var rec models.StreakRecord
	err := s.db.QueryRowxContext(ctx,
		`SELECT streak_count, last_activity_date FROM streaks WHERE user_id = ?`, userID).
		Scan(&rec.StreakCount, &rec.LastActivityDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, storage.ErrStreakNotFound
		}
		return rec, fmt.Errorf("failed to read streak: %w", err)
	}
	return rec, nil
}

// UpsertStreak merges rec into the stored record. The stored date
// never moves backwards.
func (s *Storage) UpsertStreak(ctx context.Context, userID string, rec models.StreakRecord) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var stored models.StreakRecord
		err := tx.QueryRowxContext(ctx,
			`SELECT streak_count, last_activity_date FROM streaks WHERE user_id = ?`, userID).
			Scan(&stored.StreakCount, &stored.LastActivityDate)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to read streak: %w", err)
		}

		merged, _ := merge.Streak(stored, rec)

		_, err = tx.ExecContext(ctx,
			`INSERT INTO streaks (user_id, streak_count, last_activity_date)
			 VALUES (?, ?, ?)
			 ON CONFLICT (user_id) DO UPDATE SET
				streak_count = excluded.streak_count,
				last_activity_date = excluded.last_activity_date`,
			userID, merged.StreakCount, merged.LastActivityDate)
		if err != nil {
			return fmt.Errorf("failed to upsert streak: %w", err)
		}
		return nil
	})
}

// ReadWrongAnswers returns all wrong answers, ordered by word id.
func (s *Storage) ReadWrongAnswers(ctx context.Context, userID string) ([]models.WrongAnswerRecord, error) {
	var rows []wrongAnswerRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT user_id, word_id, project_id, english, japanese, distractors, wrong_count, last_wrong_at
		 FROM wrong_answers WHERE user_id = ? ORDER BY word_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select wrong answers: %w", err)
	}

	records := make([]models.WrongAnswerRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toModel()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// UpsertWrongAnswer merges rec into the stored record for its word id.
func (s *Storage) UpsertWrongAnswer(ctx context.Context, userID string, rec models.WrongAnswerRecord) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var row wrongAnswerRow
		err := tx.GetContext(ctx, &row,
			`SELECT user_id, word_id, project_id, english, japanese, distractors, wrong_count, last_wrong_at
			 FROM wrong_answers WHERE user_id = ? AND word_id = ?`, userID, rec.WordID)

		final := rec
		switch {
		case err == nil:
			stored, convErr := row.toModel()
			if convErr != nil {
				return convErr
			}
			merged, _ := merge.WrongAnswers(
				[]models.WrongAnswerRecord{stored},
				[]models.WrongAnswerRecord{rec})
			final = merged[0]
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("failed to read wrong answer: %w", err)
		}

		distractors, err := json.Marshal(final.Distractors)
		if err != nil {
			return fmt.Errorf("failed to encode distractors: %w", err)
		}
		if final.Distractors == nil {
			distractors = []byte("[]")
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO wrong_answers
				(user_id, word_id, project_id, english, japanese, distractors, wrong_count, last_wrong_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (user_id, word_id) DO UPDATE SET
				project_id = excluded.project_id,
				english = excluded.english,
				japanese = excluded.japanese,
				distractors = excluded.distractors,
				wrong_count = excluded.wrong_count,
				last_wrong_at = excluded.last_wrong_at`,
			userID, final.WordID, final.ProjectID, final.English, final.Japanese,
			string(distractors), final.WrongCount, final.LastWrongAt)
		if err != nil {
			return fmt.Errorf("failed to upsert wrong answer: %w", err)
		}
		return nil
	})
}

// DeleteWrongAnswer removes one record. Absent records are a no-op.
func (s *Storage) DeleteWrongAnswer(ctx context.Context, userID, wordID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM wrong_answers WHERE user_id = ? AND word_id = ?`, userID, wordID)
	if err != nil {
		return fmt.Errorf("failed to delete wrong answer: %w", err)
	}
	return nil
}

// ClearWrongAnswers removes every wrong answer for the user.
func (s *Storage) ClearWrongAnswers(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM wrong_answers WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear wrong answers: %w", err)
	}
	return nil
}

func (s *Storage) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// dateRangeQuery appends the user filter and optional date bounds.
func dateRangeQuery(base, userID, from, to string) (string, []any) {
	query := base + ` WHERE user_id = ?`
	args := []any{userID}
	if from != "" {
		query += ` AND date >= ?`
		args = append(args, from)
	}
	if to != "" {
		query += ` AND date <= ?`
		args = append(args, to)
	}
	query += ` ORDER BY date`
	return query, args
}
