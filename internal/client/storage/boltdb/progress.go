package boltdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/scanvocab/scanvocab/internal/client/storage"
	"github.com/scanvocab/scanvocab/internal/models"
)

// Compile-time check that Storage implements the store contract
var _ storage.ProgressStore = (*Storage)(nil)

// ReadCounters returns counter records for dates in [from, to],
// ordered by date. Empty bounds are unbounded.
func (s *Storage) ReadCounters(ctx context.Context, userID, from, to string) ([]models.CounterRecord, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var records []models.CounterRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		return scanDateRange(tx.Bucket(bucketCounters), userID, from, to, func(v []byte) error {
			var rec models.CounterRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("failed to unmarshal counter: %w", err)
			}
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// UpsertCounter stores or replaces the counter record for its date.
func (s *Storage) UpsertCounter(ctx context.Context, userID string, rec models.CounterRecord) error {
	return s.putJSON(bucketCounters, recordKey(userID, rec.Date), rec)
}

// ReadActivity returns activity records for dates in [from, to],
// ordered by date.
func (s *Storage) ReadActivity(ctx context.Context, userID, from, to string) ([]models.ActivityRecord, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var records []models.ActivityRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		return scanDateRange(tx.Bucket(bucketActivity), userID, from, to, func(v []byte) error {
			var rec models.ActivityRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("failed to unmarshal activity: %w", err)
			}
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// UpsertActivity stores or replaces the activity record for its date.
func (s *Storage) UpsertActivity(ctx context.Context, userID string, rec models.ActivityRecord) error {
	return s.putJSON(bucketActivity, recordKey(userID, rec.Date), rec)
}

// ReadStreak returns the user's streak record.
func (s *Storage) ReadStreak(ctx context.Context, userID string) (models.StreakRecord, error) {
	var rec models.StreakRecord
	if s.db == nil {
		return rec, storage.ErrStorageClosed
	}

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketStreaks).Get([]byte(userID))
		if data == nil {
			return storage.ErrStreakNotFound
		}
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("failed to unmarshal streak: %w", err)
		}
		return nil
	})

	return rec, err
}

// UpsertStreak stores or replaces the streak record.
func (s *Storage) UpsertStreak(ctx context.Context, userID string, rec models.StreakRecord) error {
	return s.putJSON(bucketStreaks, []byte(userID), rec)
}

// ReadWrongAnswers returns all tracked wrong answers, ordered by word id.
func (s *Storage) ReadWrongAnswers(ctx context.Context, userID string) ([]models.WrongAnswerRecord, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var records []models.WrongAnswerRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketWrongAnswers).Cursor()
		prefix := userPrefix(userID)
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var rec models.WrongAnswerRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("failed to unmarshal wrong answer: %w", err)
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// UpsertWrongAnswer stores or replaces one wrong-answer record.
func (s *Storage) UpsertWrongAnswer(ctx context.Context, userID string, rec models.WrongAnswerRecord) error {
	return s.putJSON(bucketWrongAnswers, recordKey(userID, rec.WordID), rec)
}

// DeleteWrongAnswer removes one wrong-answer record. Deleting an
// absent record is a no-op.
func (s *Storage) DeleteWrongAnswer(ctx context.Context, userID, wordID string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketWrongAnswers).Delete(recordKey(userID, wordID)); err != nil {
			return fmt.Errorf("failed to delete wrong answer: %w", err)
		}
		return nil
	})
}

// ClearWrongAnswers removes every wrong-answer record for the user.
func (s *Storage) ClearWrongAnswers(ctx context.Context, userID string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketWrongAnswers)
		c := bucket.Cursor()
		prefix := userPrefix(userID)
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			if err := bucket.Delete(k); err != nil {
				return fmt.Errorf("failed to delete wrong answer: %w", err)
			}
		}
		return nil
	})
}

// putJSON marshals value and stores it under key in bucket.
func (s *Storage) putJSON(bucket, key []byte, value any) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucket).Put(key, data); err != nil {
			return fmt.Errorf("failed to save record: %w", err)
		}
		return nil
	})
}

// scanDateRange walks the user's keys in bucket within [from, to]
// inclusive, in date order. Date keys sort lexicographically, so a
// plain cursor scan over the prefix is a chronological scan.
func scanDateRange(bucket *bbolt.Bucket, userID, from, to string, fn func(v []byte) error) error {
	prefix := userPrefix(userID)
	start := prefix
	if from != "" {
		start = recordKey(userID, from)
	}
	var end string
	if to != "" {
		end = string(recordKey(userID, to))
	}

	c := bucket.Cursor()
	for k, v := c.Seek(start); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		if end != "" && string(k) > end {
			break
		}
		if err := fn(v); err != nil {
			return err
		}
	}
	return nil
}
