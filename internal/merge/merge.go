// Package merge reconciles divergent local and remote snapshots of the
// user's progress records. Every function is a pure reducer: it takes
// two snapshots of one entity kind and returns the reconciled snapshot
// plus the subset that differs from the local side, so callers know
// exactly what to write back.
//
// All merges are commutative and idempotent. Repeated, out-of-order or
// duplicated pulls therefore never corrupt state, which is what lets
// the two stores stay consistent without locks or cross-store
// transactions.
package merge

import (
	"sort"

	"github.com/scanvocab/scanvocab/internal/models"
)

// Counters merges two per-day counter snapshots keyed by date. A date
// present on one side only is kept as-is; a date present on both sides
// takes the maximum of every numeric field independently.
func Counters(local, remote []models.CounterRecord) (merged, changed []models.CounterRecord) {
	byDate := make(map[string]models.CounterRecord, len(local))
	for _, rec := range local {
		byDate[rec.Date] = rec
	}

	for _, rem := range remote {
		loc, ok := byDate[rem.Date]
		if !ok {
			byDate[rem.Date] = rem
			changed = append(changed, rem)
			continue
		}

		out := models.CounterRecord{
			Date:          loc.Date,
			QuizCount:     maxInt(loc.QuizCount, rem.QuizCount),
			CorrectCount:  maxInt(loc.CorrectCount, rem.CorrectCount),
			MasteredCount: maxInt(loc.MasteredCount, rem.MasteredCount),
		}
		if out != loc {
			changed = append(changed, out)
		}
		byDate[rem.Date] = out
	}

	merged = make([]models.CounterRecord, 0, len(byDate))
	for _, rec := range byDate {
		merged = append(merged, rec)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Date < merged[j].Date })

	return merged, changed
}

// Activity merges two per-day activity snapshots with the same
// high-water-mark rule as Counters.
func Activity(local, remote []models.ActivityRecord) (merged, changed []models.ActivityRecord) {
	byDate := make(map[string]models.ActivityRecord, len(local))
	for _, rec := range local {
		byDate[rec.Date] = rec
	}

	for _, rem := range remote {
		loc, ok := byDate[rem.Date]
		if !ok {
			byDate[rem.Date] = rem
			changed = append(changed, rem)
			continue
		}

		out := models.ActivityRecord{
			Date:         loc.Date,
			QuizCount:    maxInt(loc.QuizCount, rem.QuizCount),
			CorrectCount: maxInt(loc.CorrectCount, rem.CorrectCount),
		}
		if out != loc {
			changed = append(changed, out)
		}
		byDate[rem.Date] = out
	}

	merged = make([]models.ActivityRecord, 0, len(byDate))
	for _, rec := range byDate {
		merged = append(merged, rec)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Date < merged[j].Date })

	return merged, changed
}

// Streak merges two streak records. The later LastActivityDate wins
// outright, both fields; on equal dates the larger count wins. Day keys
// are YYYY-MM-DD, so lexicographic comparison is chronological.
//
// When dates differ the losing side's count is discarded entirely
// rather than reconciled against the winner's history; two devices
// active on different days while offline keep only the more recent
// streak.
func Streak(local, remote models.StreakRecord) (merged models.StreakRecord, changed bool) {
	switch {
	case remote.LastActivityDate > local.LastActivityDate:
		return remote, true
	case remote.LastActivityDate < local.LastActivityDate:
		return local, false
	default:
		merged = models.StreakRecord{
			StreakCount:      maxInt(local.StreakCount, remote.StreakCount),
			LastActivityDate: local.LastActivityDate,
		}
		return merged, merged != local
	}
}

// WrongAnswers merges two wrong-answer snapshots keyed by word id as a
// set union: the merged key set is exactly the union of both sides.
// For a word on both sides, WrongCount and LastWrongAt each take their
// maximum, and the distractor list comes from whichever side has a
// non-empty one, preferring local when both do.
func WrongAnswers(local, remote []models.WrongAnswerRecord) (merged, changed []models.WrongAnswerRecord) {
	byWord := make(map[string]models.WrongAnswerRecord, len(local))
	for _, rec := range local {
		byWord[rec.WordID] = rec
	}

	for _, rem := range remote {
		loc, ok := byWord[rem.WordID]
		if !ok {
			byWord[rem.WordID] = rem
			changed = append(changed, *rem.Clone())
			continue
		}

		out := mergeWrongAnswer(loc, rem)
		if !wrongAnswersEqual(out, loc) {
			changed = append(changed, *out.Clone())
		}
		byWord[rem.WordID] = out
	}

	merged = make([]models.WrongAnswerRecord, 0, len(byWord))
	for _, rec := range byWord {
		merged = append(merged, rec)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].WordID < merged[j].WordID })

	return merged, changed
}

func mergeWrongAnswer(local, remote models.WrongAnswerRecord) models.WrongAnswerRecord {
	out := *local.Clone()
	out.WrongCount = maxInt(local.WrongCount, remote.WrongCount)
	if remote.LastWrongAt > out.LastWrongAt {
		out.LastWrongAt = remote.LastWrongAt
	}
	if len(local.Distractors) == 0 && len(remote.Distractors) > 0 {
		out.Distractors = append([]string(nil), remote.Distractors...)
	}
	// Identity fields (project, english, japanese) are immutable per
	// word id; local's copy stands.
	return out
}

func wrongAnswersEqual(a, b models.WrongAnswerRecord) bool {
	if a.WordID != b.WordID || a.ProjectID != b.ProjectID ||
		a.English != b.English || a.Japanese != b.Japanese ||
		a.WrongCount != b.WrongCount || a.LastWrongAt != b.LastWrongAt {
		return false
	}
	if len(a.Distractors) != len(b.Distractors) {
		return false
	}
	for i := range a.Distractors {
		if a.Distractors[i] != b.Distractors[i] {
			return false
		}
	}
	return true
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
