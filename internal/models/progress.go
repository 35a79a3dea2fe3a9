package models

// CounterRecord holds the per-day quiz counters for one calendar day.
// All fields are high-water marks: merging two observations of the same
// day takes the maximum of every field independently, so a counter for
// a given date never decreases once observed.
type CounterRecord struct {
	Date          string `json:"date"` // calendar day key, YYYY-MM-DD
	QuizCount     int    `json:"quiz_count"`
	CorrectCount  int    `json:"correct_count"`
	MasteredCount int    `json:"mastered_count"`
}

// ActivityRecord holds the lightweight per-day activity counters shown
// on the calendar heatmap. Same high-water-mark semantics as CounterRecord.
type ActivityRecord struct {
	Date         string `json:"date"`
	QuizCount    int    `json:"quiz_count"`
	CorrectCount int    `json:"correct_count"`
}

// StreakRecord holds the user's current streak. StreakCount is only
// meaningful relative to its paired LastActivityDate.
type StreakRecord struct {
	StreakCount      int    `json:"streak_count"`
	LastActivityDate string `json:"last_activity_date"` // YYYY-MM-DD
}

// IsZero reports whether the record has never been set.
func (s StreakRecord) IsZero() bool {
	return s.StreakCount == 0 && s.LastActivityDate == ""
}

// WrongAnswerRecord tracks one word the user has answered incorrectly,
// keyed by WordID. WrongCount and LastWrongAt are non-decreasing under
// merge; removal is an explicit local operation, never a merge outcome.
type WrongAnswerRecord struct {
	WordID      string   `json:"word_id"`
	ProjectID   string   `json:"project_id"`
	English     string   `json:"english"`
	Japanese    string   `json:"japanese"`
	Distractors []string `json:"distractors"`
	WrongCount  int      `json:"wrong_count"`
	LastWrongAt int64    `json:"last_wrong_at"` // unix milliseconds
}

// Clone returns a deep copy of the record.
func (w *WrongAnswerRecord) Clone() *WrongAnswerRecord {
	c := *w
	if w.Distractors != nil {
		c.Distractors = make([]string, len(w.Distractors))
		copy(c.Distractors, w.Distractors)
	}
	return &c
}
