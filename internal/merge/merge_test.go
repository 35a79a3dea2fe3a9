package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scanvocab/scanvocab/internal/models"
)

func counter(date string, quiz, correct, mastered int) models.CounterRecord {
	return models.CounterRecord{Date: date, QuizCount: quiz, CorrectCount: correct, MasteredCount: mastered}
}

func wrong(wordID string, count int, lastAt int64, distractors ...string) models.WrongAnswerRecord {
	return models.WrongAnswerRecord{
		WordID:      wordID,
		ProjectID:   "p1",
		English:     "apple",
		Japanese:    "りんご",
		Distractors: distractors,
		WrongCount:  count,
		LastWrongAt: lastAt,
	}
}

func TestCounters_DisjointDates(t *testing.T) {
	local := []models.CounterRecord{counter("2026-02-07", 5, 3, 1)}
	remote := []models.CounterRecord{counter("2026-02-08", 2, 2, 0)}

	merged, changed := Counters(local, remote)

	require.Len(t, merged, 2)
	assert.Equal(t, counter("2026-02-07", 5, 3, 1), merged[0])
	assert.Equal(t, counter("2026-02-08", 2, 2, 0), merged[1])

	// Only the remote-only date needs a local write-back.
	require.Len(t, changed, 1)
	assert.Equal(t, "2026-02-08", changed[0].Date)
}

func TestCounters_FieldwiseMax(t *testing.T) {
	// Fields are merged independently: neither side wins whole-record.
	local := []models.CounterRecord{counter("2026-02-08", 10, 2, 1)}
	remote := []models.CounterRecord{counter("2026-02-08", 4, 7, 0)}

	merged, changed := Counters(local, remote)

	require.Len(t, merged, 1)
	assert.Equal(t, counter("2026-02-08", 10, 7, 1), merged[0])
	require.Len(t, changed, 1)
	assert.Equal(t, counter("2026-02-08", 10, 7, 1), changed[0])
}

func TestCounters_NoChangeWhenLocalDominates(t *testing.T) {
	local := []models.CounterRecord{counter("2026-02-08", 10, 7, 3)}
	remote := []models.CounterRecord{counter("2026-02-08", 4, 2, 1)}

	merged, changed := Counters(local, remote)

	require.Len(t, merged, 1)
	assert.Equal(t, local[0], merged[0])
	assert.Empty(t, changed)
}

func TestCounters_CommutativeIdempotentMonotone(t *testing.T) {
	a := []models.CounterRecord{
		counter("2026-02-06", 3, 1, 0),
		counter("2026-02-07", 8, 6, 2),
	}
	b := []models.CounterRecord{
		counter("2026-02-07", 5, 9, 1),
		counter("2026-02-08", 1, 1, 1),
	}

	ab, _ := Counters(a, b)
	ba, _ := Counters(b, a)
	assert.Equal(t, ab, ba, "merge must be commutative")

	aa, changed := Counters(a, a)
	assert.Equal(t, a, aa, "merge must be idempotent")
	assert.Empty(t, changed)

	// Every field of the result dominates both inputs.
	byDate := make(map[string]models.CounterRecord)
	for _, rec := range ab {
		byDate[rec.Date] = rec
	}
	for _, in := range append(append([]models.CounterRecord{}, a...), b...) {
		out := byDate[in.Date]
		assert.GreaterOrEqual(t, out.QuizCount, in.QuizCount)
		assert.GreaterOrEqual(t, out.CorrectCount, in.CorrectCount)
		assert.GreaterOrEqual(t, out.MasteredCount, in.MasteredCount)
	}
}

func TestCounters_EmptySides(t *testing.T) {
	a := []models.CounterRecord{counter("2026-02-08", 1, 1, 0)}

	merged, changed := Counters(nil, a)
	assert.Equal(t, a, merged)
	assert.Equal(t, a, changed)

	merged, changed = Counters(a, nil)
	assert.Equal(t, a, merged)
	assert.Empty(t, changed)
}

func TestActivity_FieldwiseMax(t *testing.T) {
	local := []models.ActivityRecord{{Date: "2026-02-08", QuizCount: 3, CorrectCount: 1}}
	remote := []models.ActivityRecord{
		{Date: "2026-02-08", QuizCount: 2, CorrectCount: 4},
		{Date: "2026-02-09", QuizCount: 1, CorrectCount: 1},
	}

	merged, changed := Activity(local, remote)

	require.Len(t, merged, 2)
	assert.Equal(t, models.ActivityRecord{Date: "2026-02-08", QuizCount: 3, CorrectCount: 4}, merged[0])
	assert.Equal(t, models.ActivityRecord{Date: "2026-02-09", QuizCount: 1, CorrectCount: 1}, merged[1])
	assert.Len(t, changed, 2)

	ba, _ := Activity(remote, local)
	assert.Equal(t, merged, ba)
}

func TestStreak_RemoteLaterDateWinsOutright(t *testing.T) {
	// The losing side's count is discarded entirely, not reconciled.
	local := models.StreakRecord{StreakCount: 3, LastActivityDate: "2026-02-08"}
	remote := models.StreakRecord{StreakCount: 1, LastActivityDate: "2026-02-09"}

	merged, changed := Streak(local, remote)

	assert.Equal(t, models.StreakRecord{StreakCount: 1, LastActivityDate: "2026-02-09"}, merged)
	assert.True(t, changed)
}

func TestStreak_LocalLaterDateWins(t *testing.T) {
	local := models.StreakRecord{StreakCount: 2, LastActivityDate: "2026-02-09"}
	remote := models.StreakRecord{StreakCount: 9, LastActivityDate: "2026-02-08"}

	merged, changed := Streak(local, remote)

	assert.Equal(t, local, merged)
	assert.False(t, changed, "no write-back needed when local wins")
}

func TestStreak_EqualDatesTakeMaxCount(t *testing.T) {
	local := models.StreakRecord{StreakCount: 2, LastActivityDate: "2026-02-08"}
	remote := models.StreakRecord{StreakCount: 5, LastActivityDate: "2026-02-08"}

	merged, changed := Streak(local, remote)

	assert.Equal(t, models.StreakRecord{StreakCount: 5, LastActivityDate: "2026-02-08"}, merged)
	assert.True(t, changed)

	// And symmetrically, with no change needed.
	merged, changed = Streak(remote, local)
	assert.Equal(t, models.StreakRecord{StreakCount: 5, LastActivityDate: "2026-02-08"}, merged)
	assert.False(t, changed)
}

func TestStreak_CommutativeIdempotent(t *testing.T) {
	a := models.StreakRecord{StreakCount: 3, LastActivityDate: "2026-02-08"}
	b := models.StreakRecord{StreakCount: 7, LastActivityDate: "2026-02-05"}

	ab, _ := Streak(a, b)
	ba, _ := Streak(b, a)
	assert.Equal(t, ab, ba)

	aa, changed := Streak(a, a)
	assert.Equal(t, a, aa)
	assert.False(t, changed)
}

func TestStreak_ZeroRemote(t *testing.T) {
	local := models.StreakRecord{StreakCount: 3, LastActivityDate: "2026-02-08"}

	merged, changed := Streak(local, models.StreakRecord{})
	assert.Equal(t, local, merged)
	assert.False(t, changed)
}

func TestWrongAnswers_UnionKeySet(t *testing.T) {
	local := []models.WrongAnswerRecord{wrong("w1", 2, 100), wrong("w2", 1, 50)}
	remote := []models.WrongAnswerRecord{wrong("w2", 3, 60), wrong("w3", 1, 10)}

	merged, _ := WrongAnswers(local, remote)

	ids := make([]string, 0, len(merged))
	for _, rec := range merged {
		ids = append(ids, rec.WordID)
	}
	assert.Equal(t, []string{"w1", "w2", "w3"}, ids)
}

func TestWrongAnswers_FieldwiseMax(t *testing.T) {
	// Count and timestamp merge independently: remote has more wrong
	// answers, local saw the word more recently.
	local := []models.WrongAnswerRecord{wrong("w1", 2, 100)}
	remote := []models.WrongAnswerRecord{wrong("w1", 5, 50)}

	merged, changed := WrongAnswers(local, remote)

	require.Len(t, merged, 1)
	assert.Equal(t, 5, merged[0].WrongCount)
	assert.Equal(t, int64(100), merged[0].LastWrongAt)
	require.Len(t, changed, 1)
	assert.Equal(t, "w1", changed[0].WordID)
}

func TestWrongAnswers_DistractorsPreferNonEmpty(t *testing.T) {
	tests := []struct {
		name   string
		local  []string
		remote []string
		want   []string
	}{
		{"remote fills empty local", nil, []string{"a", "b"}, []string{"a", "b"}},
		{"local kept when non-empty", []string{"x"}, []string{"a", "b"}, []string{"x"}},
		{"local kept when remote empty", []string{"x"}, nil, []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := []models.WrongAnswerRecord{wrong("w1", 1, 1, tt.local...)}
			remote := []models.WrongAnswerRecord{wrong("w1", 1, 1, tt.remote...)}
			merged, _ := WrongAnswers(local, remote)
			require.Len(t, merged, 1)
			assert.Equal(t, tt.want, merged[0].Distractors)
		})
	}
}

func TestWrongAnswers_CommutativeIdempotent(t *testing.T) {
	a := []models.WrongAnswerRecord{wrong("w1", 2, 100, "a", "b"), wrong("w2", 1, 50)}
	b := []models.WrongAnswerRecord{wrong("w1", 5, 50, "a", "b"), wrong("w3", 4, 10)}

	ab, _ := WrongAnswers(a, b)
	ba, _ := WrongAnswers(b, a)
	assert.Equal(t, ab, ba)

	aa, changed := WrongAnswers(a, a)
	assert.Equal(t, a, aa)
	assert.Empty(t, changed)
}

func TestWrongAnswers_MergeDoesNotResurrectNothing(t *testing.T) {
	// A word absent remotely stays local-only; merge never removes.
	local := []models.WrongAnswerRecord{wrong("w1", 1, 10)}

	merged, changed := WrongAnswers(local, nil)
	assert.Equal(t, local, merged)
	assert.Empty(t, changed)
}
