package api

import "github.com/scanvocab/scanvocab/internal/models"

// Progress endpoints exchange the domain records directly; every write
// is an idempotent upsert keyed by (user, record key), so retrying a
// request with an identical payload is always safe.

// CountersResponse is the reply to GET /api/v1/progress/counters.
type CountersResponse struct {
	Counters []models.CounterRecord `json:"counters"`
}

// ActivityResponse is the reply to GET /api/v1/progress/activity.
type ActivityResponse struct {
	Activity []models.ActivityRecord `json:"activity"`
}

// StreakResponse is the reply to GET /api/v1/progress/streak.
// Found is false when the user has no streak recorded yet.
type StreakResponse struct {
	Streak models.StreakRecord `json:"streak"`
	Found  bool                `json:"found"`
}

// WrongAnswersResponse is the reply to GET /api/v1/progress/wrong-answers.
type WrongAnswersResponse struct {
	WrongAnswers []models.WrongAnswerRecord `json:"wrong_answers"`
}

// SubscriptionResponse is the reply to GET /api/v1/subscription. The
// sync orchestrator reads it as the entitlement signal.
type SubscriptionResponse struct {
	Status models.SubscriptionStatus `json:"status"`
}

// HealthResponse is the reply to GET /api/v1/health. The client's
// watch mode uses this endpoint as its connectivity probe.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
