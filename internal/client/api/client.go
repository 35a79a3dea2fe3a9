// Package api is the remote store adapter: it implements the same
// progress store contract as the local bbolt store, over the progress
// service's HTTP API. Failures are classified into the Transient /
// Rejected taxonomy; callers never see raw transport errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/scanvocab/scanvocab/internal/client/storage"
	"github.com/scanvocab/scanvocab/internal/models"
	"github.com/scanvocab/scanvocab/pkg/api"
)

// TokenSource supplies the bearer token for authenticated calls.
// The empty string means unauthenticated.
type TokenSource func() string

// Client is an HTTP client for the progress service.
type Client struct {
	httpClient *http.Client
	token      TokenSource
	baseURL    string
}

// Compile-time check that the remote adapter satisfies the same
// contract as the local store.
var _ storage.ProgressStore = (*Client)(nil)

// NewClient creates a new API client. token may be nil for a client
// that only performs unauthenticated calls (register, login, health).
func NewClient(baseURL string, token TokenSource) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	var resp api.RegisterResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/register", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login authenticates and returns an access token.
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Subscription returns the current entitlement signal.
func (c *Client) Subscription(ctx context.Context) (models.SubscriptionStatus, error) {
	var resp api.SubscriptionResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/subscription", nil, &resp); err != nil {
		return models.StatusNone, fmt.Errorf("subscription request failed: %w", err)
	}
	return resp.Status, nil
}

// Health pings the service. Used as the connectivity probe.
func (c *Client) Health(ctx context.Context) error {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/health", nil, &resp); err != nil {
		return fmt.Errorf("health request failed: %w", err)
	}
	return nil
}

// ReadCounters returns the user's counters for dates in [from, to].
func (c *Client) ReadCounters(ctx context.Context, userID, from, to string) ([]models.CounterRecord, error) {
	var resp api.CountersResponse
	path := "/api/v1/progress/counters" + dateRangeQuery(from, to)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("read counters failed: %w", err)
	}
	return resp.Counters, nil
}

// UpsertCounter stores or replaces the counter record for its date.
func (c *Client) UpsertCounter(ctx context.Context, userID string, rec models.CounterRecord) error {
	if err := c.doRequest(ctx, http.MethodPut, "/api/v1/progress/counters", rec, nil); err != nil {
		return fmt.Errorf("upsert counter failed: %w", err)
	}
	return nil
}

// ReadActivity returns the user's activity records for dates in [from, to].
func (c *Client) ReadActivity(ctx context.Context, userID, from, to string) ([]models.ActivityRecord, error) {
	var resp api.ActivityResponse
	path := "/api/v1/progress/activity" + dateRangeQuery(from, to)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("read activity failed: %w", err)
	}
	return resp.Activity, nil
}

// UpsertActivity stores or replaces the activity record for its date.
func (c *Client) UpsertActivity(ctx context.Context, userID string, rec models.ActivityRecord) error {
	if err := c.doRequest(ctx, http.MethodPut, "/api/v1/progress/activity", rec, nil); err != nil {
		return fmt.Errorf("upsert activity failed: %w", err)
	}
	return nil
}

// ReadStreak returns the user's streak record.
func (c *Client) ReadStreak(ctx context.Context, userID string) (models.StreakRecord, error) {
	var resp api.StreakResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/progress/streak", nil, &resp); err != nil {
		return models.StreakRecord{}, fmt.Errorf("read streak failed: %w", err)
	}
	if !resp.Found {
		return models.StreakRecord{}, storage.ErrStreakNotFound
	}
	return resp.Streak, nil
}

// UpsertStreak stores or replaces the streak record.
func (c *Client) UpsertStreak(ctx context.Context, userID string, rec models.StreakRecord) error {
	if err := c.doRequest(ctx, http.MethodPut, "/api/v1/progress/streak", rec, nil); err != nil {
		return fmt.Errorf("upsert streak failed: %w", err)
	}
	return nil
}

// ReadWrongAnswers returns all tracked wrong answers.
func (c *Client) ReadWrongAnswers(ctx context.Context, userID string) ([]models.WrongAnswerRecord, error) {
	var resp api.WrongAnswersResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/progress/wrong-answers", nil, &resp); err != nil {
		return nil, fmt.Errorf("read wrong answers failed: %w", err)
	}
	return resp.WrongAnswers, nil
}

// UpsertWrongAnswer stores or replaces one wrong-answer record.
func (c *Client) UpsertWrongAnswer(ctx context.Context, userID string, rec models.WrongAnswerRecord) error {
	if err := c.doRequest(ctx, http.MethodPut, "/api/v1/progress/wrong-answers", rec, nil); err != nil {
		return fmt.Errorf("upsert wrong answer failed: %w", err)
	}
	return nil
}

// DeleteWrongAnswer removes one wrong-answer record.
func (c *Client) DeleteWrongAnswer(ctx context.Context, userID, wordID string) error {
	path := "/api/v1/progress/wrong-answers/" + url.PathEscape(wordID)
	if err := c.doRequest(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete wrong answer failed: %w", err)
	}
	return nil
}

// ClearWrongAnswers removes every wrong-answer record.
func (c *Client) ClearWrongAnswers(ctx context.Context, userID string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/v1/progress/wrong-answers", nil, nil); err != nil {
		return fmt.Errorf("clear wrong answers failed: %w", err)
	}
	return nil
}

// doRequest performs one HTTP request and classifies any failure.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	reqURL := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network-level failures (refused, DNS, timeout) are always
		// retryable.
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %v", ErrTransient, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classifyStatus(resp.StatusCode, respBody)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// classifyStatus maps an HTTP error status onto the taxonomy: 5xx and
// 429 are transient, every other 4xx is a rejection.
func classifyStatus(status int, body []byte) error {
	msg := string(body)
	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		msg = errResp.Error
	}

	if status >= 500 || status == http.StatusTooManyRequests {
		return fmt.Errorf("%w: server error (%d): %s", ErrTransient, status, msg)
	}
	return fmt.Errorf("%w: (%d): %s", ErrRejected, status, msg)
}

func dateRangeQuery(from, to string) string {
	q := url.Values{}
	if from != "" {
		q.Set("from", from)
	}
	if to != "" {
		q.Set("to", to)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
