package api

import "errors"

// Remote store error taxonomy. Every failure from the remote adapter
// wraps exactly one of these, so the orchestrator can decide retry vs
// drop with errors.Is and nothing else.
var (
	// ErrTransient marks retryable failures: network errors, timeouts,
	// 5xx responses, rate limiting. The offending queue entry stays
	// queued and is retried on the next drain trigger.
	ErrTransient = errors.New("transient remote error")

	// ErrRejected marks non-retryable failures: auth and validation
	// errors. A queued entry that is rejected will never succeed and
	// is dropped with a warning.
	ErrRejected = errors.New("remote store rejected request")
)
