package model

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors shared across the pipeline
var (
	// ErrRateLimited marks a provider throttling response. Callers may
	// retry after the hinted delay.
	ErrRateLimited = errors.New("provider rate limited")

	// ErrMaxAttemptsExceeded means a retry loop exhausted its attempt budget
	ErrMaxAttemptsExceeded = errors.New("max attempts exceeded")

	// ErrEmbeddingFailed marks a node whose embedding could not be
	// generated; ingestion of sibling nodes continues.
	ErrEmbeddingFailed = errors.New("embedding generation failed")

	// ErrStoreWriteFailed means a document's batch commit was rejected as a
	// whole; no partial hierarchy is persisted.
	ErrStoreWriteFailed = errors.New("store write failed")

	// ErrOversizedItem means a single item's estimated prompt size exceeds
	// the hard input limit and cannot be split further.
	ErrOversizedItem = errors.New("single item exceeds input size limit")

	// ErrMalformedResponse means the model output could not be parsed even
	// after best-effort repair.
	ErrMalformedResponse = errors.New("malformed model response")
)

// rateLimitedError carries the provider-suggested retry delay, when the
// throttling response included one.
type rateLimitedError struct {
	retryAfter time.Duration
	cause      error
}

// NewRateLimitedError wraps a provider throttling error with its suggested
// retry delay. A zero delay means the provider gave no hint.
func NewRateLimitedError(retryAfter time.Duration, cause error) error {
	return &rateLimitedError{retryAfter: retryAfter, cause: cause}
}

func (e *rateLimitedError) Error() string {
	if e.retryAfter > 0 {
		return fmt.Sprintf("%s (retry after %s)", ErrRateLimited.Error(), e.retryAfter)
	}
	return ErrRateLimited.Error()
}

func (e *rateLimitedError) Unwrap() []error {
	if e.cause != nil {
		return []error{ErrRateLimited, e.cause}
	}
	return []error{ErrRateLimited}
}

// RetryAfterHint extracts the provider-suggested retry delay from an error
// chain. It returns 0 when no hint is available.
func RetryAfterHint(err error) time.Duration {
	var rle *rateLimitedError
	if errors.As(err, &rle) {
		return rle.retryAfter
	}
	return 0
}
