package model

import (
	"errors"
	"fmt"
	"time"
)

// Stage error taxonomy. Stages wrap these with %w so callers can branch with errors.Is.
var (
	// ErrCollectionEmpty means no search data was collected. It is a valid terminal
	// state, not a failure.
	ErrCollectionEmpty = errors.New("collection empty")

	ErrScoringUnavailable = errors.New("scoring unavailable")
	ErrParse              = errors.New("parse error")
	ErrNormalization      = errors.New("normalization error")

	// ErrPersistence is the only stage error surfaced by a run: losing history means
	// every posting is reported as new next time.
	ErrPersistence = errors.New("persistence error")

	ErrDispatch = errors.New("dispatch error")
)

// HTTPError wraps an HTTP status code returned by an external collaborator.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
