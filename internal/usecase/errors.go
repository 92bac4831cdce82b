package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrPreconditionFailed    = errors.New("precondition failed")
	ErrDuplicateSubmission   = errors.New("duplicate submission")
	ErrConflict              = errors.New("concurrent modification")
	ErrRateLimited           = errors.New("rate limited")
	ErrTimeout               = errors.New("persistence timeout")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// RateLimitedError carries how long the caller should wait before retrying.
type RateLimitedError struct {
	Key        string
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s: key=%s retry_after=%s", ErrRateLimited, e.Key, e.RetryAfter)
}

func (e *RateLimitedError) Unwrap() error {
	return ErrRateLimited
}

// infraError classifies a persistence failure. Deadlines surface as
// ErrTimeout, everything else as ErrDependencyUnavailable.
func infraError(op string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s: %w", ErrTimeout, op, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrDependencyUnavailable, op, err)
	}
}
