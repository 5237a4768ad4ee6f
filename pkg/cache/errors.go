package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")

	// ErrNetwork matches every failure talking to a remote backend.
	ErrNetwork = errors.New("network error")
)

// BackendError is a failed operation against a remote backend. It matches
// ErrNetwork and the driver error with errors.Is.
type BackendError struct {
	Backend string // "redis" or "mongo"
	Op      string
	Err     error
}

func backendError(backend, op string, err error) *BackendError {
	return &BackendError{Backend: backend, Op: op, Err: err}
}

func (e *BackendError) Error() string {
	return ErrNetwork.Error() + ": " + e.Backend + " " + e.Op + ": " + e.Err.Error()
}

func (e *BackendError) Unwrap() []error { return []error{ErrNetwork, e.Err} }

// RetryableError marks an error as transient.
type RetryableError struct{ Err error }

// Retryable wraps err as transient. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was wrapped with Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

const retryAttempts = 3

// retryDelay is the wait before the second attempt; it doubles after that.
var retryDelay = time.Second

// RetryWithBackoff calls fn until it succeeds, returns an error that is not
// Retryable, or has failed retryAttempts times.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
