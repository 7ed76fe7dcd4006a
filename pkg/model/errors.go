package model

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrTransport means the indexing service was unreachable or returned a
	// malformed response. Recoverable: one-shot callers surface a manual
	// retry, pollers retry on the next tick.
	ErrTransport = errors.New("service unreachable")

	// ErrNotFound means a referenced document or entity no longer exists
	// server-side.
	ErrNotFound = errors.New("not found")

	// ErrEmptySelection means the operation needs at least one document id
	// but none was given. Not a failure; recovered by user action.
	ErrEmptySelection = errors.New("no documents selected")

	// ErrStreamAborted means a chat stream ended before its final marker.
	ErrStreamAborted = errors.New("stream aborted")
)

// ServiceError provides structured error information for service operations.
type ServiceError struct {
	Op     string // Operation that failed (e.g., "FetchGraph", "CancelIndexing")
	Target string // Document or conversation id (if applicable)
	Status int    // HTTP status (if a response was received)
	Cause  error  // Underlying error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *ServiceError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// NewServiceError builds a ServiceError for the given operation.
func NewServiceError(op, target string, cause error) *ServiceError {
	return &ServiceError{Op: op, Target: target, Cause: cause}
}

// IsRetriable reports whether the error is worth an automatic retry on the
// next poll tick. Not-found and empty-selection errors are not: they will not
// heal on their own.
func IsRetriable(err error) bool {
	return errors.Is(err, ErrTransport)
}
