package settle

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by Validate once the Validator has been closed.
	ErrClosed = errors.New("validator closed")

	// ErrPredicateFailed classifies every failed predicate invocation.
	ErrPredicateFailed = errors.New("predicate failed")

	// ErrPredicatePanic is wrapped when the predicate panics.
	ErrPredicatePanic = errors.New("predicate panicked")
)

// FailureError describes a failed predicate invocation for a single window.
// Callers of the window only ever observe false; the cause is retained here.
type FailureError struct {
	Value any
	Err   error
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("validating %v: %v", e.Value, e.Err)
}

// Unwrap exposes both the classification and the underlying cause.
func (e *FailureError) Unwrap() []error {
	return []error{ErrPredicateFailed, e.Err}
}
