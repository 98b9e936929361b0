package settle

import (
	"context"

	"github.com/zoobzio/pipz"
)

// Request carries one predicate invocation through the processing pipeline.
type Request[T comparable] struct {
	// Value is the window's target value, the most recent value submitted
	// before the debounce timer fired.
	Value T

	// Valid is the raw predicate outcome, before negation. The terminal stage
	// sets it; middleware placed after a fallback may overwrite it.
	Valid bool
}

// Terminal is the final processing stage in a Validator pipeline.
type Terminal[T comparable] pipz.Chainable[*Request[T]]

// Identities for the built-in pipeline stages.
var (
	predicateID      = pipz.NewIdentity("settle:predicate", "Invokes the validation predicate")
	retryID          = pipz.NewIdentity("settle:retry", "Retries failed predicate calls")
	backoffID        = pipz.NewIdentity("settle:backoff", "Retries failed predicate calls with exponential backoff")
	timeoutID        = pipz.NewIdentity("settle:timeout", "Bounds predicate call duration")
	circuitBreakerID = pipz.NewIdentity("settle:circuit-breaker", "Stops calling a failing predicate")
	fallbackID       = pipz.NewIdentity("settle:fallback", "Tries alternative predicates on failure")
	errorHandlerID   = pipz.NewIdentity("settle:error-handler", "Observes predicate failures")
	middlewareID     = pipz.NewIdentity("settle:middleware", "Runs middleware before the predicate")
	filterID         = pipz.NewIdentity("settle:filter", "Skips the predicate for values failing a local check")
)

// terminal wraps a Predicate as the last pipeline stage.
func terminal[T comparable](pred Predicate[T]) pipz.Chainable[*Request[T]] {
	return pipz.Apply(predicateID, func(ctx context.Context, req *Request[T]) (*Request[T], error) {
		ok, err := pred(ctx, req.Value)
		if err != nil {
			return req, err
		}
		req.Valid = ok
		return req, nil
	})
}

// AsTerminal exposes a Predicate as a pipeline stage, for use with WithFallback.
func AsTerminal[T comparable](pred Predicate[T]) Terminal[T] {
	return terminal(pred)
}
