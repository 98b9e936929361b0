package settle

import (
	"context"

	"github.com/zoobzio/pipz"
)

// Option configures the predicate pipeline of a Validator. Pipeline options
// wrap the predicate with retry, timeout, circuit breaking and other
// reliability patterns.
//
// Instance configuration (delay, negation, default value, cache size, clock)
// is handled via chainable methods on the Validator.
type Option[T comparable] func(pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]]

// buildPipeline wraps a terminal with pipeline options.
func buildPipeline[T comparable](term pipz.Chainable[*Request[T]], opts []Option[T]) pipz.Chainable[*Request[T]] {
	pipeline := term
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}
	return pipeline
}

// -----------------------------------------------------------------------------
// Pipeline Options - Wrapping (With*)
// -----------------------------------------------------------------------------
// WithRetry, WithBackoff, WithTimeout, WithCircuitBreaker, WithFallback,
// WithErrorHandler and WithFilter live alongside their concerns.

// WithMiddleware runs processors in order before the predicate.
func WithMiddleware[T comparable](processors ...pipz.Chainable[*Request[T]]) Option[T] {
	return func(p pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
		all := make([]pipz.Chainable[*Request[T]], 0, len(processors)+1)
		all = append(all, processors...)
		all = append(all, p)
		return pipz.NewSequence(middlewareID, all...)
	}
}

// -----------------------------------------------------------------------------
// Middleware Processors (Use*)
// -----------------------------------------------------------------------------

// UseEffect creates a processor that performs a side effect, such as logging
// the value about to be validated. Returning an error fails the window.
func UseEffect[T comparable](identity pipz.Identity, fn func(context.Context, *Request[T]) error) pipz.Chainable[*Request[T]] {
	return pipz.Effect(identity, fn)
}

// UseApply creates a processor that may rewrite the request or fail, such as
// normalizing the value before the predicate sees it. The cache key remains
// the submitted value.
func UseApply[T comparable](identity pipz.Identity, fn func(context.Context, *Request[T]) (*Request[T], error)) pipz.Chainable[*Request[T]] {
	return pipz.Apply(identity, fn)
}
