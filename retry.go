package settle

import (
	"time"

	"github.com/zoobzio/pipz"
)

// WithRetry retries a failed predicate call immediately, up to maxAttempts
// attempts in total. A window only fails once every attempt has failed.
//
// Example:
//
//	v := settle.New[string](lookup, settle.WithRetry[string](3))
func WithRetry[T comparable](maxAttempts int) Option[T] {
	return func(p pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
		return pipz.NewRetry(retryID, p, maxAttempts)
	}
}

// WithBackoff retries a failed predicate call with delays of baseDelay,
// 2*baseDelay, 4*baseDelay and so on.
//
// This is preferred over WithRetry for lookups that fail under load. The
// window stays in flight, and its callers waiting, for the whole sequence.
func WithBackoff[T comparable](maxAttempts int, baseDelay time.Duration) Option[T] {
	return func(p pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
		return pipz.NewBackoff(backoffID, p, maxAttempts, baseDelay)
	}
}
