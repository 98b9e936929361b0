package settle

import (
	"time"

	"github.com/zoobzio/pipz"
)

// WithCircuitBreaker stops calling the predicate after 'failures' consecutive
// failures and rejects windows until 'recovery' has passed. Rejected windows
// fail closed like any other failure.
//
// Example:
//
//	// Stop hammering a failing lookup service for 30 seconds
//	v := settle.New[string](lookup, settle.WithCircuitBreaker[string](5, 30*time.Second))
func WithCircuitBreaker[T comparable](failures int, recovery time.Duration) Option[T] {
	return func(p pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
		return pipz.NewCircuitBreaker(circuitBreakerID, p, failures, recovery)
	}
}
