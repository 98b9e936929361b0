package settle

import (
	"time"

	"github.com/zoobzio/pipz"
)

// WithTimeout bounds each predicate call. A call that exceeds d has its
// context canceled and fails its window closed.
func WithTimeout[T comparable](d time.Duration) Option[T] {
	return func(p pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
		return pipz.NewTimeout(timeoutID, p, d)
	}
}
