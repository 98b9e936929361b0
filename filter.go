package settle

import (
	"context"

	"github.com/zoobzio/pipz"
)

// WithFilter runs the predicate only for values that pass check. Values
// rejected by check settle their window as invalid without calling the
// predicate, and that outcome is cached like any other.
//
// Use it to keep cheap local rules in front of an expensive lookup:
//
//	v := settle.New[string](lookup, settle.WithFilter[string](func(s string) bool {
//	    return len(s) >= 3
//	}))
func WithFilter[T comparable](check func(T) bool) Option[T] {
	return func(p pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
		return pipz.NewFilter(filterID, func(_ context.Context, req *Request[T]) bool {
			return check(req.Value)
		}, p)
	}
}
