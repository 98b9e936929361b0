package settle

import "github.com/zoobzio/pipz"

// WithFallback tries each fallback in order when the predicate fails. The
// first fallback to succeed decides the window.
func WithFallback[T comparable](fallbacks ...Terminal[T]) Option[T] {
	return func(p pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
		all := make([]pipz.Chainable[*Request[T]], 0, len(fallbacks)+1)
		all = append(all, p)
		for _, f := range fallbacks {
			all = append(all, f)
		}
		return pipz.NewFallback(fallbackID, all...)
	}
}
