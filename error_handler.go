package settle

import "github.com/zoobzio/pipz"

// WithErrorHandler passes predicate failures to handler for logging or
// alerting. The failure still fails the window.
//
// Example:
//
//	alert := pipz.Effect(alertID, func(ctx context.Context, err *pipz.Error[*settle.Request[string]]) error {
//	    log.Printf("lookup failed: %v", err.Err)
//	    return nil
//	})
//	v := settle.New[string](lookup, settle.WithErrorHandler[string](alert))
func WithErrorHandler[T comparable](handler pipz.Chainable[*pipz.Error[*Request[T]]]) Option[T] {
	return func(p pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
		return pipz.NewHandle(errorHandlerID, p, handler)
	}
}
