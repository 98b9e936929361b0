// Package settle provides a debounced, cached, race-free asynchronous validator.
//
// The core type is Validator, which answers "is this value acceptable?" for a
// stream of candidate values arriving at arbitrary rate. Values are collected
// into debounce windows; when a window goes quiet the predicate is invoked once
// with the most recent value and every caller that joined the window receives
// the same outcome.
//
// # Resolution
//
// Each submitted value is resolved in this order:
//
//   - Default bypass: a value equal to the configured default resolves true
//     without touching the cache, the scheduler or the predicate.
//   - Cache: a previously computed outcome resolves immediately, provided no
//     window is armed.
//   - Window: the value joins the armed window (opening one if needed) and the
//     debounce timer is re-armed.
//
// Values are compared with ==, so T must be comparable. Pointer types are
// compared by identity: two distinct pointers to structurally equal values are
// different cache keys and are validated separately.
//
// # Failure
//
// A predicate that returns an error or panics fails its window closed: every
// waiter receives false, the last result becomes false, and nothing is cached.
//
// # Observability
//
// Decisions are emitted as capitan signals (see signals.go) and, optionally,
// reported to a MetricsProvider.
//
// # Example
//
//	exists := lookup.New("https://api.example.com/users/exists")
//
//	v := settle.New[string](exists).
//	    Name("username").
//	    Delay(300 * time.Millisecond).
//	    Negate().
//	    Default("")
//	defer v.Close()
//
//	ok, err := v.Validate(ctx, "gopher")
package settle
