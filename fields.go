package settle

import "github.com/zoobzio/capitan"

// Field keys for Validator events.
var (
	// KeyValidator is the name of the Validator emitting the event.
	KeyValidator = capitan.NewStringKey("validator")

	// KeyState is the state of the Validator.
	KeyState = capitan.NewStringKey("state")

	// KeyDelay is the configured debounce delay.
	KeyDelay = capitan.NewDurationKey("delay")

	// KeyDuration is how long a predicate call took.
	KeyDuration = capitan.NewDurationKey("duration")

	// KeyWaiters is the number of callers waiting on a window.
	KeyWaiters = capitan.NewIntKey("waiters")

	// KeyCacheSize is the number of cached outcomes.
	KeyCacheSize = capitan.NewIntKey("cache_size")

	// KeyOutcome is the resolved outcome.
	KeyOutcome = capitan.NewBoolKey("outcome")

	// KeyError is the error message when a predicate call fails.
	KeyError = capitan.NewStringKey("error")
)
