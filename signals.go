package settle

import "github.com/zoobzio/capitan"

// Resolution signals.
var (
	// ValidatorBypassed is emitted when a value equal to the default resolves
	// true without validation.
	ValidatorBypassed = capitan.NewSignal(
		"settle.validator.bypassed",
		"Default value resolved without validation",
	)

	// CacheHit is emitted when a value resolves from the result cache.
	CacheHit = capitan.NewSignal(
		"settle.cache.hit",
		"Value resolved from cached outcome",
	)

	// CacheEvicted is emitted when the oldest cached outcome is dropped.
	CacheEvicted = capitan.NewSignal(
		"settle.cache.evicted",
		"Oldest cached outcome evicted",
	)
)

// Window signals.
var (
	// WindowArmed is emitted each time the debounce timer is (re)armed.
	WindowArmed = capitan.NewSignal(
		"settle.window.armed",
		"Debounce timer armed",
	)

	// WindowFired is emitted when a window's timer expires and its predicate
	// call begins.
	WindowFired = capitan.NewSignal(
		"settle.window.fired",
		"Debounce window fired",
	)

	// PredicateSucceeded is emitted when a window's predicate call completes.
	PredicateSucceeded = capitan.NewSignal(
		"settle.predicate.succeeded",
		"Predicate call completed",
	)

	// PredicateFailed is emitted when a window's predicate call fails.
	PredicateFailed = capitan.NewSignal(
		"settle.predicate.failed",
		"Predicate call failed",
	)
)

// Lifecycle signals.
var (
	// ResultChanged is emitted when the last known result changes.
	ResultChanged = capitan.NewSignal(
		"settle.result.changed",
		"Last known result changed",
	)

	// ValidatorClosed is emitted when a Validator is torn down.
	ValidatorClosed = capitan.NewSignal(
		"settle.validator.closed",
		"Validator closed",
	)
)
