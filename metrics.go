package settle

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus,
// StatsD or OpenTelemetry (see pkg/otel). Implementations must be safe for
// concurrent use.
type MetricsProvider interface {
	// OnBypass is called when a default value resolves without validation.
	OnBypass()

	// OnCacheHit is called when a value resolves from the cache.
	OnCacheHit()

	// OnCacheEvict is called when the oldest cached outcome is evicted.
	OnCacheEvict()

	// OnDebounced is called when a submission joins a window that was
	// already armed, superseding its previous target.
	OnDebounced()

	// OnPredicateSuccess is called when a predicate call completes.
	OnPredicateSuccess(duration time.Duration)

	// OnPredicateFailure is called when a predicate call fails.
	OnPredicateFailure(duration time.Duration)

	// OnResultChange is called when the last known result changes.
	OnResultChange(result bool)
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnBypass()                        {}
func (NoOpMetricsProvider) OnCacheHit()                      {}
func (NoOpMetricsProvider) OnCacheEvict()                    {}
func (NoOpMetricsProvider) OnDebounced()                     {}
func (NoOpMetricsProvider) OnPredicateSuccess(time.Duration) {}
func (NoOpMetricsProvider) OnPredicateFailure(time.Duration) {}
func (NoOpMetricsProvider) OnResultChange(bool)              {}
