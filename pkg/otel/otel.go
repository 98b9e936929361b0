// Package otel provides a settle.MetricsProvider that records to
// OpenTelemetry instruments.
//
//	provider, err := otel.New(meterProvider.Meter("settle"), otel.WithValidator("username"))
//	if err != nil {
//	    return err
//	}
//	v := settle.New[string](check).Name("username").Metrics(provider)
//
// Traced wraps a predicate in a span per call. NewReader and
// NewSpanExporter build SDK readers and exporters by name.
package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/zoobzio/settle"
)

// Instrument names.
const (
	MetricResolutions = "settle.resolutions"
	MetricDebounced   = "settle.debounced"
	MetricEvictions   = "settle.cache.evictions"
	MetricPredicate   = "settle.predicate.calls"
	MetricDuration    = "settle.predicate.duration_ms"
	MetricResult      = "settle.result"
)

// Attribute keys.
const (
	AttrValidator = attribute.Key("settle.validator")
	AttrSource    = attribute.Key("settle.source")
	AttrStatus    = attribute.Key("settle.status")
)

// Provider records Validator events to OpenTelemetry. Safe for concurrent use.
type Provider struct {
	attrs       []attribute.KeyValue
	resolutions metric.Int64Counter
	debounced   metric.Int64Counter
	evictions   metric.Int64Counter
	calls       metric.Int64Counter
	duration    metric.Float64Histogram
	result      metric.Int64Gauge
}

// Option configures a Provider.
type Option func(*Provider)

// WithValidator tags every measurement with the validator's name.
func WithValidator(name string) Option {
	return func(p *Provider) {
		p.attrs = append(p.attrs, AttrValidator.String(name))
	}
}

// WithAttributes adds attributes to every measurement.
func WithAttributes(attrs ...attribute.KeyValue) Option {
	return func(p *Provider) {
		p.attrs = append(p.attrs, attrs...)
	}
}

// New creates the Provider's instruments on meter.
func New(meter metric.Meter, opts ...Option) (*Provider, error) {
	p := &Provider{}
	for _, opt := range opts {
		opt(p)
	}

	var err error
	if p.resolutions, err = meter.Int64Counter(
		MetricResolutions,
		metric.WithDescription("Submissions resolved without calling the predicate"),
		metric.WithUnit("{resolution}"),
	); err != nil {
		return nil, err
	}
	if p.debounced, err = meter.Int64Counter(
		MetricDebounced,
		metric.WithDescription("Submissions that joined an already armed window"),
		metric.WithUnit("{submission}"),
	); err != nil {
		return nil, err
	}
	if p.evictions, err = meter.Int64Counter(
		MetricEvictions,
		metric.WithDescription("Cached outcomes evicted to make room"),
		metric.WithUnit("{entry}"),
	); err != nil {
		return nil, err
	}
	if p.calls, err = meter.Int64Counter(
		MetricPredicate,
		metric.WithDescription("Predicate invocations by status"),
		metric.WithUnit("{call}"),
	); err != nil {
		return nil, err
	}
	if p.duration, err = meter.Float64Histogram(
		MetricDuration,
		metric.WithDescription("Predicate duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	if p.result, err = meter.Int64Gauge(
		MetricResult,
		metric.WithDescription("Last published result, 1 for valid and 0 for invalid"),
	); err != nil {
		return nil, err
	}
	return p, nil
}

var _ settle.MetricsProvider = (*Provider)(nil)

func (p *Provider) with(extra ...attribute.KeyValue) metric.MeasurementOption {
	attrs := make([]attribute.KeyValue, 0, len(p.attrs)+len(extra))
	attrs = append(attrs, p.attrs...)
	attrs = append(attrs, extra...)
	return metric.WithAttributes(attrs...)
}

// OnBypass counts a default-value resolution.
func (p *Provider) OnBypass() {
	p.resolutions.Add(context.Background(), 1, p.with(AttrSource.String("default")))
}

// OnCacheHit counts a cached resolution.
func (p *Provider) OnCacheHit() {
	p.resolutions.Add(context.Background(), 1, p.with(AttrSource.String("cache")))
}

// OnCacheEvict counts an eviction.
func (p *Provider) OnCacheEvict() {
	p.evictions.Add(context.Background(), 1, p.with())
}

// OnDebounced counts a submission that reset an armed window.
func (p *Provider) OnDebounced() {
	p.debounced.Add(context.Background(), 1, p.with())
}

// OnPredicateSuccess records a completed predicate call.
func (p *Provider) OnPredicateSuccess(d time.Duration) {
	p.predicate("success", d)
}

// OnPredicateFailure records a failed predicate call.
func (p *Provider) OnPredicateFailure(d time.Duration) {
	p.predicate("failure", d)
}

func (p *Provider) predicate(status string, d time.Duration) {
	ctx := context.Background()
	opt := p.with(AttrStatus.String(status))
	p.calls.Add(ctx, 1, opt)
	p.duration.Record(ctx, float64(d)/float64(time.Millisecond), opt)
}

// OnResultChange records the new result.
func (p *Provider) OnResultChange(valid bool) {
	var v int64
	if valid {
		v = 1
	}
	p.result.Record(context.Background(), v, p.with())
}
