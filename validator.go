package settle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"
)

const defaultName = "validator"

// Validator is a debounced, cached validator for values of type T.
//
// Submissions arriving within the configured delay of each other are collected
// into a single window and validated once, against the most recent value.
// Outcomes are cached per value; the most recent completed outcome is exposed
// as LastResult.
//
// A Validator is safe for concurrent use. Instance configuration methods
// (Name, Delay, Negate, Default, MaxCacheSize, Clock, Metrics,
// FailureHistorySize, Configure) must be called before the first Submit.
type Validator[T comparable] struct {
	pipeline pipz.Chainable[*Request[T]]
	name     string
	negate   bool
	def      T
	hasDef   bool
	clock    clockz.Clock
	metrics  MetricsProvider
	failures *failureRing

	mu       sync.Mutex
	cache    *resultCache[T]
	debounce *debouncer
	armed    *window[T]
	inflight map[*window[T]]uint64
	fired    uint64 // sequence of the most recently fired window
	applied  uint64 // sequence of the window that last set the result
	lastErr  error
	closed   bool

	result *resultSignal
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Validator around pred.
//
// Pipeline options (With*) wrap the predicate. Instance configuration uses
// chainable methods.
//
// Example:
//
//	v := settle.New[string](
//	    checkUsername,
//	    settle.WithTimeout[string](2*time.Second),
//	).Delay(300 * time.Millisecond).Negate()
func New[T comparable](pred Predicate[T], opts ...Option[T]) *Validator[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Validator[T]{
		pipeline: buildPipeline(terminal(pred), opts),
		name:     defaultName,
		clock:    clockz.RealClock,
		cache:    newResultCache[T](DefaultMaxCacheSize),
		debounce: newDebouncer(clockz.RealClock, DefaultDelay),
		inflight: make(map[*window[T]]uint64),
		result:   newResultSignal(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Name sets the name reported in every emitted event. Default: "validator".
func (v *Validator[T]) Name(name string) *Validator[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.name = name
	return v
}

// Delay sets the quiet period a window waits before validating.
// Negative durations clamp to zero. Default: 500ms.
func (v *Validator[T]) Delay(d time.Duration) *Validator[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.debounce.cancel()
	v.debounce = newDebouncer(v.clock, d)
	return v
}

// Negate inverts the predicate's outcome. The negated outcome is what gets
// cached and reported.
func (v *Validator[T]) Negate() *Validator[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.negate = true
	return v
}

// Default sets a value that always resolves true without validation, such as
// a form field's initial value.
func (v *Validator[T]) Default(value T) *Validator[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.def = value
	v.hasDef = true
	return v
}

// MaxCacheSize bounds the number of cached outcomes. Non-positive sizes reset
// to DefaultMaxCacheSize.
func (v *Validator[T]) MaxCacheSize(n int) *Validator[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cache = newResultCache[T](n)
	return v
}

// Clock sets a custom clock for time operations.
// Use this with clockz.FakeClock for deterministic debounce testing.
func (v *Validator[T]) Clock(clock clockz.Clock) *Validator[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.clock = clock
	v.debounce.cancel()
	v.debounce = newDebouncer(clock, v.debounce.delay)
	return v
}

// Metrics sets a metrics provider for observability integration.
func (v *Validator[T]) Metrics(provider MetricsProvider) *Validator[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.metrics = provider
	return v
}

// FailureHistorySize sets the number of recent predicate failures to retain.
// Use 0 (default) to only retain the most recent failure via LastError.
func (v *Validator[T]) FailureHistorySize(n int) *Validator[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.failures = newFailureRing(n)
	return v
}

// Configure applies a parsed Config.
func (v *Validator[T]) Configure(cfg Config) *Validator[T] {
	v.Delay(cfg.delay())
	if cfg.Negate {
		v.Negate()
	}
	if cfg.MaxCacheSize > 0 {
		v.MaxCacheSize(cfg.MaxCacheSize)
	}
	return v
}

// -----------------------------------------------------------------------------
// Validation
// -----------------------------------------------------------------------------

// Submit asks whether value is acceptable. The returned channel receives
// exactly one outcome and is never left pending past Close.
//
// If the outcome is known immediately (default value, cached outcome, or a
// closed Validator) the channel is already filled when Submit returns.
func (v *Validator[T]) Submit(value T) <-chan bool {
	ch := make(chan bool, 1)
	ctx := context.Background()

	v.mu.Lock()
	name := v.name

	if v.hasDef && value == v.def {
		v.mu.Unlock()
		ch <- true
		capitan.Emit(ctx, ValidatorBypassed, KeyValidator.Field(name))
		if v.metrics != nil {
			v.metrics.OnBypass()
		}
		return ch
	}

	if v.closed {
		v.mu.Unlock()
		ch <- v.result.get()
		return ch
	}

	debounced := v.armed != nil
	if !debounced {
		if outcome, ok := v.cache.lookup(value); ok {
			size := v.cache.len()
			v.mu.Unlock()
			ch <- outcome
			capitan.Emit(ctx, CacheHit,
				KeyValidator.Field(name),
				KeyOutcome.Field(outcome),
				KeyCacheSize.Field(size),
			)
			if v.metrics != nil {
				v.metrics.OnCacheHit()
			}
			return ch
		}
		v.armed = &window[T]{}
	}

	v.armed.join(value, v.clock.Now(), ch)
	waiters := len(v.armed.waiters)
	delay := v.debounce.delay
	v.debounce.arm(v.fire)
	v.mu.Unlock()

	capitan.Emit(ctx, WindowArmed,
		KeyValidator.Field(name),
		KeyDelay.Field(delay),
		KeyWaiters.Field(waiters),
	)
	if debounced && v.metrics != nil {
		v.metrics.OnDebounced()
	}
	return ch
}

// Validate submits value and waits for its outcome. It returns ctx.Err() if
// ctx ends first, and ErrClosed alongside the last known result once the
// Validator has been closed. Predicate failures are reported as false with a
// nil error; see LastError.
func (v *Validator[T]) Validate(ctx context.Context, value T) (bool, error) {
	v.mu.Lock()
	closed := v.closed
	v.mu.Unlock()
	if closed {
		return v.result.get(), ErrClosed
	}

	select {
	case ok := <-v.Submit(value):
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// fire runs when a window's debounce timer expires.
func (v *Validator[T]) fire(ticket uint64) {
	ctx := context.Background()

	v.mu.Lock()
	if v.closed || !v.debounce.claim(ticket) || v.armed == nil {
		v.mu.Unlock()
		return
	}
	w := v.armed
	v.armed = nil
	v.fired++
	seq := v.fired
	v.inflight[w] = seq
	name := v.name
	target := w.target
	waiting := len(w.waiters)
	v.mu.Unlock()

	capitan.Emit(ctx, WindowFired,
		KeyValidator.Field(name),
		KeyWaiters.Field(waiting),
	)

	start := v.clock.Now()
	raw, err := v.invoke(target)
	elapsed := v.clock.Since(start)

	v.mu.Lock()
	delete(v.inflight, w)
	if v.closed {
		// Close already released this window's waiters.
		v.mu.Unlock()
		return
	}

	var (
		outcome  bool
		failure  *FailureError
		evicted  bool
		publish  bool
		cacheLen int
	)
	if err == nil {
		outcome = raw != v.negate
		_, evicted = v.cache.insert(target, outcome)
	} else {
		failure = &FailureError{Value: target, Err: err}
		v.lastErr = failure
		v.failures.push(failure)
	}
	if seq > v.applied {
		// A window fired later may already have settled; its result stands.
		v.applied = seq
		publish = true
	}
	cacheLen = v.cache.len()
	waiters := w.settle()
	v.mu.Unlock()

	if failure != nil {
		capitan.Emit(ctx, PredicateFailed,
			KeyValidator.Field(name),
			KeyError.Field(failure.Error()),
			KeyDuration.Field(elapsed),
		)
		if v.metrics != nil {
			v.metrics.OnPredicateFailure(elapsed)
		}
	} else {
		capitan.Emit(ctx, PredicateSucceeded,
			KeyValidator.Field(name),
			KeyOutcome.Field(outcome),
			KeyDuration.Field(elapsed),
			KeyCacheSize.Field(cacheLen),
		)
		if v.metrics != nil {
			v.metrics.OnPredicateSuccess(elapsed)
		}
	}
	if evicted {
		capitan.Emit(ctx, CacheEvicted,
			KeyValidator.Field(name),
			KeyCacheSize.Field(cacheLen),
		)
		if v.metrics != nil {
			v.metrics.OnCacheEvict()
		}
	}

	if publish && v.result.set(outcome) {
		capitan.Emit(ctx, ResultChanged,
			KeyValidator.Field(name),
			KeyOutcome.Field(outcome),
		)
		if v.metrics != nil {
			v.metrics.OnResultChange(outcome)
		}
	}

	release(waiters, outcome)
}

// invoke runs the predicate pipeline once, converting panics into errors.
func (v *Validator[T]) invoke(value T) (valid bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			valid = false
			err = fmt.Errorf("%w: %v", ErrPredicatePanic, r)
		}
	}()

	req, err := v.pipeline.Process(v.ctx, &Request[T]{Value: value})
	if err != nil {
		return false, err
	}
	return req.Valid, nil
}

// -----------------------------------------------------------------------------
// Teardown
// -----------------------------------------------------------------------------

// Close tears the Validator down. It cancels the armed timer, resolves every
// waiting caller with the last known result, and cancels the context passed
// to predicate calls still in flight; their late outcomes are discarded.
//
// Close is idempotent and always returns nil.
func (v *Validator[T]) Close() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	v.closed = true
	name := v.name
	v.debounce.cancel()

	var waiters []chan<- bool
	if v.armed != nil {
		waiters = append(waiters, v.armed.settle()...)
		v.armed = nil
	}
	for w := range v.inflight {
		waiters = append(waiters, w.settle()...)
	}
	clear(v.inflight)
	v.mu.Unlock()

	v.cancel()
	last := v.result.get()
	release(waiters, last)
	v.result.clear()

	capitan.Emit(context.Background(), ValidatorClosed,
		KeyValidator.Field(name),
		KeyWaiters.Field(len(waiters)),
		KeyOutcome.Field(last),
	)
	return nil
}

// -----------------------------------------------------------------------------
// Introspection
// -----------------------------------------------------------------------------

// LastResult returns the outcome of the most recently fired window to settle.
// It starts false and is not changed by default bypasses or cache hits.
func (v *Validator[T]) LastResult() bool {
	return v.result.get()
}

// Watch registers fn to be called whenever LastResult changes. fn runs on the
// goroutine that settled the window and must not block. The returned function
// unregisters fn; Close unregisters every watcher.
func (v *Validator[T]) Watch(fn func(bool)) (stop func()) {
	return v.result.watch(fn)
}

// State returns the current state of the Validator.
func (v *Validator[T]) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case v.closed:
		return StateClosed
	case v.armed != nil:
		return StateDebouncing
	case len(v.inflight) > 0:
		return StateValidating
	default:
		return StateIdle
	}
}

// LastError returns the most recent predicate failure, or nil if none
// occurred. The returned error is a *FailureError.
func (v *Validator[T]) LastError() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

// FailureHistory returns recent predicate failures, oldest first.
// Returns nil unless FailureHistorySize was set.
func (v *Validator[T]) FailureHistory() []*FailureError {
	v.mu.Lock()
	ring := v.failures
	v.mu.Unlock()
	return ring.all()
}

// CacheLen returns the number of cached outcomes.
func (v *Validator[T]) CacheLen() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cache.len()
}
