package settle

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"
)

// Test identities for options tests.
var (
	testTrimID          = pipz.NewIdentity("test:trim", "Test trim processor")
	testLogID           = pipz.NewIdentity("test:log", "Test log effect")
	testRejectID        = pipz.NewIdentity("test:reject", "Test rejecting effect")
	testFallbackID      = pipz.NewIdentity("test:fallback", "Test fallback terminal")
	testErrorObserverID = pipz.NewIdentity("test:error-observer", "Test error observer")
)

var errUnavailable = errors.New("lookup unavailable")

func TestWithRetry_RetriesOnFailure(t *testing.T) {
	clock := clockz.NewFakeClock()

	var attempts int32
	v := New[string](
		func(_ context.Context, s string) (bool, error) {
			if atomic.AddInt32(&attempts, 1) < 3 {
				return false, errUnavailable
			}
			return s == "gopher", nil
		},
		WithRetry[string](3),
	).Clock(clock).Delay(10 * time.Millisecond)
	defer v.Close()

	if !validated(t, v, clock, "gopher") {
		t.Error("expected success after retries")
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
	if v.LastError() != nil {
		t.Errorf("expected no failure, got %v", v.LastError())
	}
}

func TestWithRetry_ExhaustedFailsClosed(t *testing.T) {
	clock := clockz.NewFakeClock()

	var attempts int32
	v := New[string](
		func(context.Context, string) (bool, error) {
			atomic.AddInt32(&attempts, 1)
			return false, errUnavailable
		},
		WithRetry[string](2),
	).Clock(clock).Delay(10 * time.Millisecond)
	defer v.Close()

	if validated(t, v, clock, "gopher") {
		t.Error("expected failure to resolve false")
	}
	if got := atomic.LoadInt32(&attempts); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
	if !errors.Is(v.LastError(), errUnavailable) {
		t.Errorf("expected errUnavailable, got %v", v.LastError())
	}
}

func TestWithBackoff_RetriesWithDelay(t *testing.T) {
	clock := clockz.NewFakeClock()

	var attempts int32
	v := New[string](
		func(context.Context, string) (bool, error) {
			if atomic.AddInt32(&attempts, 1) < 2 {
				return false, errUnavailable
			}
			return true, nil
		},
		WithBackoff[string](3, time.Millisecond),
	).Clock(clock).Delay(10 * time.Millisecond)
	defer v.Close()

	if !validated(t, v, clock, "gopher") {
		t.Error("expected success after backoff")
	}
	if got := atomic.LoadInt32(&attempts); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestWithTimeout_SlowPredicateFails(t *testing.T) {
	clock := clockz.NewFakeClock()

	v := New[string](
		func(ctx context.Context, _ string) (bool, error) {
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(time.Second):
				return true, nil
			}
		},
		WithTimeout[string](20*time.Millisecond),
	).Clock(clock).Delay(10 * time.Millisecond)
	defer v.Close()

	if validated(t, v, clock, "gopher") {
		t.Error("expected timed out predicate to resolve false")
	}
	if !errors.Is(v.LastError(), ErrPredicateFailed) {
		t.Errorf("expected ErrPredicateFailed, got %v", v.LastError())
	}
}

func TestWithCircuitBreaker_StopsCallingFailingPredicate(t *testing.T) {
	clock := clockz.NewFakeClock()

	var calls int32
	v := New[string](
		func(context.Context, string) (bool, error) {
			atomic.AddInt32(&calls, 1)
			return false, errUnavailable
		},
		WithCircuitBreaker[string](2, time.Minute),
	).Clock(clock).Delay(10 * time.Millisecond)
	defer v.Close()

	for _, value := range []string{"a", "b", "c", "d"} {
		if validated(t, v, clock, value) {
			t.Errorf("expected %q to resolve false", value)
		}
	}

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 predicate calls before the circuit opened, got %d", got)
	}
}

func TestWithFallback_UsesFallbackOnFailure(t *testing.T) {
	clock := clockz.NewFakeClock()

	var primaryCalled, fallbackCalled bool
	fallback := UseApply[string](testFallbackID, func(_ context.Context, req *Request[string]) (*Request[string], error) {
		fallbackCalled = true
		req.Valid = req.Value == "gopher"
		return req, nil
	})

	v := New[string](
		func(context.Context, string) (bool, error) {
			primaryCalled = true
			return false, errUnavailable
		},
		WithFallback[string](fallback),
	).Clock(clock).Delay(10 * time.Millisecond)
	defer v.Close()

	if !validated(t, v, clock, "gopher") {
		t.Error("expected fallback outcome true")
	}
	if !primaryCalled {
		t.Error("expected primary to be called first")
	}
	if !fallbackCalled {
		t.Error("expected fallback to be called after primary failed")
	}
	if v.LastError() != nil {
		t.Errorf("expected no failure, got %v", v.LastError())
	}
}

func TestWithFallback_AsTerminal(t *testing.T) {
	clock := clockz.NewFakeClock()

	v := New[string](
		func(context.Context, string) (bool, error) { return false, errUnavailable },
		WithFallback(AsTerminal[string](isGopher)),
	).Clock(clock).Delay(10 * time.Millisecond)
	defer v.Close()

	if !validated(t, v, clock, "gopher") {
		t.Error("expected fallback predicate to accept gopher")
	}
	if validated(t, v, clock, "mole") {
		t.Error("expected fallback predicate to reject mole")
	}
}

func TestWithErrorHandler_ObservesFailures(t *testing.T) {
	clock := clockz.NewFakeClock()

	var mu sync.Mutex
	var observed string
	handler := pipz.Effect(testErrorObserverID, func(_ context.Context, err *pipz.Error[*Request[string]]) error {
		mu.Lock()
		defer mu.Unlock()
		observed = err.Err.Error()
		return nil
	})

	v := New[string](
		func(context.Context, string) (bool, error) { return false, errUnavailable },
		WithErrorHandler[string](handler),
	).Clock(clock).Delay(10 * time.Millisecond)
	defer v.Close()

	if validated(t, v, clock, "gopher") {
		t.Error("expected handled failure to still resolve false")
	}

	mu.Lock()
	defer mu.Unlock()
	if !strings.Contains(observed, errUnavailable.Error()) {
		t.Errorf("expected observed error %q, got %q", errUnavailable, observed)
	}
}

func TestWithMiddleware_RewritesBeforePredicate(t *testing.T) {
	clock := clockz.NewFakeClock()
	rec := newRecorder(isGopher)

	var logged atomic.Value
	v := New[string](
		rec.predicate,
		WithMiddleware(
			UseEffect[string](testLogID, func(_ context.Context, req *Request[string]) error {
				logged.Store(req.Value)
				return nil
			}),
			UseApply[string](testTrimID, func(_ context.Context, req *Request[string]) (*Request[string], error) {
				req.Value = strings.TrimSpace(req.Value)
				return req, nil
			}),
		),
	).Clock(clock).Delay(10 * time.Millisecond)
	defer v.Close()

	if !validated(t, v, clock, "  gopher ") {
		t.Error("expected trimmed value to validate")
	}
	if got := logged.Load(); got != "  gopher " {
		t.Errorf("expected effect to see raw value, got %v", got)
	}
	if calls := rec.Calls(); len(calls) != 1 || calls[0] != "gopher" {
		t.Errorf("expected predicate called with trimmed value, got %v", calls)
	}

	// The cache is keyed by the submitted value, not the rewritten one.
	if ok, hit := resolved(v.Submit("  gopher ")); !hit || !ok {
		t.Error("expected cache hit for submitted value")
	}
}

func TestWithMiddleware_EffectErrorFailsWindow(t *testing.T) {
	clock := clockz.NewFakeClock()
	rec := newRecorder(always(true))

	v := New[string](
		rec.predicate,
		WithMiddleware(UseEffect[string](testRejectID, func(context.Context, *Request[string]) error {
			return errUnavailable
		})),
	).Clock(clock).Delay(10 * time.Millisecond)
	defer v.Close()

	if validated(t, v, clock, "gopher") {
		t.Error("expected middleware error to resolve false")
	}
	if rec.Count() != 0 {
		t.Errorf("expected predicate to be skipped, got %d calls", rec.Count())
	}
	if v.CacheLen() != 0 {
		t.Errorf("expected failure not cached, got %d entries", v.CacheLen())
	}
}

func TestBuildPipeline_NoOptionsIsTerminal(t *testing.T) {
	pipeline := buildPipeline(terminal[string](isGopher), nil)

	req, err := pipeline.Process(context.Background(), &Request[string]{Value: "gopher"})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !req.Valid {
		t.Error("expected Valid to be set by the terminal")
	}
}

func TestWithFilter_SkipsPredicateForRejectedValues(t *testing.T) {
	clock := clockz.NewFakeClock()
	rec := newRecorder(always(true))

	v := New[string](
		rec.predicate,
		WithFilter[string](func(s string) bool { return len(s) >= 3 }),
	).Clock(clock).Delay(10 * time.Millisecond)
	defer v.Close()

	if validated(t, v, clock, "go") {
		t.Error("expected filtered value to resolve false")
	}
	if rec.Count() != 0 {
		t.Errorf("expected predicate to be skipped, got %d calls", rec.Count())
	}

	if !validated(t, v, clock, "gopher") {
		t.Error("expected passing value to reach the predicate")
	}
	if calls := rec.Calls(); len(calls) != 1 || calls[0] != "gopher" {
		t.Errorf("expected one call for gopher, got %v", calls)
	}

	// The filtered outcome is cached.
	if ok, hit := resolved(v.Submit("go")); !hit || ok {
		t.Error("expected cached false for filtered value")
	}
}
