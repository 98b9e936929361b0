package settle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

// recorder is a predicate that records every value it is called with.
type recorder[T comparable] struct {
	mu    sync.Mutex
	calls []T
	fn    func(context.Context, T) (bool, error)
}

func newRecorder[T comparable](fn func(context.Context, T) (bool, error)) *recorder[T] {
	return &recorder[T]{fn: fn}
}

func (r *recorder[T]) predicate(ctx context.Context, value T) (bool, error) {
	r.mu.Lock()
	r.calls = append(r.calls, value)
	r.mu.Unlock()
	return r.fn(ctx, value)
}

func (r *recorder[T]) Calls() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *recorder[T]) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// isGopher accepts only "gopher".
func isGopher(_ context.Context, v string) (bool, error) {
	return v == "gopher", nil
}

// always returns a predicate with a fixed outcome.
func always(outcome bool) func(context.Context, string) (bool, error) {
	return func(context.Context, string) (bool, error) {
		return outcome, nil
	}
}

// await waits for a resolution, failing the test after one second.
func await(t *testing.T, ch <-chan bool) bool {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for resolution")
		return false
	}
}

// resolved reports whether ch already holds a resolution.
func resolved(ch <-chan bool) (value, ok bool) {
	select {
	case v := <-ch:
		return v, true
	default:
		return false, false
	}
}

// advance moves the fake clock and waits for timers to be delivered.
func advance(clock *clockz.FakeClock, d time.Duration) {
	clock.Advance(d)
	clock.BlockUntilReady()
}

// waitFor polls a condition until it returns true or timeout is reached.
func waitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

// validated runs one full window for value and returns its outcome.
func validated[T comparable](t *testing.T, v *Validator[T], clock *clockz.FakeClock, value T) bool {
	t.Helper()
	ch := v.Submit(value)
	advance(clock, v.debounce.delay)
	return await(t, ch)
}
