// Package testing provides test utilities and helpers for settle validators.
package testing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/clockz"

	"github.com/zoobzio/settle"
)

// RecordingPredicate wraps a predicate and records every value it is called
// with. Safe for concurrent use.
type RecordingPredicate[T comparable] struct {
	mu    sync.Mutex
	calls []T
	fn    settle.Predicate[T]
}

// NewRecordingPredicate wraps fn. A nil fn accepts every value.
func NewRecordingPredicate[T comparable](fn settle.Predicate[T]) *RecordingPredicate[T] {
	if fn == nil {
		fn = func(context.Context, T) (bool, error) { return true, nil }
	}
	return &RecordingPredicate[T]{fn: fn}
}

// Predicate returns the recording predicate.
func (r *RecordingPredicate[T]) Predicate() settle.Predicate[T] {
	return func(ctx context.Context, value T) (bool, error) {
		r.mu.Lock()
		r.calls = append(r.calls, value)
		r.mu.Unlock()
		return r.fn(ctx, value)
	}
}

// Calls returns a copy of the recorded values, in call order.
func (r *RecordingPredicate[T]) Calls() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.calls))
	copy(out, r.calls)
	return out
}

// Count returns the number of recorded calls.
func (r *RecordingPredicate[T]) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// WaitForState waits until the validator reaches the expected state or timeout occurs.
func WaitForState[T comparable](t *testing.T, v *settle.Validator[T], expected settle.State, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return v.State() == expected
	})
}

// RequireState fails the test immediately if the validator is not in the expected state.
func RequireState[T comparable](t *testing.T, v *settle.Validator[T], expected settle.State) {
	t.Helper()
	if got := v.State(); got != expected {
		t.Fatalf("expected state %s, got %s", expected, got)
	}
}

// RequireResolved waits up to timeout for ch to resolve and fails the test if
// it does not, or if it resolves to something other than want.
func RequireResolved(t *testing.T, ch <-chan bool, want bool, timeout time.Duration) {
	t.Helper()
	select {
	case got := <-ch:
		if got != want {
			t.Fatalf("expected resolution %v, got %v", want, got)
		}
	case <-time.After(timeout):
		t.Fatalf("timed out after %v waiting for resolution", timeout)
	}
}

// RequirePending fails the test if ch has already resolved.
func RequirePending(t *testing.T, ch <-chan bool) {
	t.Helper()
	select {
	case got := <-ch:
		t.Fatalf("expected pending submission, resolved %v", got)
	default:
	}
}

// Advance moves a fake clock forward and waits for fired timers to be
// delivered.
func Advance(clock *clockz.FakeClock, d time.Duration) {
	clock.Advance(d)
	clock.BlockUntilReady()
}

// NewTestValidator creates a validator on a fake clock around a recording
// predicate.
func NewTestValidator[T comparable](t *testing.T, fn settle.Predicate[T], delay time.Duration) (*settle.Validator[T], *RecordingPredicate[T], *clockz.FakeClock) {
	t.Helper()
	rec := NewRecordingPredicate(fn)
	clock := clockz.NewFakeClock()
	v := settle.New(rec.Predicate()).Clock(clock).Delay(delay)
	t.Cleanup(func() {
		v.Close()
	})
	return v, rec, clock
}
