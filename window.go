package settle

import "time"

// window is one debounce cycle: the value the predicate will run against and
// the callers waiting on the outcome. Each window owns its waiters, so a slow
// predicate call for one window can never resolve callers of another.
//
// window is guarded by the owning Validator's mutex.
type window[T comparable] struct {
	target      T
	scheduledAt time.Time
	waiters     []chan<- bool
	settled     bool
}

// join registers a waiter and makes value the window's target.
func (w *window[T]) join(value T, at time.Time, waiter chan<- bool) {
	w.target = value
	w.scheduledAt = at
	w.waiters = append(w.waiters, waiter)
}

// settle marks the window resolved and hands back its waiters. It returns nil
// if the window was already settled, so each waiter is released exactly once.
func (w *window[T]) settle() []chan<- bool {
	if w.settled {
		return nil
	}
	w.settled = true
	waiters := w.waiters
	w.waiters = nil
	return waiters
}

// release delivers outcome to waiters. Waiter channels are buffered with
// capacity one and receive exactly one value, so sends never block.
func release(waiters []chan<- bool, outcome bool) {
	for _, ch := range waiters {
		ch <- outcome
	}
}
