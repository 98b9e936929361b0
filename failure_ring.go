package settle

import "sync"

// failureRing is a thread-safe ring buffer of recent predicate failures.
type failureRing struct {
	mu       sync.RWMutex
	failures []*FailureError
	size     int
	head     int
	count    int
}

// newFailureRing creates a ring with the given capacity.
// If size is 0, history is disabled and all methods are no-ops.
func newFailureRing(size int) *failureRing {
	if size <= 0 {
		return nil
	}
	return &failureRing{
		failures: make([]*FailureError, size),
		size:     size,
	}
}

// push records a failure, overwriting the oldest once full.
func (r *failureRing) push(f *FailureError) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.failures[r.head] = f
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// all returns the recorded failures, oldest first.
func (r *failureRing) all() []*FailureError {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.count == 0 {
		return nil
	}

	out := make([]*FailureError, r.count)
	start := (r.head - r.count + r.size) % r.size
	for i := range r.count {
		out[i] = r.failures[(start+i)%r.size]
	}
	return out
}
