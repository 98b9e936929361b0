package settle

import "sync"

// resultSignal holds the last known outcome and notifies watchers when it
// changes. Setting the current value again is a no-op.
type resultSignal struct {
	mu       sync.RWMutex
	value    bool
	watchers map[uint64]func(bool)
	next     uint64
}

func newResultSignal() *resultSignal {
	return &resultSignal{watchers: make(map[uint64]func(bool))}
}

// get returns the current value.
func (s *resultSignal) get() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// set stores v and notifies watchers if it differs from the current value.
// Watchers run on the caller's goroutine after the lock is released.
func (s *resultSignal) set(v bool) bool {
	s.mu.Lock()
	if s.value == v {
		s.mu.Unlock()
		return false
	}
	s.value = v
	fns := make([]func(bool), 0, len(s.watchers))
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
	return true
}

// watch registers fn and returns a function that unregisters it.
func (s *resultSignal) watch(fn func(bool)) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.watchers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, id)
			s.mu.Unlock()
		})
	}
}

// clear drops every watcher.
func (s *resultSignal) clear() {
	s.mu.Lock()
	s.watchers = make(map[uint64]func(bool))
	s.mu.Unlock()
}
