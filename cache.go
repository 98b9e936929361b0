package settle

// DefaultMaxCacheSize is the default number of outcomes retained per Validator.
const DefaultMaxCacheSize = 50

// resultCache is a bounded map from value to final (post-negation) outcome.
//
// Eviction is strict FIFO by insertion order. Lookups never refresh an
// entry's position and re-inserting an existing key updates its outcome in
// place. Keys are compared with ==.
//
// resultCache is not safe for concurrent use; the owning Validator guards it.
type resultCache[T comparable] struct {
	entries map[T]bool
	order   []T // insertion order, oldest first
	limit   int
}

func newResultCache[T comparable](limit int) *resultCache[T] {
	if limit <= 0 {
		limit = DefaultMaxCacheSize
	}
	return &resultCache[T]{
		entries: make(map[T]bool, limit),
		order:   make([]T, 0, limit),
		limit:   limit,
	}
}

// lookup returns the cached outcome for value.
func (c *resultCache[T]) lookup(value T) (outcome, ok bool) {
	outcome, ok = c.entries[value]
	return outcome, ok
}

// insert stores outcome for value. When the cache is full the oldest entry is
// evicted first and returned.
func (c *resultCache[T]) insert(value T, outcome bool) (evicted T, didEvict bool) {
	if _, ok := c.entries[value]; ok {
		c.entries[value] = outcome
		return evicted, false
	}
	if len(c.order) >= c.limit {
		evicted = c.order[0]
		var zero T
		c.order[0] = zero
		c.order = c.order[1:]
		delete(c.entries, evicted)
		didEvict = true
	}
	c.entries[value] = outcome
	c.order = append(c.order, value)
	return evicted, didEvict
}

// len reports the number of cached outcomes.
func (c *resultCache[T]) len() int {
	return len(c.order)
}
