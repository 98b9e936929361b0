// Package nats provides a settle.Predicate backed by NATS JetStream KV key
// presence.
package nats

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/zoobzio/settle"
)

// Checker reports whether a value exists as a key in a JetStream KV bucket.
// Deleted and purged keys count as absent.
type Checker struct {
	kv     jetstream.KeyValue
	prefix string
}

// Option configures a Checker.
type Option func(*Checker)

// WithPrefix sets a subject-style prefix, joined to values with a dot.
func WithPrefix(prefix string) Option {
	return func(c *Checker) {
		c.prefix = prefix
	}
}

// New creates a new Checker for the given KV bucket.
func New(kv jetstream.KeyValue, opts ...Option) *Checker {
	c := &Checker{kv: kv}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Checker) key(value string) string {
	if c.prefix == "" {
		return value
	}
	return c.prefix + "." + value
}

// Exists reports whether the key for value holds a live entry.
func (c *Checker) Exists(ctx context.Context, value string) (bool, error) {
	_, err := c.kv.Get(ctx, c.key(value))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, jetstream.ErrKeyNotFound), errors.Is(err, jetstream.ErrKeyDeleted):
		return false, nil
	default:
		return false, fmt.Errorf("reading key %s: %w", c.key(value), err)
	}
}

// Predicate returns Exists as a settle.Predicate.
func (c *Checker) Predicate() settle.Predicate[string] {
	return c.Exists
}
