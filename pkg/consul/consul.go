// Package consul provides a settle.Predicate backed by Consul KV key presence.
package consul

import (
	"context"
	"fmt"
	"path"

	"github.com/hashicorp/consul/api"

	"github.com/zoobzio/settle"
)

// Checker reports whether a value exists as a key under a Consul KV prefix.
type Checker struct {
	client *api.Client
	prefix string
	stale  bool
}

// Option configures a Checker.
type Option func(*Checker)

// WithPrefix sets the KV prefix that values are looked up under.
func WithPrefix(prefix string) Option {
	return func(c *Checker) {
		c.prefix = prefix
	}
}

// WithStale allows any Consul server to answer, trading consistency for
// lower latency.
func WithStale() Option {
	return func(c *Checker) {
		c.stale = true
	}
}

// New creates a new Checker for the given Consul client.
func New(client *api.Client, opts ...Option) *Checker {
	c := &Checker{client: client}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// key returns the KV path for value.
func (c *Checker) key(value string) string {
	if c.prefix == "" {
		return value
	}
	return path.Join(c.prefix, value)
}

// Exists reports whether the key for value is present.
func (c *Checker) Exists(ctx context.Context, value string) (bool, error) {
	opts := (&api.QueryOptions{AllowStale: c.stale}).WithContext(ctx)

	pair, _, err := c.client.KV().Get(c.key(value), opts)
	if err != nil {
		return false, fmt.Errorf("reading key %s: %w", c.key(value), err)
	}
	return pair != nil, nil
}

// Predicate returns Exists as a settle.Predicate.
func (c *Checker) Predicate() settle.Predicate[string] {
	return c.Exists
}
