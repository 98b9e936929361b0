// Package redis provides a settle.Predicate backed by Redis key or set
// membership.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/zoobzio/settle"
)

// Checker reports whether a value is already present in Redis.
//
// By default a value is present when the key prefix+value exists. With
// WithSet, a value is present when it is a member of the named set:
//
//	SADD usernames gopher
type Checker struct {
	client redis.UniversalClient
	prefix string
	set    string
}

// Option configures a Checker.
type Option func(*Checker)

// WithPrefix sets the prefix prepended to values when checking key existence.
func WithPrefix(prefix string) Option {
	return func(c *Checker) {
		c.prefix = prefix
	}
}

// WithSet switches the Checker to set membership on the named key.
func WithSet(key string) Option {
	return func(c *Checker) {
		c.set = key
	}
}

// New creates a new Checker using the given client.
func New(client redis.UniversalClient, opts ...Option) *Checker {
	c := &Checker{client: client}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Exists reports whether value is present.
func (c *Checker) Exists(ctx context.Context, value string) (bool, error) {
	if c.set != "" {
		ok, err := c.client.SIsMember(ctx, c.set, value).Result()
		if err != nil {
			return false, fmt.Errorf("checking set %s: %w", c.set, err)
		}
		return ok, nil
	}

	n, err := c.client.Exists(ctx, c.prefix+value).Result()
	if err != nil {
		return false, fmt.Errorf("checking key %s: %w", c.prefix+value, err)
	}
	return n > 0, nil
}

// Predicate returns Exists as a settle.Predicate. Combine with Negate to
// accept only values that are not yet taken.
func (c *Checker) Predicate() settle.Predicate[string] {
	return c.Exists
}
