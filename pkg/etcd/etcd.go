// Package etcd provides a settle.Predicate backed by etcd key presence.
package etcd

import (
	"context"
	"fmt"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/zoobzio/settle"
)

// Checker reports whether a value exists as a key under an etcd prefix.
type Checker struct {
	kv     clientv3.KV
	prefix string
	serial bool
}

// Option configures a Checker.
type Option func(*Checker)

// WithPrefix sets the key prefix prepended to values.
func WithPrefix(prefix string) Option {
	return func(c *Checker) {
		c.prefix = prefix
	}
}

// WithSerializable lets the contacted member answer from its local state
// without a quorum read.
func WithSerializable() Option {
	return func(c *Checker) {
		c.serial = true
	}
}

// New creates a new Checker. client is usually a *clientv3.Client.
func New(kv clientv3.KV, opts ...Option) *Checker {
	c := &Checker{kv: kv}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Exists reports whether the key prefix+value is present.
func (c *Checker) Exists(ctx context.Context, value string) (bool, error) {
	ops := []clientv3.OpOption{clientv3.WithCountOnly()}
	if c.serial {
		ops = append(ops, clientv3.WithSerializable())
	}

	resp, err := c.kv.Get(ctx, c.prefix+value, ops...)
	if err != nil {
		return false, fmt.Errorf("reading key %s: %w", c.prefix+value, err)
	}
	return resp.Count > 0, nil
}

// Predicate returns Exists as a settle.Predicate.
func (c *Checker) Predicate() settle.Predicate[string] {
	return c.Exists
}
