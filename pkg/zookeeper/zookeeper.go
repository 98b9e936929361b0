// Package zookeeper provides a settle.Predicate backed by ZooKeeper znode
// presence.
package zookeeper

import (
	"context"
	"fmt"
	"path"

	"github.com/go-zookeeper/zk"

	"github.com/zoobzio/settle"
)

// Conn is the subset of *zk.Conn used by Checker.
type Conn interface {
	Exists(path string) (bool, *zk.Stat, error)
}

var _ Conn = (*zk.Conn)(nil)

// Checker reports whether a value exists as a child znode of a root path.
type Checker struct {
	conn Conn
	root string
}

// Option configures a Checker.
type Option func(*Checker)

// WithRoot sets the parent path values are looked up under. Defaults to "/".
func WithRoot(root string) Option {
	return func(c *Checker) {
		c.root = root
	}
}

// New creates a new Checker for the given ZooKeeper connection.
func New(conn Conn, opts ...Option) *Checker {
	c := &Checker{
		conn: conn,
		root: "/",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Checker) path(value string) string {
	return path.Join(c.root, value)
}

type existsResult struct {
	ok  bool
	err error
}

// Exists reports whether the znode for value is present. The ZooKeeper client
// has no context support, so a canceled ctx abandons the pending call.
func (c *Checker) Exists(ctx context.Context, value string) (bool, error) {
	p := c.path(value)
	done := make(chan existsResult, 1)
	go func() {
		ok, _, err := c.conn.Exists(p)
		done <- existsResult{ok: ok, err: err}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return false, fmt.Errorf("checking znode %s: %w", p, res.err)
		}
		return res.ok, nil
	}
}

// Predicate returns Exists as a settle.Predicate.
func (c *Checker) Predicate() settle.Predicate[string] {
	return c.Exists
}
