// Package postgres provides a settle.Predicate backed by a PostgreSQL
// existence query.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zoobzio/settle"
)

// Querier is the subset of pgxpool.Pool used by Checker.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Querier = (*pgxpool.Pool)(nil)

// Checker reports whether a value is already present in a table column.
//
// Example:
//
//	CREATE TABLE users (
//	    username TEXT PRIMARY KEY
//	);
//
//	checker := postgres.New(pool, postgres.WithTable("users"), postgres.WithColumn("username"))
type Checker struct {
	db     Querier
	table  string
	column string
	query  string
}

// Option configures a Checker.
type Option func(*Checker)

// WithTable sets the table to query. Defaults to "users".
func WithTable(table string) Option {
	return func(c *Checker) {
		c.table = table
	}
}

// WithColumn sets the column compared against the value. Defaults to "name".
func WithColumn(column string) Option {
	return func(c *Checker) {
		c.column = column
	}
}

// New creates a new Checker using the given pool.
func New(db Querier, opts ...Option) *Checker {
	c := &Checker{
		db:     db,
		table:  "users",
		column: "name",
	}
	for _, opt := range opts {
		opt(c)
	}
	c.query = fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)",
		pgx.Identifier{c.table}.Sanitize(),
		pgx.Identifier{c.column}.Sanitize(),
	)
	return c
}

// Exists reports whether a row with the value exists.
func (c *Checker) Exists(ctx context.Context, value string) (bool, error) {
	var ok bool
	if err := c.db.QueryRow(ctx, c.query, value).Scan(&ok); err != nil {
		return false, fmt.Errorf("querying %s.%s: %w", c.table, c.column, err)
	}
	return ok, nil
}

// Predicate returns Exists as a settle.Predicate.
func (c *Checker) Predicate() settle.Predicate[string] {
	return c.Exists
}
