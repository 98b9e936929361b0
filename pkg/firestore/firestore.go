// Package firestore provides a settle.Predicate backed by Firestore document
// presence or a field equality query.
package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/zoobzio/settle"
)

// Checker reports whether a value is present in a Firestore collection.
//
// By default the value is a document ID. With WithField, the value is
// matched against a field of any document in the collection.
type Checker struct {
	client     *firestore.Client
	collection string
	field      string
}

// Option configures a Checker.
type Option func(*Checker)

// WithField matches values against a document field instead of the
// document ID.
func WithField(field string) Option {
	return func(c *Checker) {
		c.field = field
	}
}

// New creates a new Checker for the given collection.
func New(client *firestore.Client, collection string, opts ...Option) *Checker {
	c := &Checker{
		client:     client,
		collection: collection,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Exists reports whether a matching document exists.
func (c *Checker) Exists(ctx context.Context, value string) (bool, error) {
	if c.field != "" {
		return c.queryField(ctx, value)
	}

	snap, err := c.client.Collection(c.collection).Doc(value).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s/%s: %w", c.collection, value, err)
	}
	return snap.Exists(), nil
}

func (c *Checker) queryField(ctx context.Context, value string) (bool, error) {
	iter := c.client.Collection(c.collection).
		Where(c.field, "==", value).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying %s where %s: %w", c.collection, c.field, err)
	}
	return true, nil
}

// Predicate returns Exists as a settle.Predicate.
func (c *Checker) Predicate() settle.Predicate[string] {
	return c.Exists
}
