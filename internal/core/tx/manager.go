// Package tx provides transaction management abstractions.
// Domain services depend on these interfaces; the Postgres implementation
// lives in infrastructure/storage/postgres.
package tx

import (
	"context"
)

// ReadOnlyManager runs fn against a consistent read-only snapshot of the
// reference data. Repositories called with the ctx passed to fn read
// from that snapshot.
type ReadOnlyManager interface {
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Passthrough is a ReadOnlyManager for stores without transactions (REST).
type Passthrough struct{}

func (Passthrough) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
