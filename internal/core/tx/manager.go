// Package tx provides the unit-of-work abstraction used by domain services.
// Storage backends implement it; services never see BEGIN/COMMIT.
package tx

import (
	"context"
)

// Func is a unit of work. The ctx it receives carries the open transaction;
// repositories called with that ctx take part in it.
type Func func(ctx context.Context) error

// Manager defines the contract for transaction management.
type Manager interface {
	// RunInTransaction executes fn within a transaction.
	// If fn returns an error, every write made through ctx is rolled back.
	// If fn succeeds, the transaction is committed.
	//
	// Nested calls reuse the existing transaction from context.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager runs reads that must see one consistent snapshot, such as
// an invoice pointer and the version it points at.
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnly runs fn in a read-only snapshot when m supports one.
func ReadOnly(ctx context.Context, m Manager, fn Func) error {
	if rm, ok := m.(ReadOnlyManager); ok {
		return rm.ReadOnly(ctx, fn)
	}
	return m.RunInTransaction(ctx, fn)
}
