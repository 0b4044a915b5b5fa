// Package numerator provides domain contracts for invoice auto-numbering.
// Implementations live in infrastructure layer.
package numerator

import (
	"context"
)

// Generator issues the next invoice number for a prefix.
//
// NextNumber must be called inside the transaction that inserts the invoice
// carrying the number: implementations lock the prefix for the rest of that
// transaction so concurrent callers cannot compute the same value.
type Generator interface {
	// NextNumber returns PREFIX-NNN where NNN is one above the highest stored sequence.
	NextNumber(ctx context.Context, prefix string) (string, error)

	// Peek computes the same value without locking (read-only preview).
	Peek(ctx context.Context, prefix string) (string, error)
}
