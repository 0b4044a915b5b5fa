// Package numerator implements core/numerator.Generator over the invoice store.
package numerator

import (
	"context"
	"fmt"

	corenumerator "oflo/internal/core/numerator"
	"oflo/pkg/logger"
	pkgnumerator "oflo/pkg/numerator"
)

// Store is the slice of the invoice repository the generator needs.
type Store interface {
	// LockInvoicePrefix serialises number assignment for prefix until the
	// surrounding transaction ends.
	LockInvoicePrefix(ctx context.Context, prefix string) error

	// InvoiceNumbersWithPrefix returns every stored number starting with "<prefix>-".
	InvoiceNumbersWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

// Service derives invoice numbers from the numbers already stored.
type Service struct {
	store Store
}

// Ensure compile-time interface compliance.
var _ corenumerator.Generator = (*Service)(nil)

// New creates a new numerator service.
func New(store Store) *Service {
	return &Service{store: store}
}

// NextNumber locks the prefix, then scans. Call it inside a transaction.
func (s *Service) NextNumber(ctx context.Context, prefix string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}
	cfg := pkgnumerator.DefaultConfig(prefix)

	if err := s.store.LockInvoicePrefix(ctx, cfg.Prefix); err != nil {
		return "", fmt.Errorf("lock prefix %s: %w", cfg.Prefix, err)
	}
	return s.scan(ctx, cfg)
}

// Peek computes the next number without taking the lock.
func (s *Service) Peek(ctx context.Context, prefix string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}
	return s.scan(ctx, pkgnumerator.DefaultConfig(prefix))
}

func (s *Service) scan(ctx context.Context, cfg pkgnumerator.Config) (string, error) {
	existing, err := s.store.InvoiceNumbersWithPrefix(ctx, cfg.Prefix)
	if err != nil {
		return "", fmt.Errorf("list invoice numbers: %w", err)
	}

	next := pkgnumerator.Next(cfg, existing)
	logger.Debug(ctx, "invoice number derived",
		"prefix", cfg.Prefix,
		"matched", len(existing),
		"next", next,
	)
	return next, nil
}
