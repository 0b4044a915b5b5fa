package numerator

import (
	"context"
)

// MockGenerator is a Generator driven by a function, for tests that need to
// pin or fail invoice numbering without a store.
type MockGenerator struct {
	NextNumberFunc func(ctx context.Context, prefix string) (string, error)
}

// NextNumber implements Generator.
func (m *MockGenerator) NextNumber(ctx context.Context, prefix string) (string, error) {
	if m.NextNumberFunc != nil {
		return m.NextNumberFunc(ctx, prefix)
	}
	return prefix + "-001", nil
}

// Peek implements Generator.
func (m *MockGenerator) Peek(ctx context.Context, prefix string) (string, error) {
	return m.NextNumber(ctx, prefix)
}

var _ Generator = (*MockGenerator)(nil)
