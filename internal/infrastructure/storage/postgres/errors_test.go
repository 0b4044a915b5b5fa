package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "invoices_invoice_number_key"})
	constraint, ok := IsUniqueViolation(unique)
	assert.True(t, ok)
	assert.Equal(t, "invoices_invoice_number_key", constraint)

	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))

	plain := errors.New("connection reset")
	_, ok = IsUniqueViolation(plain)
	assert.False(t, ok)
	assert.False(t, IsForeignKeyViolation(plain))
	assert.False(t, IsForeignKeyViolation(nil))
}
