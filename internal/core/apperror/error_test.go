package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactories(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"validation", NewValidation("name is required"), CodeValidation, http.StatusBadRequest},
		{"invalid input", NewInvalidInput("date", "expected YYYY-MM-DD"), CodeInvalidInput, http.StatusBadRequest},
		{"not found", NewNotFound("invoice", 7), CodeNotFound, http.StatusNotFound},
		{"business rule", NewBusinessRule(CodeEmptyInvoice, "no items"), CodeEmptyInvoice, http.StatusUnprocessableEntity},
		{"version conflict", NewVersionConflict(7, 1, 2), CodeVersionConflict, http.StatusConflict},
		{"conflict", NewConflict("customer is in use"), CodeConflict, http.StatusConflict},
		{"duplicate", NewDuplicate("font", "name", "Mukta"), CodeDuplicate, http.StatusConflict},
		{"internal", NewInternal(errors.New("boom")), CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestDetails(t *testing.T) {
	err := NewVersionConflict(int64(3), 1, 2)
	assert.Equal(t, map[string]any{"invoice_id": int64(3), "expected": 1, "actual": 2}, err.Details)

	err = NewInvalidInput("companyId", "invalid id format")
	assert.Equal(t, "companyId", err.Details["field"])
}

func TestWrappedLookup(t *testing.T) {
	wrapped := fmt.Errorf("create invoice: %w", NewDuplicate("invoice", "invoice_number", "ST-001"))

	assert.True(t, IsAppError(wrapped))
	assert.True(t, IsDuplicate(wrapped))
	assert.False(t, IsNotFound(wrapped))

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "ST-001", appErr.Details["value"])

	assert.False(t, IsAppError(errors.New("plain")))
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternal(cause)

	assert.Equal(t, "Internal server error", err.Message)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
