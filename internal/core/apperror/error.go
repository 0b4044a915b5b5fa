// Package apperror provides structured error handling for API responses.
// Services return *AppError for anything a client can act on; everything
// else is rendered as an opaque internal error.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	CodeInternal = "INTERNAL_ERROR"

	// 400
	CodeValidation   = "VALIDATION_ERROR"
	CodeInvalidInput = "INVALID_INPUT"

	// 404
	CodeNotFound = "NOT_FOUND"

	// 409
	CodeConflict        = "CONFLICT"
	CodeDuplicate       = "DUPLICATE_ENTRY"
	CodeVersionConflict = "VERSION_CONFLICT"

	// 422
	CodeEmptyInvoice = "EMPTY_INVOICE"
)

// AppError carries a machine-readable code, a message safe to show to the
// client and the HTTP status handlers should answer with.
type AppError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`

	HTTPStatus int   `json:"-"`
	Err        error `json:"-"`
}

func newError(code string, status int, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// NewValidation reports an entity that breaks a field rule (400).
func NewValidation(message string) *AppError {
	return newError(CodeValidation, http.StatusBadRequest, message)
}

// NewInvalidInput reports a malformed request field (400).
func NewInvalidInput(field, reason string) *AppError {
	return newError(CodeInvalidInput, http.StatusBadRequest, fmt.Sprintf("invalid %s: %s", field, reason)).
		WithDetail("field", field)
}

// NewNotFound (404).
func NewNotFound(entity string, id any) *AppError {
	return newError(CodeNotFound, http.StatusNotFound, fmt.Sprintf("%s not found", entity)).
		WithDetail("entity", entity).
		WithDetail("id", id)
}

// NewBusinessRule reports a well-formed request the invoice rules refuse (422).
func NewBusinessRule(code, message string) *AppError {
	return newError(code, http.StatusUnprocessableEntity, message)
}

// NewVersionConflict is returned when a revision was based on a stale version.
func NewVersionConflict(invoiceID any, expected, actual int) *AppError {
	return newError(CodeVersionConflict, http.StatusConflict,
		"Invoice was revised in the meantime. Please reload and try again.").
		WithDetail("invoice_id", invoiceID).
		WithDetail("expected", expected).
		WithDetail("actual", actual)
}

// NewConflict reports a write the current state forbids, such as deleting a
// customer that invoices still reference (409).
func NewConflict(message string) *AppError {
	return newError(CodeConflict, http.StatusConflict, message)
}

// NewDuplicate reports a unique key collision (409).
func NewDuplicate(entity, field, value string) *AppError {
	return newError(CodeDuplicate, http.StatusConflict, fmt.Sprintf("%s with this %s already exists", entity, field)).
		WithDetail("entity", entity).
		WithDetail("field", field).
		WithDetail("value", value)
}

// NewInternal hides err from the client (500).
func NewInternal(err error) *AppError {
	return newError(CodeInternal, http.StatusInternalServerError, "Internal server error").WithCause(err)
}

// IsAppError checks if err wraps an AppError.
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// AsAppError extracts AppError from the error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func hasCode(err error, code string) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// IsNotFound checks for CodeNotFound.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsDuplicate checks for CodeDuplicate.
func IsDuplicate(err error) bool {
	return hasCode(err, CodeDuplicate)
}
