// Package apperror provides structured error handling for business outcomes.
// Expected failures (stock conflicts, eligibility, bad input) are returned as
// coded values, never panicked or hidden behind generic errors.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"kiranapos/internal/core/id"
)

// Error codes.
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"

	// Malformed input (400)
	CodeInvalidInput = "INVALID_INPUT"

	// Business rule violations (409/422)
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeNotAllowed        = "NOT_ALLOWED"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"
)

// AppError is the standard error type for the core.
// It implements error and carries structured details for the caller.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (offending item ids, fields, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
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

// --- Factory functions ---

// NewInvalidInput creates a malformed-input error (400).
func NewInvalidInput(reason string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    reason,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotAllowed creates a role/state eligibility error (422).
// The reason is shown to the user as-is.
func NewNotAllowed(reason string) *AppError {
	return &AppError{
		Code:       CodeNotAllowed,
		Message:    reason,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewNotFound creates a not-found error (404).
func NewNotFound(entity string, entityID any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": entityID},
	}
}

// NewStockConflict creates an insufficient-stock error carrying the exact
// set of item ids that could not be decremented (409).
func NewStockConflict(itemIDs []id.ID) *AppError {
	ids := make([]string, 0, len(itemIDs))
	for _, itemID := range itemIDs {
		ids = append(ids, itemID.String())
	}
	return &AppError{
		Code:       CodeInsufficientStock,
		Message:    "insufficient stock",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"itemIds": ids},
	}
}

// NewInternal creates an internal error (hides details from the caller).
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "internal error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// --- Helpers ---

// AsAppError extracts AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns the appropriate HTTP status for any error.
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

func hasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsStockConflict checks if error is CodeInsufficientStock.
func IsStockConflict(err error) bool { return hasCode(err, CodeInsufficientStock) }

// IsNotAllowed checks if error is CodeNotAllowed.
func IsNotAllowed(err error) bool { return hasCode(err, CodeNotAllowed) }

// IsInvalidInput checks if error is CodeInvalidInput.
func IsInvalidInput(err error) bool { return hasCode(err, CodeInvalidInput) }

// IsNotFound checks if error is CodeNotFound.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// StockConflictItems returns the offending item ids from a stock conflict.
// The second return is false when err is not a stock conflict.
func StockConflictItems(err error) ([]id.ID, bool) {
	appErr, ok := AsAppError(err)
	if !ok || appErr.Code != CodeInsufficientStock {
		return nil, false
	}
	raw, ok := appErr.Details["itemIds"].([]string)
	if !ok {
		return nil, true
	}
	out := make([]id.ID, 0, len(raw))
	for _, s := range raw {
		parsed, err := id.Parse(s)
		if err != nil {
			continue
		}
		out = append(out, parsed)
	}
	return out, true
}
