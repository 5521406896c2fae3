package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound         = new(ErrCodeNotFound, "resource not found")
	ErrValidation       = new(ErrCodeValidation, "validation error")
	ErrInvalidOperation = new(ErrCodeInvalidOperation, "invalid operation")
	ErrPermissionDenied = new(ErrCodePermissionDenied, "permission denied")
	ErrHTTPClient       = new(ErrCodeHTTPClient, "http client error")
	ErrSystem           = new(ErrCodeSystemError, "system error")

	// Rate provider failures are recoverable: callers fall back to a
	// manually entered rate.
	ErrRateUnavailable = new(ErrCodeRateUnavailable, "uf rate unavailable")

	// Flash token failures are recoverable: the token is ignored and the
	// base ceilings stay in effect.
	ErrTokenMalformed    = new(ErrCodeTokenMalformed, "flash token malformed")
	ErrTokenBadSignature = new(ErrCodeTokenBadSignature, "flash token signature mismatch")
	ErrTokenExpired      = new(ErrCodeTokenExpired, "flash token expired")

	// maps errors to http status codes
	statusCodeMap = map[error]int{
		ErrHTTPClient:        http.StatusInternalServerError,
		ErrNotFound:          http.StatusNotFound,
		ErrValidation:        http.StatusBadRequest,
		ErrInvalidOperation:  http.StatusBadRequest,
		ErrPermissionDenied:  http.StatusForbidden,
		ErrSystem:            http.StatusInternalServerError,
		ErrRateUnavailable:   http.StatusServiceUnavailable,
		ErrTokenMalformed:    http.StatusBadRequest,
		ErrTokenBadSignature: http.StatusUnauthorized,
		ErrTokenExpired:      http.StatusUnauthorized,
	}
)

const (
	ErrCodeHTTPClient        = "http_client_error"
	ErrCodeSystemError       = "system_error"
	ErrCodeNotFound          = "not_found"
	ErrCodeValidation        = "validation_error"
	ErrCodeInvalidOperation  = "invalid_operation"
	ErrCodePermissionDenied  = "permission_denied"
	ErrCodeRateUnavailable   = "rate_unavailable"
	ErrCodeTokenMalformed    = "flash_token_malformed"
	ErrCodeTokenBadSignature = "flash_token_bad_signature"
	ErrCodeTokenExpired      = "flash_token_expired"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

// New creates a new InternalError with a machine code and display message
func New(code string, message string) *InternalError {
	return new(code, message)
}

// new creates a new InternalError
func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsPermissionDenied checks if an error is a permission denied error
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsRateUnavailable checks if an error is a rate provider failure
func IsRateUnavailable(err error) bool {
	return errors.Is(err, ErrRateUnavailable)
}

// IsTokenError checks if an error is any of the flash token failures. These
// are always recoverable: the caller keeps the base ceilings and surfaces a
// warning.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenBadSignature) ||
		errors.Is(err, ErrTokenExpired)
}

func HTTPStatusFromErr(err error) int {
	for e, status := range statusCodeMap {
		if errors.Is(err, e) {
			return status
		}
	}
	return http.StatusInternalServerError
}
