package types

import (
	"errors"
	"fmt"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Error code constants. All packages MUST use these constants instead of
// hardcoded strings so callers can branch on errors.As + Code.
const (
	// A table scan found no row for the requested key. The only error
	// that is fatal for a single slip: with zero matching line rows
	// there is no notification to construct at all.
	ErrCodeRecordNotFound ErrorCode = "record_not_found"

	// Tracking number failed the shape check before any carrier call.
	ErrCodeTrackingInvalid ErrorCode = "tracking_invalid"

	// The carrier answered with an explicit error status for the number.
	ErrCodeCarrierRejected ErrorCode = "carrier_rejected"

	// The carrier could not be reached, timed out, or kept returning 5xx.
	ErrCodeCarrierUnavailable ErrorCode = "carrier_unavailable"
	ErrCodeUpstreamRateLimited ErrorCode = "upstream_rate_limited"

	// Mail transport failures.
	ErrCodeDeliveryFailed ErrorCode = "delivery_failed"
	ErrCodeEmailBlocked   ErrorCode = "email_blocked"

	// Startup failures.
	ErrCodeConfigInvalid ErrorCode = "config_invalid"

	ErrCodeInternalUnexpected ErrorCode = "internal_unexpected"
)

// AppError is the standard application error type used throughout the
// pipeline. All domain errors are expressed as AppError to enable
// consistent logging, error-chain support, and code-based branching.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError with the given code, message, and
// optional underlying error.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewAppErrorWithDetails creates a new AppError carrying structured details.
func NewAppErrorWithDetails(code ErrorCode, message string, err error, details map[string]any) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Details: details,
	}
}

// NewRecordNotFound builds the record_not_found error for a failed table
// lookup, recording the table, key column, and key value that missed.
func NewRecordNotFound(table, keyField, keyValue string) *AppError {
	return NewAppErrorWithDetails(
		ErrCodeRecordNotFound,
		fmt.Sprintf("no %s row with %s = %q", table, keyField, keyValue),
		nil,
		map[string]any{"table": table, "key_field": keyField, "key_value": keyValue},
	)
}

// IsCode reports whether err (or anything it wraps) is an AppError with
// the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
