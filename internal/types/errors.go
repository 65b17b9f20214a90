package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error type
type ErrorCode string

const (
	// Hat errors
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrEmptyPool      ErrorCode = "EMPTY_POOL"
	ErrAlreadyPending ErrorCode = "ALREADY_PENDING"
	ErrNoPendingDraw  ErrorCode = "NO_PENDING_DRAW"

	// Command errors
	ErrPermissionDenied ErrorCode = "PERMISSION_DENIED"
	ErrInvalidCommand   ErrorCode = "INVALID_COMMAND"

	// System errors
	ErrStorage       ErrorCode = "STORAGE_ERROR"
	ErrInternalError ErrorCode = "INTERNAL_ERROR"
)

// HatError represents an error raised while handling a hat command
type HatError struct {
	Code    ErrorCode
	Message string
	Err     error // Underlying error, if any
}

// Error implements the error interface
func (e *HatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *HatError) Unwrap() error {
	return e.Err
}

// NewHatError creates a new HatError
func NewHatError(code ErrorCode, message string) *HatError {
	return &HatError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error in a HatError
func WrapError(code ErrorCode, message string, err error) *HatError {
	return &HatError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsHatError checks if an error is (or wraps) a HatError with a specific code
func IsHatError(err error, code ErrorCode) bool {
	var hatErr *HatError
	if err == nil {
		return false
	}
	if ok := As(err, &hatErr); !ok {
		return false
	}
	return hatErr.Code == code
}

// As finds the first HatError in err's chain
func As(err error, target **HatError) bool {
	if target == nil || err == nil {
		return false
	}
	return errors.As(err, target)
}
