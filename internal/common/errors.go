package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")

	// Per-document pipeline outcomes. All are recoverable: the document is
	// recorded with an error marker and the corpus run continues.
	ErrNoTableData          = errors.New("no table data extracted")
	ErrMalformedTable       = errors.New("malformed table structure")
	ErrUnrepairableCollapse = errors.New("collapsed table has no ID anchors")
	ErrAmbiguousStructure   = errors.New("ambiguous table structure")
)

// NewAppError constructs an AppError with a code, message and cause.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
