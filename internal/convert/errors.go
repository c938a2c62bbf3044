package convert

import (
	"errors"
	"fmt"
)

// ErrConversion is matched by every ConversionError.
var ErrConversion = errors.New("conversion failed")

// ConversionErrorCode categorizes conversion errors.
type ConversionErrorCode string

const (
	// ErrCodeNilInput indicates a nil node or document.
	ErrCodeNilInput ConversionErrorCode = "NIL_INPUT"

	// ErrCodeNonFinite indicates a NaN or infinite numeric field.
	ErrCodeNonFinite ConversionErrorCode = "NON_FINITE"

	// ErrCodeEncode indicates a document that could not be encoded.
	ErrCodeEncode ConversionErrorCode = "ENCODE"

	// ErrCodePanic indicates a panic recovered during a tree walk.
	ErrCodePanic ConversionErrorCode = "PANIC"
)

// ConversionError reports a tree walk that could not complete.
type ConversionError struct {
	// Code identifies the error category.
	Code ConversionErrorCode

	// Message is a human-readable description.
	Message string

	// Path is the slash-joined node path where the walk stopped.
	Path string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (node=%s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrConversion) hold for any ConversionError.
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}

// Recovered converts a value recovered from a panic into a ConversionError.
func Recovered(r any) *ConversionError {
	err, _ := r.(error)
	return &ConversionError{
		Code:    ErrCodePanic,
		Message: fmt.Sprintf("panic during tree walk: %v", r),
		Err:     err,
	}
}

// IsNonFinite returns true if the error reports a NaN or infinite field.
// Uses errors.As to handle wrapped errors.
func IsNonFinite(err error) bool {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeNonFinite
	}
	return false
}
