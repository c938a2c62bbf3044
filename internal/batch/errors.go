package batch

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes batch errors.
type ErrorCode string

const (
	// ErrCodeLoadFailed indicates the asset database could not load an asset.
	ErrCodeLoadFailed ErrorCode = "LOAD_FAILED"

	// ErrCodeWriteFailed indicates an output file could not be written.
	ErrCodeWriteFailed ErrorCode = "WRITE_FAILED"

	// ErrCodeInvalidOutputRoot indicates the output root is unusable.
	ErrCodeInvalidOutputRoot ErrorCode = "INVALID_OUTPUT_ROOT"
)

// ErrInvalidOutputRoot is returned before any item is attempted when the
// output root is empty, is a file, or cannot be created.
var ErrInvalidOutputRoot = errors.New("invalid output root")

// LoadError reports an asset the database could not load.
type LoadError struct {
	Asset string
	Err   error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: load %s: %v", ErrCodeLoadFailed, e.Asset, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// WriteError reports an output file that could not be written.
type WriteError struct {
	Asset string
	Path  string
	Err   error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: write %s (asset=%s): %v", ErrCodeWriteFailed, e.Path, e.Asset, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// IsLoadError reports whether err is or wraps a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// IsWriteError reports whether err is or wraps a *WriteError.
func IsWriteError(err error) bool {
	var we *WriteError
	return errors.As(err, &we)
}

func invalidOutputRoot(root, reason string) error {
	return fmt.Errorf("%s: %w: %s (%s)", ErrCodeInvalidOutputRoot, ErrInvalidOutputRoot, root, reason)
}
