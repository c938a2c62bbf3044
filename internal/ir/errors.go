package ir

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchemaMismatch is matched by every SchemaError.
var ErrSchemaMismatch = errors.New("ir: schema mismatch")

// SchemaError reports an IR file that does not satisfy the document schema.
type SchemaError struct {
	Path    string   // slash-joined node path, empty for the root decode
	Missing []string // required keys that were absent
	Err     error    // underlying decode error, if any
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("schema mismatch")
	if e.Path != "" {
		fmt.Fprintf(&b, " at %s", e.Path)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing %s", strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrSchemaMismatch) hold for any SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchemaMismatch
}
