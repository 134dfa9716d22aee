package semester

import (
	"errors"
	"fmt"
)

// Failure kinds reported by Error.ErrorKind.
const (
	KindRead = "read"
	KindTerm = "term"
)

// Error is a page-level decode failure.
type Error struct {
	Kind string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("decode page (%s): %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorKind classifies the failure for status mapping.
func (e *Error) ErrorKind() string { return e.Kind }

// KindOf returns the failure kind carried by err, or "" when err is not a decode failure.
func KindOf(err error) string {
	var decodeErr *Error
	if errors.As(err, &decodeErr) {
		return decodeErr.Kind
	}
	return ""
}
