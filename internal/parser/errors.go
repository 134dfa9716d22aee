package parser

import (
	"errors"

	"coursesys/internal/store"
)

// ErrLocked is returned when another parse worker holds the lock.
var ErrLocked = errors.New("another parse worker is already running")

// ErrorClassifier allows errors to declare their classification for status mapping.
type ErrorClassifier interface {
	ErrorKind() string
}

// FailureStatus maps a page failure to the status to persist. Classified
// failures describe the page itself and mark it failed. Anything else is
// treated as transient and reported with ok=false so the page stays pending.
func FailureStatus(err error) (status store.PageStatus, ok bool) {
	var classifier ErrorClassifier
	if errors.As(err, &classifier) && classifier.ErrorKind() != "" {
		return store.PageStatusFailed, true
	}
	return "", false
}

// contentError marks a page whose stored payload cannot be opened.
type contentError struct {
	err error
}

func (e *contentError) Error() string     { return "open page content: " + e.err.Error() }
func (e *contentError) Unwrap() error     { return e.err }
func (e *contentError) ErrorKind() string { return "content" }
