package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("listing not found")
)

// NavigationError wraps a page load that did not reach a rendered state
// within the bounded timeout. It is terminal for the current request; any
// retry policy belongs to the caller.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation failed for %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// SessionError wraps a failure to start or connect to the browser process.
type SessionError struct {
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("browser session unavailable: %v", e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }
