// Package generation calls the text-generation backend under a retry policy
// and turns its raw output into a Candidate.
package generation

import (
	"errors"
	"fmt"
)

// ErrUnavailable matches every UnavailableError via errors.Is.
var ErrUnavailable = errors.New("generation backend unavailable")

// UnavailableError reports retries exhausted on transient failures, or a
// caller context that ended while waiting.
type UnavailableError struct {
	Attempts int
	Cause    error
}

func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation unavailable after %d attempt(s): %v", e.Attempts, e.Cause)
	}
	return fmt.Sprintf("generation unavailable after %d attempt(s)", e.Attempts)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrUnavailable) true.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

// FatalError is a non-retryable backend failure.
type FatalError struct {
	Message string
	Cause   error
}

func (e *FatalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *FatalError) Unwrap() error {
	return e.Cause
}

// MalformedOutputError is raised when a repair call still returns text that
// is not a JSON object.
type MalformedOutputError struct {
	Raw   string
	Cause error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed generation output after repair: %v", e.Cause)
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Cause
}
