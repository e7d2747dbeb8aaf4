// Package validation enforces the output contract on generated and fallback
// results and normalizes them into their final shape.
package validation

import (
	"fmt"
	"strings"
)

// IncompleteError reports a candidate missing required keys. Such a
// candidate is never repaired in place.
type IncompleteError struct {
	Missing []string
	Cause   error
}

func (e *IncompleteError) Error() string {
	if len(e.Missing) == 0 && e.Cause != nil {
		return fmt.Sprintf("incomplete candidate: %v", e.Cause)
	}
	return fmt.Sprintf("incomplete candidate: missing %s", strings.Join(e.Missing, ", "))
}

func (e *IncompleteError) Unwrap() error {
	return e.Cause
}
