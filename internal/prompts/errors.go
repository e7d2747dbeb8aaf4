package prompts

import "fmt"

// ModeleError reports a model letter that was requested but cannot be used.
type ModeleError struct {
	ID      string
	Message string
	Cause   error
}

func (e *ModeleError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("modele %q: %s: %v", e.ID, e.Message, e.Cause)
	}
	return fmt.Sprintf("modele %q: %s", e.ID, e.Message)
}

func (e *ModeleError) Unwrap() error {
	return e.Cause
}
