// Package fallback produces contract-valid results with no external
// dependency: per-tool skeletons personalized from the form fields.
package fallback

import "fmt"

// ThresholdsError reports an unreadable or invalid thresholds file.
type ThresholdsError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ThresholdsError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("thresholds %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("thresholds %s: %s", e.Path, e.Message)
}

func (e *ThresholdsError) Unwrap() error {
	return e.Cause
}
