package refine

import "fmt"

// StageError reports the stage at which refinement stopped. The refiner is
// then in the terminal fallback state.
type StageError struct {
	Stage Stage
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("refinement failed at %s: %v", e.Stage, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}
