package types

import "fmt"

// UnknownToolError indicates a tool identifier outside the supported set.
type UnknownToolError struct {
	ToolID string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("tool_id inconnu: %q", e.ToolID)
}
