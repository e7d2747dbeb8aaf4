// Package server provides the HTTP API of the citizen tools backend.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/outils-citoyens/outils-api/internal/legal"
	"github.com/outils-citoyens/outils-api/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validationErr *ErrValidation
	var unknownTool *types.UnknownToolError
	var queryErr *legal.QueryError
	switch {
	case errors.As(err, &validationErr), errors.As(err, &unknownTool), errors.As(err, &queryErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
