package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/carematch/internal/matching"
	"github.com/jonathan/carematch/internal/pool"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var reqErr *ErrValidation
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &reqErr), matching.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, pool.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
