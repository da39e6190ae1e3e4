// Package matching scores workers against job postings and ranks the best fits.
package matching

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError is malformed input reaching the engine. It is never retried and
// maps to a client error at the service boundary.
type ValidationError struct {
	Entity  string // "worker", "job" or "request"
	ID      string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	subject := e.Entity
	if e.ID != "" {
		subject = fmt.Sprintf("%s %s", e.Entity, e.ID)
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s: %s", subject, e.Field, e.Message)
	}
	return fmt.Sprintf("validation error in %s: %s", subject, e.Message)
}

// InternalError is an unexpected failure, typically an upstream bug such as a nil anchor.
type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("internal matching error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("internal matching error: %s", e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// fromValidator converts struct-tag validation failures into a ValidationError
// naming the first offending field.
func fromValidator(entity, id string, err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{
			Entity:  entity,
			ID:      id,
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed %q constraint (value %v)", fe.ActualTag(), fe.Value()),
		}
	}
	return &ValidationError{Entity: entity, ID: id, Message: err.Error()}
}
