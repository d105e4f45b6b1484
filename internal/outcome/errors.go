package outcome

import (
	"fmt"

	appErrors "github.com/noah-isme/sma-pulse-api/pkg/errors"
)

// PreconditionError identifies which input precondition a computation rejected.
type PreconditionError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	pe := &PreconditionError{Field: field, Reason: reason}
	return appErrors.Wrap(pe, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status, pe.Error())
}
