package commands

import (
	"parking-booking/internal/pkg/errs"
)

// ValidationRejectedError carries the validator's own message to the caller.
type ValidationRejectedError struct {
	Message string
}

func (e *ValidationRejectedError) Error() string { return e.Message }

func (e *ValidationRejectedError) Is(target error) bool {
	return target == errs.ErrValidationRejected
}

// TransitionError names the operation the booking's state refused.
type TransitionError struct {
	Op string
}

func (e *TransitionError) Error() string {
	return "Booking cannot be " + e.Op + " in its current state"
}

func (e *TransitionError) Is(target error) bool {
	return target == errs.ErrInvalidTransition
}

func invalidInput(msg string) error {
	return errs.Mark(errs.New(msg), errs.ErrInvalidInput)
}
