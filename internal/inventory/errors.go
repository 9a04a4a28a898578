// internal/inventory/errors.go
package inventory

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrConcurrencyConflict is returned when the guarded status write at the
	// storage boundary observed a different status than expected. Callers
	// should re-read and re-validate before retrying.
	ErrConcurrencyConflict = errors.New("concurrency conflict: vehicle status changed")

	// ErrVehicleNotFound is returned when the referenced vehicle does not exist.
	ErrVehicleNotFound = errors.New("vehicle not found")

	// ErrVendorNotFound is returned when the referenced vendor does not exist.
	ErrVendorNotFound = errors.New("vendor not found")
)

// ValidationError reports malformed input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// TransitionReason discriminates why an operation was rejected.
type TransitionReason string

const (
	ReasonNotOwner        TransitionReason = "NOT_OWNER"
	ReasonInvalidState    TransitionReason = "INVALID_STATE_FOR_OPERATION"
	ReasonAlreadyAssigned TransitionReason = "ALREADY_ASSIGNED"
)

// StateTransitionError reports an operation not permitted from the vehicle's
// current state and ownership.
type StateTransitionError struct {
	VehicleID uuid.UUID
	From      Status
	Operation Action
	Reason    TransitionReason
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("operation %s not permitted on vehicle %s in status %s: %s",
		e.Operation, e.VehicleID, e.From, e.Reason)
}

// AsTransitionError unwraps err into a StateTransitionError, if it is one.
func AsTransitionError(err error) (*StateTransitionError, bool) {
	var te *StateTransitionError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
