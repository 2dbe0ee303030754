package ode

import (
	"errors"
	"fmt"
)

// Domain errors for integration runs.
var (
	// ErrConfig indicates a malformed run configuration.
	ErrConfig = errors.New("ode: invalid configuration")

	// ErrDimensionMismatch indicates a state or derivative whose shape
	// does not match the system's dimension.
	ErrDimensionMismatch = errors.New("ode: dimension mismatch between state and system")

	// ErrInvalidState indicates NaN or Inf in a state vector.
	ErrInvalidState = errors.New("ode: invalid state (NaN or Inf detected)")

	// ErrStepTooSmall indicates adaptive step control shrank below the
	// configured minimum without meeting tolerance.
	ErrStepTooSmall = errors.New("ode: step size below minimum")

	// ErrMaxSteps indicates the step budget ran out before TEnd.
	ErrMaxSteps = errors.New("ode: step budget exhausted")
)

// IntegrationError marks a run the solver could not carry to TEnd. The
// partial trajectory up to the failure is still returned, with
// Result.Success false.
type IntegrationError struct {
	Step  int
	Time  float64
	Cause error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("integration failed at step %d (t=%.6g): %v", e.Step, e.Time, e.Cause)
}

func (e *IntegrationError) Unwrap() error {
	return e.Cause
}

// IsIntegrationFailure reports whether err is a solver failure, as
// opposed to a configuration error or a callback error propagating.
func IsIntegrationFailure(err error) bool {
	var ie *IntegrationError
	return errors.As(err, &ie)
}
