package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrNotInitialized indicates a query or step before the body set was loaded.
	ErrNotInitialized = errors.New("dynamo: simulation not initialized")

	// ErrUnknownMethod indicates an unsupported integration method.
	ErrUnknownMethod = errors.New("dynamo: unknown integration method")

	// ErrInvalidTimeScale indicates a non-finite or non-positive time scale factor.
	ErrInvalidTimeScale = errors.New("dynamo: time scale must be finite and positive")

	// ErrInvalidTimeStep indicates a non-finite or zero time step.
	ErrInvalidTimeStep = errors.New("dynamo: time step must be finite and non-zero")

	// ErrInvalidBody indicates a body with non-positive mass/radius or non-finite kinematics.
	ErrInvalidBody = errors.New("dynamo: invalid body")

	// ErrDuplicateBody indicates two bodies sharing a name.
	ErrDuplicateBody = errors.New("dynamo: duplicate body name")

	// ErrUnstable indicates the integration produced NaN or Inf.
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")
)

// StepError wraps an error with step context.
type StepError struct {
	Step    int
	Time    float64
	Method  string
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.1fs, %s): %v", e.Step, e.Time, e.Method, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
