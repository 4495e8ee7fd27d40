package dynamo

import "errors"

// Domain errors for simulation operations.
var (
	// ErrInvalidConfig indicates a non-positive timestep, a horizon shorter
	// than one step, or a non-positive mass/inertia parameter.
	ErrInvalidConfig = errors.New("dynamo: invalid simulation configuration")

	// ErrInvalidState indicates a state vector with invalid dimensions or values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownParameter indicates a Configurable rejected a parameter name.
	ErrUnknownParameter = errors.New("dynamo: unknown parameter")
)
