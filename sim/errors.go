package sim

import (
	"errors"
	"fmt"
)

// Structural failures that halt a simulation run.
var (
	ErrUnknownNeighbor     = errors.New("sim: neighbor name does not match any region")
	ErrDuplicateRegion     = errors.New("sim: duplicate region name")
	ErrSelfNeighbor        = errors.New("sim: region lists itself as neighbor")
	ErrEmptyGraph          = errors.New("sim: region graph is empty")
	ErrInvalidParameters   = errors.New("sim: invalid simulation parameters")
	ErrInvalidStepSize     = errors.New("sim: step size must be positive and finite")
	ErrPopulationCollapsed = errors.New("sim: population is zero or non-finite")
	ErrInvalidState        = errors.New("sim: state vector contains NaN or Inf")
	ErrDelayOutOfRange     = errors.New("sim: delayed history lookup out of range")
	ErrUnknownMeasure      = errors.New("sim: unknown measure policy")
)

// SimulationError wraps an error with the region and step at which it occurred.
type SimulationError struct {
	Region  string
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("region %q step %d (day %.2f): %v", e.Region, e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
