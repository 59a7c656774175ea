package seir

import (
	"errors"
	"fmt"

	"github.com/sarchlab/epinet/spatial"
	"github.com/sarchlab/epinet/variate"
)

var (
	// ErrNotInitialized is returned when a run or a contact search is
	// attempted before the spatial index is built.
	ErrNotInitialized = spatial.ErrNotInitialized

	// ErrInvalidParameter is returned for out-of-range rates, horizons,
	// seeds or node lists.
	ErrInvalidParameter = variate.ErrInvalidParameter

	// ErrSampling is returned when a sample of nodes cannot be drawn.
	ErrSampling = variate.ErrSampling

	// ErrInvariantViolation is wrapped by InvariantViolationError.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrNodeNotFound is returned for ids outside the population.
	ErrNodeNotFound = errors.New("node not found")

	// ErrUnknownAction is returned for events that carry no known action.
	ErrUnknownAction = errors.New("unknown action")
)

// InvariantViolationError reports a Remove event that found its node in a
// status other than Infected. It points at a defect in event scheduling.
type InvariantViolationError struct {
	NodeID int
	Status Status
	Time   float64
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("unexpected status for node %d at remove @ %.10f: %s (%c)",
		e.NodeID, e.Time, e.Status, e.Status.Code())
}

func (e *InvariantViolationError) Unwrap() error {
	return ErrInvariantViolation
}
