// Package seir implements a spatial SEIR epidemic as a discrete event
// simulation. Nodes sit at fixed locations; an infected node exposes nearby
// susceptible nodes found through a spatial index, and every transition is an
// event scheduled on a timing.SerialEngine.
package seir

import "fmt"

// Status is the compartment a node is in. A node only ever moves forward:
// Susceptible, Exposed, Infected, Removed.
type Status uint8

// The four compartments, in the order a node passes through them.
const (
	Susceptible Status = iota
	Exposed
	Infected
	Removed

	numStatuses
)

var statusNames = [numStatuses]string{"Susceptible", "Exposed", "Infected", "Removed"}
var statusCodes = [numStatuses]byte{'S', 'E', 'I', 'R'}

// Statuses lists every status in order.
func Statuses() []Status {
	return []Status{Susceptible, Exposed, Infected, Removed}
}

// Valid tells if s is one of the four compartments.
func (s Status) Valid() bool {
	return s < numStatuses
}

func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Status(%d)", uint8(s))
	}

	return statusNames[s]
}

// CanAdvanceTo tells if a node in status s may move to status to. Infection
// may skip Exposed, as it does for the nodes infected at time 0.
func (s Status) CanAdvanceTo(to Status) bool {
	switch to {
	case Exposed:
		return s == Susceptible
	case Infected:
		return s == Susceptible || s == Exposed
	case Removed:
		return s == Infected
	}

	return false
}

// Code returns the one-letter code of the status.
func (s Status) Code() byte {
	if !s.Valid() {
		return '?'
	}

	return statusCodes[s]
}

// ParseStatus converts a one-letter code or a full name back to a Status.
func ParseStatus(text string) (Status, error) {
	for s := Susceptible; s < numStatuses; s++ {
		if text == statusNames[s] || (len(text) == 1 && text[0] == statusCodes[s]) {
			return s, nil
		}
	}

	return 0, fmt.Errorf("%w: unknown status %q", ErrInvalidParameter, text)
}

// Tally counts nodes per status.
type Tally struct {
	Susceptible int `json:"susceptible"`
	Exposed     int `json:"exposed"`
	Infected    int `json:"infected"`
	Removed     int `json:"removed"`
}

// Of returns the count of the given status.
func (t Tally) Of(s Status) int {
	switch s {
	case Susceptible:
		return t.Susceptible
	case Exposed:
		return t.Exposed
	case Infected:
		return t.Infected
	case Removed:
		return t.Removed
	}

	return 0
}

func (t *Tally) add(s Status, delta int) {
	switch s {
	case Susceptible:
		t.Susceptible += delta
	case Exposed:
		t.Exposed += delta
	case Infected:
		t.Infected += delta
	case Removed:
		t.Removed += delta
	}
}

// Total returns the number of nodes counted.
func (t Tally) Total() int {
	return t.Susceptible + t.Exposed + t.Infected + t.Removed
}

// EverInfected returns the number of nodes that have left Susceptible.
func (t Tally) EverInfected() int {
	return t.Exposed + t.Infected + t.Removed
}
