package seir

import (
	"fmt"

	"github.com/sarchlab/epinet/sim/timing"
)

// Action is the transition an event applies to its target node.
type Action uint8

// The three transitions. Every event carries exactly one of them and the
// model handles each in its own branch.
const (
	Expose Action = iota
	Infect
	Remove

	numActions
)

var actionNames = [numActions]string{"Expose", "Infect", "Remove"}

// Actions lists every action in order.
func Actions() []Action {
	return []Action{Expose, Infect, Remove}
}

func (a Action) String() string {
	if a >= numActions {
		return fmt.Sprintf("Action(%d)", uint8(a))
	}

	return actionNames[a]
}

// ParseAction converts an action name back to an Action.
func ParseAction(name string) (Action, error) {
	for a := Expose; a < numActions; a++ {
		if name == actionNames[a] {
			return a, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// Event is a scheduled transition of one node. Events are values and are
// never modified after creation.
type Event struct {
	timing.EventBase

	target int
	action Action
}

// NewEvent creates an event that applies action to the target node at time t.
func NewEvent(
	t timing.VTimeInSec,
	target int,
	action Action,
	handler timing.Handler,
) Event {
	return Event{
		EventBase: timing.NewEventBase(t, handler),
		target:    target,
		action:    action,
	}
}

// Target returns the id of the node the event applies to.
func (e Event) Target() int {
	return e.target
}

// Action returns the transition the event applies.
func (e Event) Action() Action {
	return e.action
}

func (e Event) String() string {
	return fmt.Sprintf("node %d, action %s", e.target, e.action)
}
