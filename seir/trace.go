package seir

import (
	"sync"

	"github.com/sarchlab/epinet/sim/hooking"
	"github.com/sarchlab/epinet/sim/timing"
)

// Transition describes one dispatched event and its effect on the target
// node. Before equals After when the event was a no-op.
type Transition struct {
	Time   timing.VTimeInSec
	Node   int
	Action Action
	Before Status
	After  Status
}

// Applied tells if the event changed the status of its node.
func (t Transition) Applied() bool {
	return t.Before != t.After
}

// TransitionTracer is a hook that observes every event handled by a
// simulation and reports it as a Transition.
type TransitionTracer struct {
	store *NodeStore
	sink  func(Transition)

	lock        sync.Mutex
	pending     Transition
	hasPending  bool
	keep        bool
	transitions []Transition
}

// NewTransitionTracer creates a tracer that keeps every transition in memory.
func NewTransitionTracer(store *NodeStore) *TransitionTracer {
	return &TransitionTracer{store: store, keep: true}
}

// NewTransitionWatcher creates a tracer that passes every transition to sink
// without keeping it.
func NewTransitionWatcher(store *NodeStore, sink func(Transition)) *TransitionTracer {
	return &TransitionTracer{store: store, sink: sink}
}

// Func captures the node status around the handling of an event.
func (t *TransitionTracer) Func(ctx hooking.HookCtx) {
	evt, ok := ctx.Item.(Event)
	if !ok || !t.store.contains(evt.target) {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	switch ctx.Pos {
	case timing.HookPosBeforeEvent:
		t.pending = Transition{
			Time:   evt.Time(),
			Node:   evt.target,
			Action: evt.action,
			Before: t.store.Status(evt.target),
		}
		t.hasPending = true
	case timing.HookPosAfterEvent:
		if !t.hasPending {
			return
		}

		t.pending.After = t.store.Status(evt.target)
		t.hasPending = false
		t.emit(t.pending)
	}
}

func (t *TransitionTracer) emit(tr Transition) {
	if t.keep {
		t.transitions = append(t.transitions, tr)
	}

	if t.sink != nil {
		t.sink(tr)
	}
}

// Transitions returns the transitions kept so far, in dispatch order.
func (t *TransitionTracer) Transitions() []Transition {
	t.lock.Lock()
	defer t.lock.Unlock()

	out := make([]Transition, len(t.transitions))
	copy(out, t.transitions)

	return out
}

// Reset drops the kept transitions.
func (t *TransitionTracer) Reset() {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.transitions = nil
	t.hasPending = false
}

// ActionKey groups handled events by action, for use with hooking.CountHook.
func ActionKey(ctx hooking.HookCtx) (string, bool) {
	if ctx.Pos != timing.HookPosAfterEvent {
		return "", false
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return "", false
	}

	return evt.action.String(), true
}
