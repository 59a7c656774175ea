package seir

import (
	"fmt"
	"log"

	"github.com/sarchlab/epinet/sim/timing"
	"github.com/sarchlab/epinet/variate"
)

// Stats counts what the model did during a run.
type Stats struct {
	Exposed  uint64 `json:"exposed"`
	Infected uint64 `json:"infected"`
	Removed  uint64 `json:"removed"`

	// Stale counts Expose and Infect events that found their node already
	// past the transition and were discarded.
	Stale uint64 `json:"stale"`

	// Violations counts Remove events that found their node not Infected
	// and were skipped in lenient mode.
	Violations uint64 `json:"violations"`

	// Contacts counts the contacts found by all the infections.
	Contacts uint64 `json:"contacts"`
}

// Model applies SEIR transitions to a NodeStore. It is the handler of every
// Event of a run.
type Model struct {
	store     *NodeStore
	sampler   *ContactSampler
	scheduler timing.EventScheduler
	rng       *variate.Generator
	params    Params
	lenient   bool
	logger    *log.Logger
	stats     Stats
}

// Handle applies the event's transition to its target node.
func (m *Model) Handle(evt timing.Event) error {
	e, ok := evt.(Event)
	if !ok {
		return fmt.Errorf("%w: event of type %T", ErrUnknownAction, evt)
	}

	if !m.store.contains(e.target) {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, e.target)
	}

	switch e.action {
	case Expose:
		return m.expose(e)
	case Infect:
		return m.infect(e)
	case Remove:
		return m.remove(e)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAction, e.action)
	}
}

// Stats returns the counters accumulated so far.
func (m *Model) Stats() Stats {
	return m.stats
}

func (m *Model) schedule(
	now timing.VTimeInSec,
	rate float64,
	target int,
	action Action,
) error {
	delay, err := m.rng.ExponentialInterval(rate)
	if err != nil {
		return err
	}

	m.scheduler.Schedule(NewEvent(now+delay, target, action, m))

	return nil
}

func (m *Model) expose(e Event) error {
	if !m.store.advance(e.target, Exposed) {
		m.stats.Stale++
		return nil
	}

	m.stats.Exposed++

	return m.schedule(e.Time(), m.params.Epsilon, e.target, Infect)
}

func (m *Model) infect(e Event) error {
	if !m.store.advance(e.target, Infected) {
		m.stats.Stale++
		return nil
	}

	m.stats.Infected++

	err := m.schedule(e.Time(), m.params.Gamma, e.target, Remove)
	if err != nil {
		return err
	}

	contacts, err := m.sampler.FindContacts(e.target, m.rng)
	if err != nil {
		return err
	}

	m.stats.Contacts += uint64(len(contacts))

	for _, c := range contacts {
		if c.Status != Susceptible {
			continue
		}

		err = m.schedule(e.Time(), m.params.Beta, c.ID, Expose)
		if err != nil {
			return err
		}
	}

	return nil
}

func (m *Model) remove(e Event) error {
	if m.store.advance(e.target, Removed) {
		m.stats.Removed++
		return nil
	}

	violation := &InvariantViolationError{
		NodeID: e.target,
		Status: m.store.Status(e.target),
		Time:   e.Time(),
	}

	if !m.lenient {
		return violation
	}

	m.stats.Violations++
	m.logger.Printf("skipping remove: %v", violation)

	return nil
}
