package seir

import (
	"fmt"
	"math"
)

// Defaults of the contact process.
const (
	// DefaultContactRate is the rate of the exponential distribution the
	// contact radius is drawn from. The mean radius is its inverse.
	DefaultContactRate = 0.005

	// DefaultMaxContacts is the upper bound, inclusive, of the uniformly
	// drawn number of contacts an infected node can expose.
	DefaultMaxContacts = 10

	// DefaultInitialInfected is the number of nodes infected at time 0.
	DefaultInitialInfected = 2
)

// Params configures one run.
type Params struct {
	// Horizon is the simulated time at and after which nothing is scheduled.
	Horizon float64

	// Beta is the transmission rate from an infected node to a contact.
	Beta float64

	// Epsilon is the incubation rate, Exposed to Infected.
	Epsilon float64

	// Gamma is the removal rate, Infected to Removed.
	Gamma float64

	// InitialInfected nodes are picked uniformly at random and infected at
	// time 0. Ignored when SeedNodes is set.
	InitialInfected int

	// SeedNodes, when not empty, lists the nodes infected at time 0.
	SeedNodes []int

	// ContactRate is the rate of the exponential contact radius.
	ContactRate float64

	// MaxContactRadius caps the drawn contact radius when positive.
	MaxContactRadius float64

	// MaxContacts bounds the number of contacts per infection.
	MaxContacts int
}

// DefaultParams returns the parameters of the reference scenario.
func DefaultParams() Params {
	return Params{
		Horizon:         1000,
		Beta:            0.05,
		Epsilon:         0.01,
		Gamma:           0.01,
		InitialInfected: DefaultInitialInfected,
		ContactRate:     DefaultContactRate,
		MaxContacts:     DefaultMaxContacts,
	}
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Validate checks the parameters against a population of the given size.
func (p Params) Validate(population int) error {
	rates := []struct {
		name  string
		value float64
	}{
		{"horizon", p.Horizon},
		{"beta", p.Beta},
		{"epsilon", p.Epsilon},
		{"gamma", p.Gamma},
		{"contact rate", p.ContactRate},
	}

	for _, r := range rates {
		if !positive(r.value) {
			return fmt.Errorf("%w: %s must be positive and finite, got %v",
				ErrInvalidParameter, r.name, r.value)
		}
	}

	if math.IsNaN(p.MaxContactRadius) || p.MaxContactRadius < 0 {
		return fmt.Errorf("%w: max contact radius must not be negative, got %v",
			ErrInvalidParameter, p.MaxContactRadius)
	}

	if p.MaxContacts < 0 {
		return fmt.Errorf("%w: max contacts must not be negative, got %d",
			ErrInvalidParameter, p.MaxContacts)
	}

	if len(p.SeedNodes) > 0 {
		return p.validateSeedNodes(population)
	}

	if p.InitialInfected < 0 || p.InitialInfected > population {
		return fmt.Errorf("%w: cannot infect %d of %d nodes",
			ErrInvalidParameter, p.InitialInfected, population)
	}

	return nil
}

func (p Params) validateSeedNodes(population int) error {
	seen := make(map[int]bool, len(p.SeedNodes))

	for _, id := range p.SeedNodes {
		if id < 0 || id >= population {
			return fmt.Errorf("%w: seed node %d", ErrNodeNotFound, id)
		}

		if seen[id] {
			return fmt.Errorf("%w: seed node %d listed twice", ErrInvalidParameter, id)
		}

		seen[id] = true
	}

	return nil
}
