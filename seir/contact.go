package seir

import (
	"math"

	"github.com/sarchlab/epinet/spatial"
	"github.com/sarchlab/epinet/variate"
)

// A RangeSearcher finds the ids of the points within a radius of a center.
type RangeSearcher interface {
	RangeQuery(center spatial.Point, radius float64) ([]int, error)
}

// ContactSampler picks the nodes an infected node gets in touch with.
type ContactSampler struct {
	store       *NodeStore
	index       RangeSearcher
	rate        float64
	maxRadius   float64
	maxContacts int
}

// NewContactSampler creates a sampler over the nodes of store, located through
// index, whose ids must match the node ids.
func NewContactSampler(
	store *NodeStore,
	index RangeSearcher,
	params Params,
) *ContactSampler {
	return &ContactSampler{
		store:       store,
		index:       index,
		rate:        params.ContactRate,
		maxRadius:   params.MaxContactRadius,
		maxContacts: params.MaxContacts,
	}
}

// FindContacts draws a contact radius and a contact count, then returns at
// most that many distinct nodes within the radius of the given node, never
// the node itself.
func (c *ContactSampler) FindContacts(id int, rng *variate.Generator) ([]Node, error) {
	radius, err := rng.ExponentialInterval(c.rate)
	if err != nil {
		return nil, err
	}

	if c.maxRadius > 0 {
		radius = math.Min(radius, c.maxRadius)
	}

	limit := rng.UniformInt(0, c.maxContacts)

	found, err := c.index.RangeQuery(c.store.Location(id), radius)
	if err != nil {
		return nil, err
	}

	candidates := make([]int, 0, len(found))
	for _, other := range found {
		if other != id {
			candidates = append(candidates, other)
		}
	}

	chosen, err := variate.Sample(rng, limit, candidates)
	if err != nil {
		return nil, err
	}

	contacts := make([]Node, len(chosen))
	for i, other := range chosen {
		contacts[i], err = c.store.Node(other)
		if err != nil {
			return nil, err
		}
	}

	return contacts, nil
}
