package seir

import (
	"fmt"
	"log"

	"github.com/sarchlab/epinet/sim/hooking"
	"github.com/sarchlab/epinet/sim/timing"
	"github.com/sarchlab/epinet/spatial"
	"github.com/sarchlab/epinet/variate"
)

// Result is the outcome of one run.
type Result struct {
	Statuses   []Status          `json:"-"`
	Tally      Tally             `json:"tally"`
	Stats      Stats             `json:"stats"`
	EndTime    timing.VTimeInSec `json:"end_time"`
	Dispatched uint64            `json:"dispatched"`
	Dropped    uint64            `json:"dropped"`
}

// An Option configures a Simulation.
type Option func(*Simulation)

// WithLenientRemove makes a Remove event on a node that is not Infected a
// logged no-op instead of an error that halts the run.
func WithLenientRemove() Option {
	return func(s *Simulation) {
		s.lenient = true
	}
}

// WithLogger sets where the simulation reports skipped events.
func WithLogger(logger *log.Logger) Option {
	return func(s *Simulation) {
		s.logger = logger
	}
}

// Simulation owns a population, its spatial index and the engine the
// epidemic runs on. A Simulation can run many times; every run starts from
// the initial statuses of the nodes. Runs must not overlap.
type Simulation struct {
	store   *NodeStore
	index   *spatial.QuadIndex
	engine  *timing.SerialEngine
	lenient bool
	logger  *log.Logger
	model   *Model
}

// NewSimulation creates a simulation over nodes, whose ids must be 0, 1, 2,
// ... in order. BuildIndex must be called before Run.
func NewSimulation(nodes []Node, opts ...Option) (*Simulation, error) {
	store, err := NewNodeStore(nodes)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		store:  store,
		index:  spatial.NewQuadIndex(),
		engine: timing.NewSerialEngine(),
		logger: log.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// BuildIndex indexes the node locations for contact searches.
func (s *Simulation) BuildIndex() error {
	return s.index.Build(s.store.locs)
}

// Store returns the nodes of the simulation.
func (s *Simulation) Store() *NodeStore {
	return s.store
}

// Index returns the spatial index over the nodes.
func (s *Simulation) Index() *spatial.QuadIndex {
	return s.index
}

// Engine returns the engine the runs are executed on.
func (s *Simulation) Engine() *timing.SerialEngine {
	return s.engine
}

// AcceptHook registers a hook on the engine. Hooks persist across runs.
func (s *Simulation) AcceptHook(hook hooking.Hook) {
	s.engine.AcceptHook(hook)
}

// Stats returns the counters of the current or last run.
func (s *Simulation) Stats() Stats {
	if s.model == nil {
		return Stats{}
	}

	return s.model.Stats()
}

// ContactSampler returns a sampler over this simulation's nodes.
func (s *Simulation) ContactSampler(params Params) (*ContactSampler, error) {
	if !s.index.Built() {
		return nil, ErrNotInitialized
	}

	return NewContactSampler(s.store, s.index, params), nil
}

// Run infects the seed nodes at time 0 and processes events until none is
// left before the horizon. The returned Result is filled in even when the run
// halts on an error, and then describes the state at the failing event.
func (s *Simulation) Run(params Params, rng *variate.Generator) (*Result, error) {
	if !s.index.Built() {
		return nil, fmt.Errorf("run before building the index: %w", ErrNotInitialized)
	}

	if err := params.Validate(s.store.Len()); err != nil {
		return nil, err
	}

	seeds, err := s.seeds(params, rng)
	if err != nil {
		return nil, err
	}

	s.store.reset()
	s.engine.Reset()
	s.engine.WithHorizon(params.Horizon)

	s.model = &Model{
		store:     s.store,
		sampler:   NewContactSampler(s.store, s.index, params),
		scheduler: s.engine,
		rng:       rng,
		params:    params,
		lenient:   s.lenient,
		logger:    s.logger,
	}

	for _, id := range seeds {
		s.engine.Schedule(NewEvent(0, id, Infect, s.model))
	}

	runErr := s.engine.Run()

	result := &Result{
		Statuses:   s.store.Snapshot(),
		Tally:      s.store.Tally(),
		Stats:      s.model.Stats(),
		EndTime:    s.engine.Now(),
		Dispatched: s.engine.NumDispatched(),
		Dropped:    s.engine.NumDropped(),
	}

	return result, runErr
}

func (s *Simulation) seeds(params Params, rng *variate.Generator) ([]int, error) {
	if len(params.SeedNodes) > 0 {
		seeds := make([]int, len(params.SeedNodes))
		copy(seeds, params.SeedNodes)

		return seeds, nil
	}

	return rng.SampleIndices(params.InitialInfected, s.store.Len())
}

// Simulate runs the reference contact process with the given horizon and
// rates and returns the final status of every node.
func (s *Simulation) Simulate(
	horizon, beta, epsilon, gamma float64,
	rng *variate.Generator,
) ([]Status, error) {
	params := DefaultParams()
	params.Horizon = horizon
	params.Beta = beta
	params.Epsilon = epsilon
	params.Gamma = gamma
	params.InitialInfected = min(params.InitialInfected, s.store.Len())

	result, err := s.Run(params, rng)
	if err != nil {
		return nil, err
	}

	return result.Statuses, nil
}
