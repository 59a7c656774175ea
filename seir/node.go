package seir

import (
	"fmt"
	"sync"

	"github.com/sarchlab/epinet/spatial"
)

// Node is one individual of the population.
type Node struct {
	ID     int           `json:"id"`
	Status Status        `json:"status"`
	Loc    spatial.Point `json:"loc"`
}

// NodesAt creates susceptible nodes at the given locations, numbered in order.
func NodesAt(locs []spatial.Point) []Node {
	nodes := make([]Node, len(locs))
	for i, loc := range locs {
		nodes[i] = Node{ID: i, Status: Susceptible, Loc: loc}
	}

	return nodes
}

// NodeStore holds the status and location of every node. It is allocated once
// and never grows; nodes are addressed by their id only.
//
// The simulation is the only writer. The lock lets observers such as the
// monitor read a consistent view while a run is in progress.
type NodeStore struct {
	lock     sync.RWMutex
	initial  []Status
	statuses []Status
	locs     []spatial.Point
	tally    Tally
}

// NewNodeStore creates a store from nodes whose ids must be 0, 1, 2, ... in
// order.
func NewNodeStore(nodes []Node) (*NodeStore, error) {
	s := &NodeStore{
		initial:  make([]Status, len(nodes)),
		statuses: make([]Status, len(nodes)),
		locs:     make([]spatial.Point, len(nodes)),
	}

	for i, n := range nodes {
		if n.ID != i {
			return nil, fmt.Errorf("%w: node at position %d has id %d",
				ErrInvalidParameter, i, n.ID)
		}

		if !n.Status.Valid() {
			return nil, fmt.Errorf("%w: node %d has status %d",
				ErrInvalidParameter, i, n.Status)
		}

		s.initial[i] = n.Status
		s.locs[i] = n.Loc
	}

	s.reset()

	return s, nil
}

// Len returns the number of nodes.
func (s *NodeStore) Len() int {
	return len(s.statuses)
}

func (s *NodeStore) contains(id int) bool {
	return id >= 0 && id < len(s.statuses)
}

// Node returns a copy of the node with the given id.
func (s *NodeStore) Node(id int) (Node, error) {
	if !s.contains(id) {
		return Node{}, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	return Node{ID: id, Status: s.statuses[id], Loc: s.locs[id]}, nil
}

// Status returns the current status of a node. The id must be valid.
func (s *NodeStore) Status(id int) Status {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.statuses[id]
}

// Location returns where a node is. The id must be valid.
func (s *NodeStore) Location(id int) spatial.Point {
	return s.locs[id]
}

// Locations returns the location of every node, indexed by id.
func (s *NodeStore) Locations() []spatial.Point {
	locs := make([]spatial.Point, len(s.locs))
	copy(locs, s.locs)

	return locs
}

// Snapshot returns the status of every node, indexed by id.
func (s *NodeStore) Snapshot() []Status {
	s.lock.RLock()
	defer s.lock.RUnlock()

	snapshot := make([]Status, len(s.statuses))
	copy(snapshot, s.statuses)

	return snapshot
}

// Tally returns the number of nodes in each status.
func (s *NodeStore) Tally() Tally {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.tally
}

// advance moves a node to status to if the move is one of the SEIR
// transitions. It reports whether the node moved.
func (s *NodeStore) advance(id int, to Status) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	current := s.statuses[id]
	if !current.CanAdvanceTo(to) {
		return false
	}

	s.statuses[id] = to
	s.tally.add(current, -1)
	s.tally.add(to, 1)

	return true
}

// reset restores the statuses the store was created with.
func (s *NodeStore) reset() {
	s.lock.Lock()
	defer s.lock.Unlock()

	copy(s.statuses, s.initial)

	s.tally = Tally{}
	for _, st := range s.statuses {
		s.tally.add(st, 1)
	}
}
