// Package spatial provides an immutable index over a fixed set of 2D points
// that answers circular range queries.
package spatial

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"
)

var (
	// ErrNotInitialized is returned when the index is queried before Build.
	ErrNotInitialized = errors.New("spatial index not initialized")

	// ErrAlreadyBuilt is returned when Build is called a second time.
	ErrAlreadyBuilt = errors.New("spatial index already built")

	// ErrInvalidPoint is returned when a point has a non-finite coordinate.
	ErrInvalidPoint = errors.New("invalid point")

	// ErrInvalidRadius is returned for negative or NaN query radii.
	ErrInvalidRadius = errors.New("invalid radius")
)

// Point is a location on the plane.
type Point struct {
	X, Y float64
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

func (p Point) toOrb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// entry is what the quadtree stores for each indexed point.
type entry struct {
	id  int
	loc orb.Point
}

func (e entry) Point() orb.Point {
	return e.loc
}

// QuadIndex keeps the points in a quadtree spanning their bounding box. A
// range query only descends into the quadrants overlapping the query's
// bounding square and then filters the candidates by distance.
//
// The tree is never modified after Build, so queries may run concurrently.
type QuadIndex struct {
	built  bool
	points []Point
	bound  orb.Bound
	tree   *quadtree.Quadtree
}

// NewQuadIndex creates an empty index.
func NewQuadIndex() *QuadIndex {
	return &QuadIndex{}
}

// Build indexes points. The id of a point is its position in the slice. Build
// can only be called once.
func (q *QuadIndex) Build(points []Point) error {
	if q.built {
		return ErrAlreadyBuilt
	}

	for i, p := range points {
		if !p.finite() {
			return fmt.Errorf("%w: point %d at (%v, %v)", ErrInvalidPoint, i, p.X, p.Y)
		}
	}

	q.points = make([]Point, len(points))
	copy(q.points, points)

	if len(points) > 0 {
		if err := q.fill(); err != nil {
			return err
		}
	}

	q.built = true

	return nil
}

func (q *QuadIndex) fill() error {
	q.bound = orb.Bound{Min: q.points[0].toOrb(), Max: q.points[0].toOrb()}
	for _, p := range q.points[1:] {
		q.bound = q.bound.Extend(p.toOrb())
	}

	q.tree = quadtree.New(q.bound)

	for id, p := range q.points {
		err := q.tree.Add(entry{id: id, loc: p.toOrb()})
		if err != nil {
			return fmt.Errorf("indexing point %d: %w", id, err)
		}
	}

	return nil
}

// RangeQuery returns the ids of all the points whose distance to center is at
// most radius. The order of the result is unspecified.
func (q *QuadIndex) RangeQuery(center Point, radius float64) ([]int, error) {
	if !q.built {
		return nil, ErrNotInitialized
	}

	if math.IsNaN(radius) || radius < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRadius, radius)
	}

	if !center.finite() {
		return nil, fmt.Errorf("%w: center (%v, %v)", ErrInvalidPoint, center.X, center.Y)
	}

	var found []int
	if q.tree == nil {
		return found, nil
	}

	window, ok := q.window(center, radius)
	if !ok {
		return found, nil
	}

	r2 := radius * radius
	within := func(p orb.Pointer) bool {
		loc := p.Point()
		dx, dy := loc[0]-center.X, loc[1]-center.Y

		return dx*dx+dy*dy <= r2
	}

	for _, p := range q.tree.InBoundMatching(nil, window, within) {
		found = append(found, p.(entry).id)
	}

	return found, nil
}

// window clips the bounding square of the query circle to the bounding box of
// the points. It reports false if the two do not overlap.
func (q *QuadIndex) window(center Point, radius float64) (orb.Bound, bool) {
	w := orb.Bound{
		Min: orb.Point{
			math.Max(center.X-radius, q.bound.Min[0]),
			math.Max(center.Y-radius, q.bound.Min[1]),
		},
		Max: orb.Point{
			math.Min(center.X+radius, q.bound.Max[0]),
			math.Min(center.Y+radius, q.bound.Max[1]),
		},
	}

	if w.Min[0] > w.Max[0] || w.Min[1] > w.Max[1] {
		return orb.Bound{}, false
	}

	return w, true
}

// Built tells whether Build has been called successfully.
func (q *QuadIndex) Built() bool {
	return q.built
}

// Len returns the number of indexed points.
func (q *QuadIndex) Len() int {
	return len(q.points)
}

// Point returns the location of the point with the given id.
func (q *QuadIndex) Point(id int) Point {
	return q.points[id]
}

// Bound returns the bounding box of the indexed points.
func (q *QuadIndex) Bound() (lo, hi Point) {
	return Point{q.bound.Min[0], q.bound.Min[1]},
		Point{q.bound.Max[0], q.bound.Max[1]}
}
