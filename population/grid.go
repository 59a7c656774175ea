// Package population turns raster grids into the nodes of a simulation and
// the final statuses of the nodes back into a raster band.
package population

import (
	"errors"
	"fmt"

	"github.com/sarchlab/epinet/seir"
	"github.com/sarchlab/epinet/spatial"
	"github.com/sarchlab/epinet/variate"
)

// DefaultThreshold is the cell value above which a raw raster cell holds a
// node.
const DefaultThreshold = 200

// Band values written by Encode. Each value is the lower bound of a bucket of
// the colour table used to render the band.
const (
	BandEmpty       uint8 = 0
	BandSusceptible uint8 = 1
	BandExposed     uint8 = 64
	BandInfected    uint8 = 128
	BandRemoved     uint8 = 192
)

// ErrInvalidGrid is returned for grids whose cells do not match their size.
var ErrInvalidGrid = errors.New("invalid grid")

// A Grid is a single band raster stored in row-major order. A cell with a
// non-zero value holds one node. Once nodes have been read, cells must only
// change through Set.
type Grid struct {
	Width  int
	Height int
	Cells  []uint8

	occupied []int
}

// NewGrid creates an empty grid.
func NewGrid(width, height int) (*Grid, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidGrid, width, height)
	}

	return &Grid{
		Width:  width,
		Height: height,
		Cells:  make([]uint8, width*height),
	}, nil
}

// Validate checks that the cells cover the grid exactly.
func (g *Grid) Validate() error {
	if g.Width < 0 || g.Height < 0 || len(g.Cells) != g.Width*g.Height {
		return fmt.Errorf("%w: %d cells for size %dx%d",
			ErrInvalidGrid, len(g.Cells), g.Width, g.Height)
	}

	return nil
}

// At returns the value of the cell at column x and row y.
func (g *Grid) At(x, y int) uint8 {
	return g.Cells[y*g.Width+x]
}

// Set changes the value of the cell at column x and row y.
func (g *Grid) Set(x, y int, v uint8) {
	g.Cells[y*g.Width+x] = v
	g.occupied = nil
}

// Threshold returns a binary grid with 1 where the cell value is strictly
// above level and 0 elsewhere.
func (g *Grid) Threshold(level uint8) *Grid {
	out := &Grid{
		Width:  g.Width,
		Height: g.Height,
		Cells:  make([]uint8, len(g.Cells)),
	}

	for i, v := range g.Cells {
		if v > level {
			out.Cells[i] = 1
		}
	}

	return out
}

func (g *Grid) index() []int {
	if g.occupied != nil {
		return g.occupied
	}

	g.occupied = make([]int, 0)
	for i, v := range g.Cells {
		if v != 0 {
			g.occupied = append(g.occupied, i)
		}
	}

	return g.occupied
}

// Len returns the number of occupied cells.
func (g *Grid) Len() int {
	return len(g.index())
}

// Locations returns the location of every occupied cell in row-major order.
// The x coordinate is the column and the y coordinate is the row.
func (g *Grid) Locations() []spatial.Point {
	cells := g.index()

	locs := make([]spatial.Point, len(cells))
	for i, c := range cells {
		locs[i] = spatial.Point{
			X: float64(c % g.Width),
			Y: float64(c / g.Width),
		}
	}

	return locs
}

// Nodes returns a susceptible node for every occupied cell. Node ids follow
// the row-major order of the cells.
func (g *Grid) Nodes() []seir.Node {
	return seir.NodesAt(g.Locations())
}

// CellOf returns the column and row of the cell holding node id.
func (g *Grid) CellOf(id int) (x, y int, err error) {
	cells := g.index()
	if id < 0 || id >= len(cells) {
		return 0, 0, fmt.Errorf("%w: %d", seir.ErrNodeNotFound, id)
	}

	return cells[id] % g.Width, cells[id] / g.Width, nil
}

// BandValue returns the band value of a status.
func BandValue(s seir.Status) uint8 {
	switch s {
	case seir.Susceptible:
		return BandSusceptible
	case seir.Exposed:
		return BandExposed
	case seir.Infected:
		return BandInfected
	case seir.Removed:
		return BandRemoved
	}

	return BandEmpty
}

// Encode writes the status of every node into a new grid of the same size.
// Cells without a node are BandEmpty.
func (g *Grid) Encode(statuses []seir.Status) (*Grid, error) {
	cells := g.index()
	if len(statuses) != len(cells) {
		return nil, fmt.Errorf("%w: %d statuses for %d nodes",
			ErrInvalidGrid, len(statuses), len(cells))
	}

	out := &Grid{
		Width:  g.Width,
		Height: g.Height,
		Cells:  make([]uint8, len(g.Cells)),
	}

	for id, c := range cells {
		out.Cells[c] = BandValue(statuses[id])
	}

	return out, nil
}

// RandomGrid creates a binary grid where every cell holds a node with the
// given probability.
func RandomGrid(
	width, height int,
	density float64,
	rng *variate.Generator,
) (*Grid, error) {
	if !(density >= 0 && density <= 1) {
		return nil, fmt.Errorf("%w: density %v not in [0, 1]",
			seir.ErrInvalidParameter, density)
	}

	g, err := NewGrid(width, height)
	if err != nil {
		return nil, err
	}

	for i := range g.Cells {
		if rng.UniformReal(0, 1) < density {
			g.Cells[i] = 1
		}
	}

	return g, nil
}
