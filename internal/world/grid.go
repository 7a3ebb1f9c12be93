package world

import "fmt"

// Grid is a rows×cols lattice of locations stored row-major.
type Grid struct {
	Rows int
	Cols int

	cells []Location
}

// NewGrid lays out every location of a rows×cols grid.
func NewGrid(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, rows, cols)
	}
	g := &Grid{Rows: rows, Cols: cols, cells: make([]Location, 0, rows*cols)}
	for r := range rows {
		for c := range cols {
			g.cells = append(g.cells, Location{Row: r, Col: c})
		}
	}
	return g, nil
}

// Size is the number of locations.
func (g *Grid) Size() int { return len(g.cells) }

// At returns the location at (r, c). It panics when out of bounds.
func (g *Grid) At(r, c int) Location {
	if !g.InBounds(r, c) {
		panic(fmt.Sprintf("world: cell (%d,%d) outside %dx%d grid", r, c, g.Rows, g.Cols))
	}
	return g.cells[r*g.Cols+c]
}

// InBounds reports whether (r, c) lies on the grid.
func (g *Grid) InBounds(r, c int) bool {
	return r >= 0 && r < g.Rows && c >= 0 && c < g.Cols
}

// Locations returns all locations in row-major order.
func (g *Grid) Locations() []Location {
	out := make([]Location, len(g.cells))
	copy(out, g.cells)
	return out
}

// TopLeft is the default robot start.
func (g *Grid) TopLeft() Location { return g.cells[0] }

// BottomRight is the default hospital location.
func (g *Grid) BottomRight() Location { return g.cells[len(g.cells)-1] }

var offsets = map[Direction][2]int{
	Up:    {-1, 0},
	Down:  {1, 0},
	Left:  {0, -1},
	Right: {0, 1},
}

// Step returns the neighbour of l in direction d, if it exists.
func (g *Grid) Step(l Location, d Direction) (Location, bool) {
	off := offsets[d]
	r, c := l.Row+off[0], l.Col+off[1]
	if !g.InBounds(r, c) {
		return Location{}, false
	}
	return g.At(r, c), true
}

// Neighbors returns the in-bounds orthogonal neighbours of l keyed by direction.
func (g *Grid) Neighbors(l Location) map[Direction]Location {
	out := make(map[Direction]Location, 4)
	for _, d := range Directions {
		if n, ok := g.Step(l, d); ok {
			out[d] = n
		}
	}
	return out
}

// Connectivity emits one conn fact per (cell, in-bounds neighbour) pair, so
// every adjacency appears once from each endpoint.
func (g *Grid) Connectivity() []Fact {
	facts := make([]Fact, 0, 4*len(g.cells))
	for _, l := range g.cells {
		for _, d := range Directions {
			if n, ok := g.Step(l, d); ok {
				facts = append(facts, Conn(l, n, d))
			}
		}
	}
	return facts
}
