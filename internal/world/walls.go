package world

import (
	"fmt"
	"math/rand/v2"
)

// WallOptions controls obstacle generation.
type WallOptions struct {
	Probability float64
	// Randomize draws the mask from the shared source instead of a fixed one.
	Randomize bool
	Seed      uint64
}

// PlacedWall binds a wall object to its cell.
type PlacedWall struct {
	Wall Object
	Loc  Location
}

// Walls is the obstacle layout of a grid.
type Walls struct {
	Placed []PlacedWall
	Clear  []Location
}

// Mask samples one uniform draw per cell in row-major order against p.
func Mask(g *Grid, p float64, rng *rand.Rand) []bool {
	mask := make([]bool, g.Size())
	for i := range mask {
		mask[i] = rng.Float64() < p
	}
	return mask
}

// PlaceWalls turns masked, unoccupied cells into walls and every other cell
// into a clear cell. Walls are numbered in row-major order.
func PlaceWalls(g *Grid, opts WallOptions, occupied map[Location]struct{}, rng *rand.Rand) (Walls, error) {
	if opts.Probability < 0 || opts.Probability > 1 {
		return Walls{}, fmt.Errorf("%w: got %v", ErrInvalidProbability, opts.Probability)
	}
	src := rng
	if !opts.Randomize {
		src = NewRand(opts.Seed)
	}
	mask := Mask(g, opts.Probability, src)

	var w Walls
	for i, loc := range g.cells {
		if _, taken := occupied[loc]; !taken && mask[i] {
			w.Placed = append(w.Placed, PlacedWall{Wall: Wall(len(w.Placed)), Loc: loc})
			continue
		}
		w.Clear = append(w.Clear, loc)
	}
	return w, nil
}
