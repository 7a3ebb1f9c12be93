package world

import "math/rand/v2"

// DefaultPersonSeedBase seeds the fixed per-person placement sources.
const DefaultPersonSeedBase = 123

// NewRand returns a deterministic source for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// RandomLocation draws a row then a column uniformly from rng.
func RandomLocation(g *Grid, rng *rand.Rand) Location {
	r := rng.IntN(g.Rows)
	c := rng.IntN(g.Cols)
	return g.At(r, c)
}

// PlacementOptions controls where the robot, hospital and persons go.
type PlacementOptions struct {
	NumPeople         int
	RandomizeRobot    bool
	RandomizeHospital bool
	RandomizePeople   bool
	// PersonSeedBase seeds person i's fixed source with PersonSeedBase+i
	// when RandomizePeople is off.
	PersonSeedBase uint64
}

// Placement is the outcome of placing the non-wall entities.
type Placement struct {
	Robot    Location
	Hospital Location
	People   []Location
	Occupied map[Location]struct{}
}

// IsOccupied reports whether any entity was placed on l.
func (p Placement) IsOccupied(l Location) bool {
	_, ok := p.Occupied[l]
	return ok
}

// Place assigns locations in the order robot, hospital, persons. Draws are
// independent: entities may share a cell.
func Place(g *Grid, opts PlacementOptions, rng *rand.Rand) Placement {
	p := Placement{
		People:   make([]Location, 0, opts.NumPeople),
		Occupied: make(map[Location]struct{}, opts.NumPeople+2),
	}

	if opts.RandomizeRobot {
		p.Robot = RandomLocation(g, rng)
	} else {
		p.Robot = g.TopLeft()
	}
	p.Occupied[p.Robot] = struct{}{}

	if opts.RandomizeHospital {
		p.Hospital = RandomLocation(g, rng)
	} else {
		p.Hospital = g.BottomRight()
	}
	p.Occupied[p.Hospital] = struct{}{}

	for i := range opts.NumPeople {
		var loc Location
		if opts.RandomizePeople {
			loc = RandomLocation(g, rng)
		} else {
			loc = PersonDefaultLocation(g, opts.PersonSeedBase, i)
		}
		p.People = append(p.People, loc)
		p.Occupied[loc] = struct{}{}
	}
	return p
}

// PersonDefaultLocation is the reproducible location of person i when
// person placement is not randomized.
func PersonDefaultLocation(g *Grid, base uint64, i int) Location {
	return RandomLocation(g, NewRand(base+uint64(i)))
}
