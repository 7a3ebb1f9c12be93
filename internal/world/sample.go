package world

import (
	"fmt"
	"math/rand/v2"
)

// Params is the full knob set for sampling one instance.
type Params struct {
	Rows        int
	Cols        int
	NumPeople   int
	NumSelected int

	RandomizePeople   bool
	RandomizeRobot    bool
	RandomizeHospital bool

	WallProbability float64
	RandomizeWalls  bool

	PersonSeedBase uint64
	WallSeed       uint64

	// Directions are the domain's move constants. Nil means all four.
	Directions []Direction
}

// DefaultParams mirrors the historical generator defaults.
func DefaultParams() Params {
	return Params{
		Rows:            10,
		Cols:            10,
		NumPeople:       1,
		NumSelected:     1,
		RandomizeRobot:  true,
		WallProbability: 0.05,
		PersonSeedBase:  DefaultPersonSeedBase,
	}
}

// Validate rejects parameter sets that cannot produce a well-formed instance.
func (p Params) Validate() error {
	if p.Rows <= 0 || p.Cols <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, p.Rows, p.Cols)
	}
	if p.NumPeople < 1 {
		return ErrNoPeople
	}
	if p.NumSelected < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSelection, p.NumSelected)
	}
	if p.NumSelected > p.NumPeople {
		return fmt.Errorf("%w: %d of %d", ErrTooManySelected, p.NumSelected, p.NumPeople)
	}
	if p.WallProbability < 0 || p.WallProbability > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidProbability, p.WallProbability)
	}
	return nil
}

// Problem is one complete instance: object universe, initial facts and goal,
// along with the layout that produced them.
type Problem struct {
	Grid      *Grid
	Robot     Object
	Hospital  Object
	People    []Object
	Placement Placement
	Walls     Walls

	Objects []Object
	Init    []Fact
	Goal    Goal
}

// Has reports whether f is part of the initial state.
func (p *Problem) Has(f Fact) bool {
	for _, g := range p.Init {
		if g == f {
			return true
		}
	}
	return false
}

// FactsOf returns the initial facts with the given predicate.
func (p *Problem) FactsOf(pred Predicate) []Fact {
	var out []Fact
	for _, f := range p.Init {
		if f.Pred == pred {
			out = append(out, f)
		}
	}
	return out
}

// factSet keeps insertion order and drops repeats.
type factSet struct {
	seen  map[Fact]struct{}
	facts []Fact
}

func (s *factSet) add(fs ...Fact) {
	if s.seen == nil {
		s.seen = make(map[Fact]struct{})
	}
	for _, f := range fs {
		if _, ok := s.seen[f]; ok {
			continue
		}
		s.seen[f] = struct{}{}
		s.facts = append(s.facts, f)
	}
}

// Sample builds one instance, drawing every random choice from rng in a fixed
// order: placement, walls, goal.
func Sample(params Params, rng *rand.Rand) (*Problem, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	g, err := NewGrid(params.Rows, params.Cols)
	if err != nil {
		return nil, err
	}
	dirs := params.Directions
	if dirs == nil {
		dirs = Directions
	}

	p := &Problem{Grid: g, Robot: Robot(0), Hospital: Hospital(0)}
	var init factSet

	for _, l := range g.cells {
		p.Objects = append(p.Objects, LocationObject(l))
	}
	init.add(g.Connectivity()...)

	p.Objects = append(p.Objects, p.Robot, p.Hospital)
	init.add(HandsFree(p.Robot))

	p.Placement = Place(g, PlacementOptions{
		NumPeople:         params.NumPeople,
		RandomizeRobot:    params.RandomizeRobot,
		RandomizeHospital: params.RandomizeHospital,
		RandomizePeople:   params.RandomizePeople,
		PersonSeedBase:    params.PersonSeedBase,
	}, rng)
	init.add(RobotAt(p.Robot, p.Placement.Robot), HospitalAt(p.Hospital, p.Placement.Hospital))

	for i, loc := range p.Placement.People {
		person := Person(i)
		p.People = append(p.People, person)
		p.Objects = append(p.Objects, person)
		init.add(PersonAt(person, loc))
	}

	p.Walls, err = PlaceWalls(g, WallOptions{
		Probability: params.WallProbability,
		Randomize:   params.RandomizeWalls,
		Seed:        params.WallSeed,
	}, p.Placement.Occupied, rng)
	if err != nil {
		return nil, err
	}
	for _, w := range p.Walls.Placed {
		p.Objects = append(p.Objects, w.Wall)
		init.add(WallAt(w.Wall, w.Loc))
	}
	for _, loc := range p.Walls.Clear {
		init.add(Clear(loc))
	}

	init.add(Actions(p.People, dirs)...)
	p.Init = init.facts

	p.Goal, err = SelectGoal(p.People, p.Placement.Hospital, params.NumSelected, rng)
	if err != nil {
		return nil, err
	}
	return p, nil
}
