package world

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleTwoByTwoFixedPlacement(t *testing.T) {
	params := Params{
		Rows:           2,
		Cols:           2,
		NumPeople:      1,
		NumSelected:    1,
		PersonSeedBase: DefaultPersonSeedBase,
	}
	p, err := Sample(params, NewRand(0))
	require.NoError(t, err)

	assert.True(t, p.Has(RobotAt(Robot(0), Location{0, 0})))
	assert.True(t, p.Has(HospitalAt(Hospital(0), Location{1, 1})))
	personLoc := PersonDefaultLocation(p.Grid, DefaultPersonSeedBase, 0)
	assert.True(t, p.Has(PersonAt(Person(0), personLoc)))
	assert.True(t, p.Has(HandsFree(Robot(0))))

	assert.Empty(t, p.FactsOf(PredWallAt))
	assert.Len(t, p.FactsOf(PredClear), 4)
	assert.Len(t, p.FactsOf(PredConn), 8)
	assert.Equal(t, Goal{Literals: []Fact{PersonAt(Person(0), Location{1, 1})}}, p.Goal)

	plan, ok := solve(p)
	require.True(t, ok, "2x2 instance must be solvable")
	if personLoc == (Location{1, 1}) {
		assert.Empty(t, plan)
	} else {
		assert.GreaterOrEqual(t, len(plan), 2)
		assert.Equal(t, "dropoff", plan[len(plan)-1])
	}
}

func TestSampleInvariants(t *testing.T) {
	rng := NewRand(0)
	for i := range 200 {
		params := Params{
			Rows:              1 + i%7,
			Cols:              1 + (i/7)%6,
			NumPeople:         1 + i%3,
			NumSelected:       1,
			RandomizePeople:   i%2 == 0,
			RandomizeRobot:    true,
			RandomizeHospital: i%3 == 0,
			WallProbability:   float64(i%5) / 4,
			RandomizeWalls:    i%4 == 0,
			PersonSeedBase:    DefaultPersonSeedBase,
		}
		t.Run(fmt.Sprintf("case%d", i), func(t *testing.T) {
			p, err := Sample(params, rng)
			require.NoError(t, err)

			occupied := []Location{p.Placement.Robot, p.Placement.Hospital}
			occupied = append(occupied, p.Placement.People...)

			walls := make(map[Location]bool)
			for _, f := range p.FactsOf(PredWallAt) {
				walls[f.Args[1].Loc] = true
			}
			for _, l := range occupied {
				assert.False(t, walls[l], "wall on occupied %s", l.Name())
			}

			clearCells := make(map[Location]bool)
			for _, f := range p.FactsOf(PredClear) {
				clearCells[f.Args[0].Loc] = true
			}
			for _, l := range p.Grid.Locations() {
				assert.NotEqual(t, walls[l], clearCells[l], "%s must be exactly one of wall or clear", l.Name())
			}

			assert.Len(t, p.FactsOf(PredPickup), params.NumPeople)
			assert.Len(t, p.FactsOf(PredDropoff), 1)
			assert.Len(t, p.FactsOf(PredMove), len(Directions))
			assert.Len(t, p.Goal.Literals, params.NumSelected)
		})
	}
}

func TestSampleRejectsInvalidParams(t *testing.T) {
	base := DefaultParams()
	tests := []struct {
		name   string
		mutate func(*Params)
		want   error
	}{
		{"zero rows", func(p *Params) { p.Rows = 0 }, ErrInvalidDimensions},
		{"negative cols", func(p *Params) { p.Cols = -2 }, ErrInvalidDimensions},
		{"no people", func(p *Params) { p.NumPeople = 0 }, ErrNoPeople},
		{"too many selected", func(p *Params) { p.NumSelected = 2 }, ErrTooManySelected},
		{"negative selected", func(p *Params) { p.NumSelected = -1 }, ErrInvalidSelection},
		{"probability", func(p *Params) { p.WallProbability = 2 }, ErrInvalidProbability},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := base
			tt.mutate(&params)
			_, err := Sample(params, NewRand(0))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSampleIsReproducible(t *testing.T) {
	params := DefaultParams()
	params.NumPeople = 3
	params.NumSelected = 2
	params.RandomizePeople = true
	params.RandomizeWalls = true

	a, err := Sample(params, NewRand(42))
	require.NoError(t, err)
	b, err := Sample(params, NewRand(42))
	require.NoError(t, err)
	assert.Equal(t, a.Init, b.Init)
	assert.Equal(t, a.Goal, b.Goal)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

// solve runs a breadth-first search over robot position, carried person and
// person positions. It returns action names of a shortest plan.
func solve(p *Problem) ([]string, bool) {
	type state struct {
		robot   Location
		carried int
		people  string
	}
	encode := func(locs []Location) string { return fmt.Sprint(locs) }

	start := make([]Location, len(p.People))
	robot := p.Placement.Robot
	for _, f := range p.Init {
		switch f.Pred {
		case PredPersonAt:
			start[f.Args[0].Index] = f.Args[1].Loc
		case PredRobotAt:
			robot = f.Args[1].Loc
		}
	}

	type node struct {
		s    state
		locs []Location
		plan []string
	}
	goal := func(locs []Location, carried int) bool {
		for _, lit := range p.Goal.Literals {
			idx := lit.Args[0].Index
			if carried == idx || locs[idx] != lit.Args[1].Loc {
				return false
			}
		}
		return true
	}

	first := node{s: state{robot, -1, encode(start)}, locs: start}
	if goal(start, -1) {
		return nil, true
	}
	visited := map[state]bool{first.s: true}
	queue := []node{first}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		var next []node
		for _, d := range Directions {
			to, ok := p.Grid.Step(n.s.robot, d)
			if !ok || !p.Has(Move(d)) || !p.Has(Conn(n.s.robot, to, d)) || !p.Has(Clear(to)) {
				continue
			}
			next = append(next, node{s: state{to, n.s.carried, n.s.people}, locs: n.locs,
				plan: append(append([]string{}, n.plan...), "move "+d.String())})
		}
		if n.s.carried < 0 {
			for i, loc := range n.locs {
				if loc != n.s.robot || !p.Has(Pickup(Person(i))) {
					continue
				}
				locs := append([]Location{}, n.locs...)
				locs[i] = Location{-1, -1}
				next = append(next, node{s: state{n.s.robot, i, encode(locs)}, locs: locs,
					plan: append(append([]string{}, n.plan...), "pickup "+Person(i).Name())})
			}
		} else if p.Has(Dropoff()) {
			locs := append([]Location{}, n.locs...)
			locs[n.s.carried] = n.s.robot
			next = append(next, node{s: state{n.s.robot, -1, encode(locs)}, locs: locs,
				plan: append(append([]string{}, n.plan...), "dropoff")})
		}

		for _, m := range next {
			if visited[m.s] {
				continue
			}
			if goal(m.locs, m.s.carried) {
				return m.plan, true
			}
			visited[m.s] = true
			queue = append(queue, m)
		}
	}
	return nil, false
}
