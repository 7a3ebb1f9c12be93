package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceDefaults(t *testing.T) {
	g, err := NewGrid(4, 5)
	require.NoError(t, err)

	p := Place(g, PlacementOptions{NumPeople: 3, PersonSeedBase: DefaultPersonSeedBase}, NewRand(99))

	assert.Equal(t, Location{0, 0}, p.Robot)
	assert.Equal(t, Location{3, 4}, p.Hospital)
	require.Len(t, p.People, 3)
	for i, loc := range p.People {
		assert.Equal(t, PersonDefaultLocation(g, DefaultPersonSeedBase, i), loc)
		assert.True(t, p.IsOccupied(loc))
	}
	assert.True(t, p.IsOccupied(p.Robot))
	assert.True(t, p.IsOccupied(p.Hospital))
}

func TestPlaceDefaultPeopleIgnoreSharedSource(t *testing.T) {
	g, err := NewGrid(6, 6)
	require.NoError(t, err)
	opts := PlacementOptions{NumPeople: 2, PersonSeedBase: 7}

	a := Place(g, opts, NewRand(1))
	b := Place(g, opts, NewRand(2))
	assert.Equal(t, a.People, b.People)
}

func TestPlaceRandomizedUsesSharedSource(t *testing.T) {
	g, err := NewGrid(8, 8)
	require.NoError(t, err)
	opts := PlacementOptions{
		NumPeople:         2,
		RandomizeRobot:    true,
		RandomizeHospital: true,
		RandomizePeople:   true,
	}

	a := Place(g, opts, NewRand(5))
	b := Place(g, opts, NewRand(5))
	assert.Equal(t, a, b)

	rng := NewRand(5)
	assert.Equal(t, RandomLocation(g, rng), a.Robot)
	assert.Equal(t, RandomLocation(g, rng), a.Hospital)
	assert.Equal(t, RandomLocation(g, rng), a.People[0])
	assert.Equal(t, RandomLocation(g, rng), a.People[1])
}

func TestPlaceAllowsSharedCells(t *testing.T) {
	g, err := NewGrid(1, 1)
	require.NoError(t, err)

	p := Place(g, PlacementOptions{NumPeople: 2}, NewRand(0))
	assert.Equal(t, p.Robot, p.Hospital)
	assert.Equal(t, []Location{{0, 0}, {0, 0}}, p.People)
	assert.Len(t, p.Occupied, 1)
}
