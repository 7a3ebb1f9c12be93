package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceWallsProbabilityBounds(t *testing.T) {
	g, err := NewGrid(3, 3)
	require.NoError(t, err)
	occupied := map[Location]struct{}{{0, 0}: {}, {2, 2}: {}}

	none, err := PlaceWalls(g, WallOptions{Probability: 0}, occupied, NewRand(1))
	require.NoError(t, err)
	assert.Empty(t, none.Placed)
	assert.Len(t, none.Clear, 9)

	all, err := PlaceWalls(g, WallOptions{Probability: 1}, occupied, NewRand(1))
	require.NoError(t, err)
	assert.Len(t, all.Placed, 7)
	assert.ElementsMatch(t, []Location{{0, 0}, {2, 2}}, all.Clear)
	for i, w := range all.Placed {
		assert.Equal(t, Wall(i), w.Wall)
		assert.NotContains(t, occupied, w.Loc)
	}
}

func TestPlaceWallsInvalidProbability(t *testing.T) {
	g, err := NewGrid(2, 2)
	require.NoError(t, err)
	for _, p := range []float64{-0.1, 1.5} {
		_, err := PlaceWalls(g, WallOptions{Probability: p}, nil, NewRand(0))
		assert.ErrorIs(t, err, ErrInvalidProbability)
	}
}

func TestPlaceWallsFixedSeedIsReproducible(t *testing.T) {
	g, err := NewGrid(10, 10)
	require.NoError(t, err)
	opts := WallOptions{Probability: 0.3, Seed: 0}

	a, err := PlaceWalls(g, opts, nil, NewRand(1))
	require.NoError(t, err)
	b, err := PlaceWalls(g, opts, nil, NewRand(2))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	opts.Randomize = true
	c, err := PlaceWalls(g, opts, nil, NewRand(3))
	require.NoError(t, err)
	d, err := PlaceWalls(g, opts, nil, NewRand(3))
	require.NoError(t, err)
	assert.Equal(t, c, d)
}

func TestPlaceWallsCoverage(t *testing.T) {
	g, err := NewGrid(7, 4)
	require.NoError(t, err)
	occupied := map[Location]struct{}{{3, 1}: {}}

	w, err := PlaceWalls(g, WallOptions{Probability: 0.5, Randomize: true}, occupied, NewRand(11))
	require.NoError(t, err)

	status := make(map[Location]int)
	for _, pw := range w.Placed {
		status[pw.Loc]++
	}
	for _, l := range w.Clear {
		status[l]++
	}
	for _, l := range g.Locations() {
		assert.Equal(t, 1, status[l], "location %s", l.Name())
	}
}
