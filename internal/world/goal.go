package world

import (
	"fmt"
	"math/rand/v2"
)

// SelectGoal samples k distinct persons without replacement and requires each
// to end at the hospital.
func SelectGoal(people []Object, hospital Location, k int, rng *rand.Rand) (Goal, error) {
	if k < 0 {
		return Goal{}, fmt.Errorf("%w: got %d", ErrInvalidSelection, k)
	}
	if k > len(people) {
		return Goal{}, fmt.Errorf("%w: %d of %d", ErrTooManySelected, k, len(people))
	}

	pool := make([]Object, len(people))
	copy(pool, people)
	// partial Fisher-Yates
	for i := range k {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	g := Goal{Literals: make([]Fact, 0, k)}
	for _, p := range pool[:k] {
		g.Literals = append(g.Literals, PersonAt(p, hospital))
	}
	return g, nil
}
