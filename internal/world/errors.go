package world

import "errors"

var (
	// ErrInvalidDimensions indicates a grid with a non-positive row or column count.
	ErrInvalidDimensions = errors.New("world: grid rows and cols must be positive")
	// ErrInvalidProbability indicates a wall probability outside [0, 1].
	ErrInvalidProbability = errors.New("world: wall probability must be within [0, 1]")
	// ErrNoPeople indicates a request for zero persons.
	ErrNoPeople = errors.New("world: at least one person is required")
	// ErrTooManySelected indicates a goal asking for more persons than exist.
	ErrTooManySelected = errors.New("world: more persons selected than available")
	// ErrInvalidSelection indicates a negative selection count.
	ErrInvalidSelection = errors.New("world: selected person count must not be negative")
)
