// Package pddl holds the searchandrescue domain definition and writes
// generated problems in PDDL.
package pddl

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sbenjam1n/rescuegen/internal/world"
)

// DomainName is the name every generated problem references.
const DomainName = "searchandrescue"

//go:embed searchandrescue.pddl
var searchAndRescueSource []byte

var (
	// ErrUnknownPredicate indicates a fact whose predicate the domain does not declare.
	ErrUnknownPredicate = errors.New("pddl: unknown predicate")
	// ErrSignature indicates a fact whose arguments do not match the declared types.
	ErrSignature = errors.New("pddl: argument types do not match predicate signature")
)

// Signature is the typed parameter list of a predicate.
type Signature struct {
	Name   world.Predicate
	Params []world.Kind
}

// Domain is the read-only view of a domain definition the generator needs.
type Domain struct {
	Name       string
	Types      []world.Kind
	Constants  []world.Direction
	Predicates []Signature
	Source     []byte
}

// SearchAndRescue returns the embedded searchandrescue domain.
func SearchAndRescue() *Domain {
	loc, dir := world.KindLocation, world.KindDirection
	return &Domain{
		Name: DomainName,
		Types: []world.Kind{
			world.KindRobot, world.KindPerson, loc,
			world.KindWall, world.KindHospital, dir,
		},
		Constants: []world.Direction{world.Up, world.Down, world.Left, world.Right},
		Predicates: []Signature{
			{world.PredConn, []world.Kind{loc, loc, dir}},
			{world.PredClear, []world.Kind{loc}},
			{world.PredRobotAt, []world.Kind{world.KindRobot, loc}},
			{world.PredPersonAt, []world.Kind{world.KindPerson, loc}},
			{world.PredWallAt, []world.Kind{world.KindWall, loc}},
			{world.PredHospitalAt, []world.Kind{world.KindHospital, loc}},
			{world.PredCarrying, []world.Kind{world.KindRobot, world.KindPerson}},
			{world.PredHandsFree, []world.Kind{world.KindRobot}},
			{world.PredMove, []world.Kind{dir}},
			{world.PredPickup, []world.Kind{world.KindPerson}},
			{world.PredDropoff, nil},
		},
		Source: searchAndRescueSource,
	}
}

// Predicate looks up a predicate signature by name.
func (d *Domain) Predicate(name world.Predicate) (Signature, bool) {
	for _, s := range d.Predicates {
		if s.Name == name {
			return s, true
		}
	}
	return Signature{}, false
}

// CheckFact verifies a ground fact against the predicate signatures.
func (d *Domain) CheckFact(f world.Fact) error {
	sig, ok := d.Predicate(f.Pred)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPredicate, f.Pred)
	}
	if int(f.Arity) != len(sig.Params) {
		return fmt.Errorf("%w: %s has %d arguments, want %d", ErrSignature, f, f.Arity, len(sig.Params))
	}
	for i, arg := range f.Terms() {
		if arg.Kind != sig.Params[i] {
			return fmt.Errorf("%w: %s argument %d is %s, want %s", ErrSignature, f, i, arg.Kind, sig.Params[i])
		}
	}
	return nil
}

// TypeRank is the position of k in the domain's type declaration, or -1.
func (d *Domain) TypeRank(k world.Kind) int {
	for i, t := range d.Types {
		if t == k {
			return i
		}
	}
	return -1
}

// Write stores the domain source at path, creating parent directories.
func (d *Domain) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create domain dir: %w", err)
	}
	if err := os.WriteFile(path, d.Source, 0o644); err != nil {
		return fmt.Errorf("write domain file: %w", err)
	}
	return nil
}
