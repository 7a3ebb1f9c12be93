package corpus

import (
	"fmt"
	"math/rand/v2"

	"github.com/sbenjam1n/rescuegen/internal/pddl"
	"github.com/sbenjam1n/rescuegen/internal/world"
)

// ProblemWriter persists a problem to a path.
type ProblemWriter interface {
	WriteProblem(path string, p *world.Problem) error
}

// Instance is one assembled, serialized problem.
type Instance struct {
	Problem     *world.Problem
	Path        string
	Fingerprint world.Fingerprint
}

// Assembler samples a world and serializes it.
type Assembler struct {
	params world.Params
	writer ProblemWriter
}

// NewAssembler samples with params, taking move directions from the domain,
// and writes problems in fast-downward order.
func NewAssembler(d *pddl.Domain, params world.Params) *Assembler {
	params.Directions = d.Constants
	return &Assembler{
		params: params,
		writer: pddl.FileWriter{Domain: d, Options: pddl.ProblemOptions{FastDownwardOrder: true}},
	}
}

// NewAssemblerWithWriter is NewAssembler with a custom writer.
func NewAssemblerWithWriter(params world.Params, w ProblemWriter) *Assembler {
	return &Assembler{params: params, writer: w}
}

// Assemble samples one problem from rng and writes it to path.
func (a *Assembler) Assemble(path string, rng *rand.Rand) (*Instance, error) {
	p, err := world.Sample(a.params, rng)
	if err != nil {
		return nil, fmt.Errorf("sample problem: %w", err)
	}
	if err := a.writer.WriteProblem(path, p); err != nil {
		return nil, err
	}
	return &Instance{Problem: p, Path: path, Fingerprint: p.Fingerprint()}, nil
}
