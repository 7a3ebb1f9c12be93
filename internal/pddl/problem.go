package pddl

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/sbenjam1n/rescuegen/internal/world"
)

// ProblemOptions controls problem rendering.
type ProblemOptions struct {
	// Name is the problem name; empty means the domain name.
	Name string
	// FastDownwardOrder groups objects by domain type order and sorts the
	// init section, which Fast Downward and FF both accept.
	FastDownwardOrder bool
}

// WriteProblem renders p as a PDDL problem for domain d.
func WriteProblem(w io.Writer, d *Domain, p *world.Problem, opts ProblemOptions) error {
	for _, f := range p.Init {
		if err := d.CheckFact(f); err != nil {
			return err
		}
	}
	for _, f := range p.Goal.Literals {
		if err := d.CheckFact(f); err != nil {
			return err
		}
	}

	name := opts.Name
	if name == "" {
		name = d.Name
	}
	objects := slices.Clone(p.Objects)
	init := slices.Clone(p.Init)
	if opts.FastDownwardOrder {
		slices.SortStableFunc(objects, func(a, b world.Object) int {
			if c := cmp.Compare(d.TypeRank(a.Kind), d.TypeRank(b.Kind)); c != 0 {
				return c
			}
			return a.Compare(b)
		})
		slices.SortFunc(init, world.Fact.Compare)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "(define (problem %s) (:domain %s)\n", name, d.Name)
	bw.WriteString("  (:objects\n")
	for _, o := range objects {
		fmt.Fprintf(bw, "\t%s - %s\n", o.Name(), o.Kind)
	}
	bw.WriteString("  )\n  (:init\n")
	for _, f := range init {
		fmt.Fprintf(bw, "\t%s\n", f)
	}
	bw.WriteString("  )\n  (:goal (and\n")
	for _, f := range p.Goal.Literals {
		fmt.Fprintf(bw, "\t%s\n", f)
	}
	bw.WriteString("  ))\n)\n")
	return bw.Flush()
}

// FileWriter writes problems to files for one domain.
type FileWriter struct {
	Domain  *Domain
	Options ProblemOptions
}

// WriteProblem writes p to path, replacing any previous file.
func (fw FileWriter) WriteProblem(path string, p *world.Problem) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create problem dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create problem file: %w", err)
	}
	if err := WriteProblem(f, fw.Domain, p, fw.Options); err != nil {
		f.Close()
		return fmt.Errorf("write problem %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close problem file: %w", err)
	}
	return nil
}
