package pddl

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbenjam1n/rescuegen/internal/world"
)

func twoByTwo(t *testing.T) *world.Problem {
	t.Helper()
	p, err := world.Sample(world.Params{
		Rows: 2, Cols: 2, NumPeople: 1, NumSelected: 1,
		PersonSeedBase: world.DefaultPersonSeedBase,
	}, world.NewRand(0))
	require.NoError(t, err)
	return p
}

func TestDomainSourceMatchesDeclaration(t *testing.T) {
	d := SearchAndRescue()
	src := string(d.Source)
	assert.Contains(t, src, "(domain searchandrescue)")

	var names []string
	for _, c := range d.Constants {
		names = append(names, c.String())
	}
	assert.Contains(t, src, "(:constants "+strings.Join(names, " ")+" - direction)")
	for _, sig := range d.Predicates {
		assert.Contains(t, src, "("+string(sig.Name), "predicate %s", sig.Name)
	}
}

func TestCheckFact(t *testing.T) {
	d := SearchAndRescue()
	assert.NoError(t, d.CheckFact(world.Conn(world.Location{}, world.Location{Col: 1}, world.Right)))
	assert.NoError(t, d.CheckFact(world.Dropoff()))

	bad := world.Fact{Pred: "teleport"}
	assert.ErrorIs(t, d.CheckFact(bad), ErrUnknownPredicate)

	wrongKind := world.Fact{Pred: world.PredClear, Arity: 1}
	wrongKind.Args[0] = world.Person(0)
	assert.ErrorIs(t, d.CheckFact(wrongKind), ErrSignature)

	wrongArity := world.Fact{Pred: world.PredHandsFree}
	assert.ErrorIs(t, d.CheckFact(wrongArity), ErrSignature)
}

func TestWriteProblem(t *testing.T) {
	d := SearchAndRescue()
	p := twoByTwo(t)

	var buf bytes.Buffer
	require.NoError(t, WriteProblem(&buf, d, p, ProblemOptions{FastDownwardOrder: true}))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "(define (problem searchandrescue) (:domain searchandrescue)\n"))
	assert.Contains(t, out, "\trobot0 - robot\n")
	assert.Contains(t, out, "\thospital0 - hospital\n")
	assert.Contains(t, out, "\tperson0 - person\n")
	assert.Contains(t, out, "\tf1-1f - location\n")
	assert.Contains(t, out, "\t(conn f0-0f f0-1f right)\n")
	assert.Contains(t, out, "\t(robot-at robot0 f0-0f)\n")
	assert.Contains(t, out, "\t(dropoff)\n")
	assert.Contains(t, out, "(:goal (and\n\t(person-at person0 f1-1f)\n  ))")
	assert.NotContains(t, out, "wall")

	// robot, person, location, hospital follow the domain's type order
	robot := strings.Index(out, "robot0 - robot")
	person := strings.Index(out, "person0 - person")
	loc := strings.Index(out, "f0-0f - location")
	hospital := strings.Index(out, "hospital0 - hospital")
	assert.Less(t, robot, person)
	assert.Less(t, person, loc)
	assert.Less(t, loc, hospital)
}

func TestWriteProblemDeterministic(t *testing.T) {
	d := SearchAndRescue()
	var a, b bytes.Buffer
	require.NoError(t, WriteProblem(&a, d, twoByTwo(t), ProblemOptions{FastDownwardOrder: true}))
	require.NoError(t, WriteProblem(&b, d, twoByTwo(t), ProblemOptions{FastDownwardOrder: true}))
	assert.Equal(t, a.String(), b.String())
}

func TestWriteProblemRejectsUnknownFacts(t *testing.T) {
	p := twoByTwo(t)
	p.Init = append(p.Init, world.Fact{Pred: "teleport"})
	err := WriteProblem(&bytes.Buffer{}, SearchAndRescue(), p, ProblemOptions{})
	assert.ErrorIs(t, err, ErrUnknownPredicate)
}

func TestFileWriterAndDomainWrite(t *testing.T) {
	dir := t.TempDir()
	d := SearchAndRescue()

	path := filepath.Join(dir, "nested", "problem0.pddl")
	fw := FileWriter{Domain: d, Options: ProblemOptions{Name: "custom", FastDownwardOrder: true}}
	require.NoError(t, fw.WriteProblem(path, twoByTwo(t)))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "(define (problem custom)")

	domainPath := filepath.Join(dir, "domain", "searchandrescue.pddl")
	require.NoError(t, d.Write(domainPath))
	data, err = os.ReadFile(domainPath)
	require.NoError(t, err)
	assert.Equal(t, d.Source, data)
}
