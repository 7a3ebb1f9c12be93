// Package planner runs an external classical planner over generated problems
// and decides whether they are solvable.
package planner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

var (
	// ErrUnsolvable indicates the planner proved the problem has no plan.
	ErrUnsolvable = errors.New("planner: problem proven unsolvable")
	// ErrNoPlan indicates the planner finished without reporting a plan.
	ErrNoPlan = errors.New("planner: no plan in output")
	// ErrTimeout indicates the planner did not finish within its budget.
	ErrTimeout = errors.New("planner: timed out")
)

// Plan is an ordered sequence of ground action names, lowercased.
type Plan []string

// Solver is the capability of finding a plan for a problem file.
type Solver interface {
	Solve(ctx context.Context, domainPath, problemPath string) (Plan, error)
}

// SolverFunc adapts a function to Solver.
type SolverFunc func(ctx context.Context, domainPath, problemPath string) (Plan, error)

func (f SolverFunc) Solve(ctx context.Context, domainPath, problemPath string) (Plan, error) {
	return f(ctx, domainPath, problemPath)
}

// FF runs the Fast-Forward planner binary.
type FF struct {
	Command string
	Args    []string
	// Timeout bounds a single run. Zero means no bound.
	Timeout time.Duration
}

// Solve runs `<command> <args> -o domain -f problem` and parses its plan.
func (f FF) Solve(ctx context.Context, domainPath, problemPath string) (Plan, error) {
	command := f.Command
	if command == "" {
		command = "ff"
	}
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	args := append(append([]string{}, f.Args...), "-o", domainPath, "-f", problemPath)
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.WaitDelay = time.Second
	out, err := cmd.CombinedOutput()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w after %s", ErrTimeout, f.Timeout)
	}
	plan, perr := ParseFFOutput(out)
	if perr == nil {
		return plan, nil
	}
	if errors.Is(perr, ErrUnsolvable) || err == nil {
		return nil, perr
	}
	return nil, fmt.Errorf("run %s: %w", command, err)
}

var stepLine = regexp.MustCompile(`^\s*(?:step)?\s*\d+:\s*(.+?)\s*$`)

// ParseFFOutput extracts the plan from FF's stdout.
func ParseFFOutput(out []byte) (Plan, error) {
	text := string(out)
	switch {
	case strings.Contains(text, "goal can be simplified to TRUE"):
		return Plan{}, nil
	case strings.Contains(text, "goal can be simplified to FALSE"),
		strings.Contains(text, "problem proven unsolvable"):
		return nil, ErrUnsolvable
	}

	idx := strings.Index(text, "found legal plan")
	if idx < 0 {
		return nil, ErrNoPlan
	}
	var plan Plan
	sc := bufio.NewScanner(bytes.NewReader(out[idx:]))
	for sc.Scan() {
		if m := stepLine.FindStringSubmatch(sc.Text()); m != nil {
			plan = append(plan, strings.ToLower(m[1]))
		}
	}
	return plan, nil
}
