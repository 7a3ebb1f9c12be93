package planner

import (
	"context"
	"log/slog"
	"time"
)

// Verdict is the outcome of a solvability check.
type Verdict struct {
	Solvable bool
	Plan     Plan
	Reason   string
	Elapsed  time.Duration
}

// Gate accepts a problem only when its solver returns a non-empty plan.
type Gate struct {
	solver     Solver
	domainPath string
	logger     *slog.Logger
}

// NewGate creates a Gate that solves problems against domainPath.
func NewGate(solver Solver, domainPath string, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{solver: solver, domainPath: domainPath, logger: logger}
}

// Check runs the solver synchronously. Solver failures are reported as an
// unsolvable verdict, never as an error.
func (g *Gate) Check(ctx context.Context, problemPath string) Verdict {
	start := time.Now()
	plan, err := g.solver.Solve(ctx, g.domainPath, problemPath)
	v := Verdict{Plan: plan, Elapsed: time.Since(start)}
	switch {
	case err != nil:
		v.Reason = err.Error()
		g.logger.Debug("planner failed", "problem", problemPath, "err", err)
	case len(plan) == 0:
		v.Reason = "empty plan"
	default:
		v.Solvable = true
	}
	return v
}
