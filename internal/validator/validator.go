package validator

import (
	"fmt"

	"github.com/sbenjam1n/rescuegen/internal/world"
)

// Result is the outcome of running a validation tier.
type Result struct {
	Tier    int      `json:"tier"`
	Passed  bool     `json:"passed"`
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []Detail `json:"details,omitempty"`
}

// Detail describes a single validation check result.
type Detail struct {
	Check    string `json:"check"`
	Passed   bool   `json:"passed"`
	Expected string `json:"expected,omitempty"`
	Got      string `json:"got,omitempty"`
	Fix      string `json:"fix,omitempty"` // set for every non-passing check
}

// Validator runs Tier 0 (structural) and Tier 1 (placement + goal) checks on sampled problems.
type Validator struct {
	// DistinctPlacements rejects instances where the robot, hospital or any
	// person share a cell. Off by default: shared cells are legal instances.
	DistinctPlacements bool
}

// New creates a new Validator.
func New(distinctPlacements bool) *Validator {
	return &Validator{DistinctPlacements: distinctPlacements}
}

// Validate runs Tier 0 and Tier 1 validation on a problem.
func (v *Validator) Validate(p *world.Problem) *Result {
	if result := v.Tier0Structural(p); !result.Passed {
		return result
	}
	return v.Tier1Placement(p)
}

// Tier0Structural checks grid coverage, connectivity and the wall/clear partition.
func (v *Validator) Tier0Structural(p *world.Problem) *Result {
	result := &Result{Tier: 0, Passed: true}

	// Every location is an object exactly once
	locs := make(map[world.Location]int)
	for _, o := range p.Objects {
		if o.Kind == world.KindLocation {
			locs[o.Loc]++
		}
	}
	for _, l := range p.Grid.Locations() {
		if locs[l] != 1 {
			return fail(result, 1, fmt.Sprintf("Location %s declared %d times", l.Name(), locs[l]), Detail{
				Check:    "location_coverage",
				Expected: "each location declared once",
				Got:      fmt.Sprintf("%s declared %d times", l.Name(), locs[l]),
				Fix:      "Build objects from Grid.Locations() without filtering or repeating cells",
			})
		}
	}

	// Connectivity matches the grid's orthogonal neighbours
	degree := make(map[world.Location]int)
	for _, f := range p.FactsOf(world.PredConn) {
		degree[f.Args[0].Loc]++
	}
	for _, l := range p.Grid.Locations() {
		if want := len(p.Grid.Neighbors(l)); degree[l] != want {
			return fail(result, 2, fmt.Sprintf("Location %s has %d conn facts", l.Name(), degree[l]), Detail{
				Check:    "connectivity",
				Expected: fmt.Sprintf("%d conn facts from %s", want, l.Name()),
				Got:      fmt.Sprintf("%d", degree[l]),
				Fix:      "Emit conn facts from Grid.Connectivity()",
			})
		}
	}

	// Wall and clear partition the grid
	status := make(map[world.Location]int)
	for _, f := range p.FactsOf(world.PredWallAt) {
		status[f.Args[1].Loc]++
	}
	for _, f := range p.FactsOf(world.PredClear) {
		status[f.Args[0].Loc]++
	}
	for _, l := range p.Grid.Locations() {
		if status[l] != 1 {
			return fail(result, 3, fmt.Sprintf("Location %s has %d wall/clear facts", l.Name(), status[l]), Detail{
				Check:    "wall_clear_partition",
				Expected: "exactly one of wall-at or clear",
				Got:      fmt.Sprintf("%d", status[l]),
				Fix:      "Mark every non-wall cell clear and never both",
			})
		}
	}

	result.Message = "Tier 0 passed"
	return result
}

// Tier1Placement checks walls avoid entities, goal shape, and the optional
// distinct-placement rule.
func (v *Validator) Tier1Placement(p *world.Problem) *Result {
	result := &Result{Tier: 1, Passed: true}

	occupied := make(map[world.Location]string)
	mark := func(l world.Location, who string) {
		if _, ok := occupied[l]; !ok {
			occupied[l] = who
		}
	}
	var entities []world.Fact
	entities = append(entities, p.FactsOf(world.PredRobotAt)...)
	entities = append(entities, p.FactsOf(world.PredHospitalAt)...)
	entities = append(entities, p.FactsOf(world.PredPersonAt)...)
	for _, f := range entities {
		mark(f.Args[1].Loc, f.Args[0].Name())
	}

	for _, f := range p.FactsOf(world.PredWallAt) {
		if who, ok := occupied[f.Args[1].Loc]; ok {
			return fail(result, -1, fmt.Sprintf("Wall %s on %s occupied by %s", f.Args[0].Name(), f.Args[1].Name(), who), Detail{
				Check:    "walls_avoid_entities",
				Expected: "no wall on robot, hospital or person cells",
				Got:      fmt.Sprintf("%s shares %s with %s", f.Args[0].Name(), f.Args[1].Name(), who),
				Fix:      "Pass Placement.Occupied to PlaceWalls",
			})
		}
	}

	targets := make(map[world.Object]bool)
	hospital := p.Placement.Hospital
	for _, lit := range p.Goal.Literals {
		person := lit.Args[0]
		if targets[person] || lit.Args[1].Loc != hospital {
			return fail(result, -2, fmt.Sprintf("Goal literal %s is malformed", lit), Detail{
				Check:    "goal_targets",
				Expected: fmt.Sprintf("distinct persons at %s", hospital.Name()),
				Got:      lit.String(),
				Fix:      "Build goals with world.SelectGoal",
			})
		}
		targets[person] = true
	}

	if v.DistinctPlacements {
		seen := make(map[world.Location]string)
		for _, f := range entities {
			loc, who := f.Args[1].Loc, f.Args[0].Name()
			if other, ok := seen[loc]; ok {
				return fail(result, -3, fmt.Sprintf("%s and %s share %s", other, who, loc.Name()), Detail{
					Check:    "distinct_placements",
					Expected: "robot, hospital and persons on distinct cells",
					Got:      fmt.Sprintf("%s and %s on %s", other, who, loc.Name()),
					Fix:      "Regenerate, or disable distinct_placements to allow shared cells",
				})
			}
			seen[loc] = who
		}
	}

	result.Message = "Tier 1 passed"
	return result
}

func fail(result *Result, code int, msg string, d Detail) *Result {
	result.Passed = false
	result.Code = code
	result.Message = msg
	result.Details = append(result.Details, d)
	return result
}
