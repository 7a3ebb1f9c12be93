package corpus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/sbenjam1n/rescuegen/internal/ledger"
	"github.com/sbenjam1n/rescuegen/internal/metrics"
	"github.com/sbenjam1n/rescuegen/internal/planner"
	"github.com/sbenjam1n/rescuegen/internal/validator"
)

// ErrAttemptsExhausted indicates too many rejections in a row; the
// configuration likely has no more unique solvable instances.
var ErrAttemptsExhausted = errors.New("corpus: consecutive rejection limit reached")

// ErrCorpusExists indicates an output directory that already holds problems
// while the ledger holds entries. Writing into it would overwrite files the
// ledger still points at.
var ErrCorpusExists = errors.New("corpus: output directory already holds a recorded corpus")

// DefaultMaxConsecutiveRejections bounds retries for a single slot.
const DefaultMaxConsecutiveRejections = 10000

// State is a step of the generation loop.
type State int

const (
	StateGenerating State = iota
	StateCheckingDuplicate
	StateCheckingSolvable
	StateAccepted
	StateRejected
	StateAllQuotasMet
)

func (s State) String() string {
	switch s {
	case StateGenerating:
		return "generating"
	case StateCheckingDuplicate:
		return "checking_duplicate"
	case StateCheckingSolvable:
		return "checking_solvable"
	case StateAccepted:
		return "accepted"
	case StateRejected:
		return "rejected"
	case StateAllQuotasMet:
		return "all_quotas_met"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Checker decides whether an assembled instance is solvable.
type Checker interface {
	Check(ctx context.Context, inst *Instance) planner.Verdict
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context, inst *Instance) planner.Verdict

func (f CheckerFunc) Check(ctx context.Context, inst *Instance) planner.Verdict { return f(ctx, inst) }

// GateChecker checks instances by running the planner gate on their file.
type GateChecker struct {
	Gate *planner.Gate
}

func (g GateChecker) Check(ctx context.Context, inst *Instance) planner.Verdict {
	return g.Gate.Check(ctx, inst.Path)
}

// Sink receives every accepted entry after it is recorded.
type Sink interface {
	Publish(ctx context.Context, e ledger.Entry) error
}

// Deps are the collaborators of a Driver. Assembler, Checker and Ledger are required.
type Deps struct {
	Assembler *Assembler
	Validator *validator.Validator
	Checker   Checker
	Ledger    ledger.Ledger
	Sinks     []Sink
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	Rand      *rand.Rand
}

// Report summarizes a run.
type Report struct {
	RunID      string
	Accepted   int
	Attempts   int
	Duplicates int
	Invalid    int
	Unsolvable int
	Entries    []ledger.Entry
}

// Driver generates problems one at a time until the layout's quotas are met.
type Driver struct {
	layout        Layout
	deps          Deps
	maxRejections int
	runID         string
	now           func() time.Time
}

// NewDriver creates a Driver. maxRejections of 0 retries without bound.
func NewDriver(layout Layout, deps Deps, maxRejections int) *Driver {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Validator == nil {
		deps.Validator = validator.New(false)
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewPCG(0, 0))
	}
	return &Driver{
		layout:        layout,
		deps:          deps,
		maxRejections: maxRejections,
		runID:         uuid.NewString(),
		now:           time.Now,
	}
}

// RunID identifies this driver's run in ledgers and sinks.
func (d *Driver) RunID() string { return d.runID }

// Run loops generating → checking_duplicate → checking_solvable →
// accepted|rejected until every slot is filled. Rejections never consume a
// slot; the next attempt overwrites the rejected file.
func (d *Driver) Run(ctx context.Context) (*Report, error) {
	log := d.deps.Logger.With("run_id", d.runID)
	report := &Report{RunID: d.runID}
	if err := d.checkExisting(ctx); err != nil {
		return report, err
	}

	var (
		idx        int
		rejections int
		split      ledger.Split
		inst       *Instance
		reason     string
		detail     string
	)
	state := StateGenerating
	for {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("corpus run interrupted at problem %d: %w", idx, err)
		}

		switch state {
		case StateGenerating:
			if idx >= d.layout.Total() {
				state = StateAllQuotasMet
				continue
			}
			split = d.layout.Split(idx)
			path := d.layout.Path(idx)
			report.Attempts++
			d.deps.Metrics.Attempt(string(split))

			var err error
			inst, err = d.deps.Assembler.Assemble(path, d.deps.Rand)
			if err != nil {
				return report, fmt.Errorf("assemble problem %d: %w", idx, err)
			}
			log.Debug("wrote problem", "path", path)
			state = StateCheckingDuplicate

		case StateCheckingDuplicate:
			seen, err := d.deps.Ledger.Seen(ctx, inst.Fingerprint)
			if err != nil {
				return report, fmt.Errorf("check duplicate for problem %d: %w", idx, err)
			}
			if seen {
				report.Duplicates++
				reason, detail = metrics.ReasonDuplicate, inst.Fingerprint.String()
				state = StateRejected
				continue
			}
			state = StateCheckingSolvable

		case StateCheckingSolvable:
			if result := d.deps.Validator.Validate(inst.Problem); !result.Passed {
				report.Invalid++
				reason, detail = metrics.ReasonInvalid, result.Message
				state = StateRejected
				continue
			}
			v := d.deps.Checker.Check(ctx, inst)
			d.deps.Metrics.PlannerDuration(v.Elapsed)
			if !v.Solvable {
				report.Unsolvable++
				reason, detail = metrics.ReasonUnsolvable, v.Reason
				state = StateRejected
				continue
			}
			state = StateAccepted

		case StateAccepted:
			entry := ledger.Entry{
				Fingerprint: inst.Fingerprint,
				Split:       split,
				Index:       idx,
				Path:        inst.Path,
				RunID:       d.runID,
				AcceptedAt:  d.now().UTC(),
			}
			if err := d.deps.Ledger.Record(ctx, entry); err != nil {
				return report, fmt.Errorf("record problem %d: %w", idx, err)
			}
			for _, s := range d.deps.Sinks {
				if err := s.Publish(ctx, entry); err != nil {
					return report, fmt.Errorf("publish problem %d: %w", idx, err)
				}
			}
			d.deps.Metrics.Accepted(string(split))
			report.Accepted++
			report.Entries = append(report.Entries, entry)
			log.Info("accepted problem", "index", idx, "split", split, "path", inst.Path, "attempts", rejections+1)
			idx++
			rejections = 0
			state = StateGenerating

		case StateRejected:
			rejections++
			d.deps.Metrics.Rejected(reason)
			log.Debug("rejected problem", "index", idx, "reason", reason, "detail", detail, "consecutive", rejections)
			if d.maxRejections > 0 && rejections >= d.maxRejections {
				return report, fmt.Errorf("%w: %d in a row at problem %d (last: %s)",
					ErrAttemptsExhausted, rejections, idx, reason)
			}
			state = StateGenerating

		case StateAllQuotasMet:
			log.Info("corpus complete",
				"accepted", report.Accepted,
				"attempts", report.Attempts,
				"duplicates", report.Duplicates,
				"invalid", report.Invalid,
				"unsolvable", report.Unsolvable,
			)
			return report, nil
		}
	}
}

// checkExisting refuses to start when a non-empty ledger would have its
// recorded paths overwritten by this run's slots.
func (d *Driver) checkExisting(ctx context.Context) error {
	n, err := d.deps.Ledger.Count(ctx)
	if err != nil {
		return fmt.Errorf("count ledger entries: %w", err)
	}
	if n == 0 {
		return nil
	}
	for i := 0; i < d.layout.Total(); i++ {
		path := d.layout.Path(i)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s exists and the ledger has %d entries; use a new output_dir or ledger namespace",
				ErrCorpusExists, path, n)
		}
	}
	return nil
}
