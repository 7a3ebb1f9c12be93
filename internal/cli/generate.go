package cli

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sbenjam1n/rescuegen/internal/artifact"
	"github.com/sbenjam1n/rescuegen/internal/corpus"
	"github.com/sbenjam1n/rescuegen/internal/ledger"
	"github.com/sbenjam1n/rescuegen/internal/metrics"
	"github.com/sbenjam1n/rescuegen/internal/pddl"
	"github.com/sbenjam1n/rescuegen/internal/planner"
	"github.com/sbenjam1n/rescuegen/internal/queue"
	"github.com/sbenjam1n/rescuegen/internal/validator"
	"github.com/sbenjam1n/rescuegen/internal/world"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Fill the train and test partitions with unique, solvable problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		domain := pddl.SearchAndRescue()
		domainPath := filepath.Join(cfg.OutputDir, pddl.DomainName+".pddl")
		if err := domain.Write(domainPath); err != nil {
			return err
		}

		l, err := ledger.Open(ctx, cfg.LedgerOptions())
		if err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
		defer l.Close()

		sinks, closeSinks, err := buildSinks(ctx)
		if err != nil {
			return err
		}
		defer closeSinks()

		m := metrics.New()
		gate := planner.NewGate(cfg.Solver(), domainPath, logger)
		driver := corpus.NewDriver(cfg.Layout(), corpus.Deps{
			Assembler: corpus.NewAssembler(domain, cfg.WorldParams()),
			Validator: validator.New(cfg.DistinctPlacements),
			Checker:   corpus.GateChecker{Gate: gate},
			Ledger:    l,
			Sinks:     sinks,
			Metrics:   m,
			Logger:    logger,
			Rand:      world.NewRand(cfg.Seed),
		}, cfg.MaxConsecutiveRejections)

		report, runErr := driver.Run(ctx)
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warn("metrics not written", "err", err)
		}
		if runErr != nil {
			return runErr
		}

		fmt.Printf("Run %s\n", report.RunID)
		fmt.Printf("  accepted:   %d (train %d, test %d)\n", report.Accepted, cfg.NumTrain, cfg.NumTest)
		fmt.Printf("  attempts:   %d\n", report.Attempts)
		fmt.Printf("  duplicates: %d\n", report.Duplicates)
		fmt.Printf("  invalid:    %d\n", report.Invalid)
		fmt.Printf("  unsolvable: %d\n", report.Unsolvable)
		fmt.Printf("  train dir:  %s\n", cfg.Layout().Dir(ledger.Train))
		fmt.Printf("  test dir:   %s\n", cfg.Layout().Dir(ledger.Test))
		return nil
	},
}

// buildSinks connects the optional Redis stream and S3 mirror.
func buildSinks(ctx context.Context) ([]corpus.Sink, func(), error) {
	var sinks []corpus.Sink
	closers := []func(){}
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if cfg.Stream.Enabled {
		rdb, err := queue.ConnectRedis(cfg.RedisURL)
		if err != nil {
			return nil, closeAll, err
		}
		closers = append(closers, func() { rdb.Close() })
		sinks = append(sinks, queue.New(rdb, cfg.Stream.Name))
	}
	if cfg.S3.Bucket != "" {
		mirror, err := artifact.NewS3(ctx, cfg.ArtifactConfig(), cfg.OutputDir)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		sinks = append(sinks, mirror)
	}
	return sinks, closeAll, nil
}

func init() {
	addWorldFlags(generateCmd)
	addCorpusFlags(generateCmd)
	addPlannerFlags(generateCmd)
}
