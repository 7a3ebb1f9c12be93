package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sbenjam1n/rescuegen/internal/pddl"
	"github.com/sbenjam1n/rescuegen/internal/validator"
	"github.com/sbenjam1n/rescuegen/internal/world"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write one sampled problem without checking uniqueness or solvability",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		name, _ := cmd.Flags().GetString("name")

		params := cfg.WorldParams()
		domain := pddl.SearchAndRescue()
		params.Directions = domain.Constants
		p, err := world.Sample(params, world.NewRand(cfg.Seed))
		if err != nil {
			return fmt.Errorf("sample problem: %w", err)
		}

		result := validator.New(cfg.DistinctPlacements).Validate(p)
		if !result.Passed {
			logger.Warn("sampled problem fails validation", "tier", result.Tier, "code", result.Code, "message", result.Message)
		}

		opts := pddl.ProblemOptions{Name: name, FastDownwardOrder: true}
		if file == "" {
			if err := pddl.WriteProblem(os.Stdout, domain, p, opts); err != nil {
				return fmt.Errorf("write problem: %w", err)
			}
		} else {
			if err := (pddl.FileWriter{Domain: domain, Options: opts}).WriteProblem(file, p); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Wrote out to %s\n", file)
		}
		logger.Info("sampled problem", "fingerprint", p.Fingerprint(), "seed", cfg.Seed)
		return nil
	},
}

func init() {
	addWorldFlags(sampleCmd)
	sampleCmd.Flags().String("file", "", "write to this path instead of stdout")
	sampleCmd.Flags().String("name", "", "problem name (default: domain name)")
}
