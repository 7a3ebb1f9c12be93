package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sbenjam1n/rescuegen/internal/pddl"
	"github.com/sbenjam1n/rescuegen/internal/planner"
)

var checkCmd = &cobra.Command{
	Use:   "check <problem.pddl>",
	Short: "Run the solvability gate on an existing problem file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		domainPath, _ := cmd.Flags().GetString("domain")
		if domainPath == "" {
			dir, err := os.MkdirTemp("", "rescuegen-domain")
			if err != nil {
				return fmt.Errorf("create temp dir: %w", err)
			}
			defer os.RemoveAll(dir)
			domainPath = filepath.Join(dir, pddl.DomainName+".pddl")
			if err := pddl.SearchAndRescue().Write(domainPath); err != nil {
				return err
			}
		}

		gate := planner.NewGate(cfg.Solver(), domainPath, logger)
		v := gate.Check(cmd.Context(), args[0])
		if !v.Solvable {
			fmt.Printf("UNSOLVABLE %s: %s (%s)\n", args[0], v.Reason, v.Elapsed)
			return fmt.Errorf("%s: %w", args[0], planner.ErrUnsolvable)
		}

		fmt.Printf("SOLVABLE %s: %d steps (%s)\n", args[0], len(v.Plan), v.Elapsed)
		for i, step := range v.Plan {
			fmt.Printf("  %3d: %s\n", i, step)
		}
		return nil
	},
}

func init() {
	addPlannerFlags(checkCmd)
	checkCmd.Flags().String("domain", "", "domain file (default: the embedded searchandrescue domain)")
}
