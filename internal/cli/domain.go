package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sbenjam1n/rescuegen/internal/pddl"
)

var domainCmd = &cobra.Command{
	Use:   "domain",
	Short: "Print or write the searchandrescue domain file",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("file")
		d := pddl.SearchAndRescue()
		if out == "" {
			_, err := os.Stdout.Write(d.Source)
			return err
		}
		if err := d.Write(out); err != nil {
			return err
		}
		fmt.Printf("Wrote out to %s\n", out)
		return nil
	},
}

func init() {
	domainCmd.Flags().String("file", "", "write to this path instead of stdout")
}
