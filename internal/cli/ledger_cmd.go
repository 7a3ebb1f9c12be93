package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sbenjam1n/rescuegen/internal/ledger"
	"github.com/sbenjam1n/rescuegen/internal/queue"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect accepted-problem records",
}

var ledgerCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Show how many fingerprints a persistent ledger holds",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if cfg.Ledger.Driver == ledger.DriverMemory {
			return fmt.Errorf("ledger driver %q keeps nothing between runs; pass --ledger", cfg.Ledger.Driver)
		}
		l, err := ledger.Open(ctx, cfg.LedgerOptions())
		if err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
		defer l.Close()

		n, err := l.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Ledger %s (namespace %s): %d fingerprints\n", cfg.Ledger.Driver, cfg.Ledger.Namespace, n)
		return nil
	},
}

var ledgerStreamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Show accepted problems announced on the Redis stream",
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt64("count")
		ctx := cmd.Context()

		rdb, err := queue.ConnectRedis(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		q := queue.New(rdb, cfg.Stream.Name)

		n, err := q.Len(ctx)
		if err != nil {
			return err
		}
		msgs, err := q.Range(ctx, count)
		if err != nil {
			return err
		}

		fmt.Printf("Stream %s: %d messages\n", cfg.Stream.Name, n)
		if len(msgs) == 0 {
			fmt.Println("  (none)")
		}
		for _, m := range msgs {
			fmt.Printf("  %-5s %4d  %s  %s\n", m.Split, m.Index, m.Fingerprint[:min(12, len(m.Fingerprint))], m.Path)
		}
		return nil
	},
}

func init() {
	ledgerCountCmd.Flags().StringVar(&flagValues.Ledger.Driver, "ledger", flagValues.Ledger.Driver, "ledger driver: sqlite, postgres or redis")
	ledgerCountCmd.Flags().StringVar(&flagValues.Ledger.Namespace, "namespace", flagValues.Ledger.Namespace, "ledger namespace")
	ledgerStreamCmd.Flags().Int64("count", 20, "messages to show from the start of the stream")

	ledgerCmd.AddCommand(ledgerCountCmd)
	ledgerCmd.AddCommand(ledgerStreamCmd)
}
