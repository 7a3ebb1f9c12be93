package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sbenjam1n/rescuegen/internal/config"
)

var (
	cfg        *config.Config
	logger     *slog.Logger
	configPath string
	logLevel   string

	rootCmd = &cobra.Command{
		Use:   "rescuegen",
		Short: "Generate unique, solvable search-and-rescue planning problems",
		Long: `rescuegen samples grid worlds with a robot, a hospital, people and walls,
writes them as PDDL problems and keeps only those that are new and solvable.

Build a corpus:
  rescuegen generate --num-train 50 --num-test 10 --out ./pddl

Settings come from defaults, then --config, then RESCUEGEN_* variables,
then flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("RESCUEGEN_CONFIG"), "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(domainCmd)
	rootCmd.AddCommand(ledgerCmd)
}

func initConfig(cmd *cobra.Command) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(cmd, cfg)
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logger, err = newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}
