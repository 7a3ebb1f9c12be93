package cli

import (
	"github.com/spf13/cobra"

	"github.com/sbenjam1n/rescuegen/internal/config"
)

// flagValues receives flag values; only flags the user set are copied onto
// the loaded config.
var flagValues = config.Default()

var overrides = map[string]func(*config.Config){
	"rows":                       func(c *config.Config) { c.Rows = flagValues.Rows },
	"cols":                       func(c *config.Config) { c.Cols = flagValues.Cols },
	"num-people":                 func(c *config.Config) { c.NumPeople = flagValues.NumPeople },
	"num-selected-people":        func(c *config.Config) { c.NumSelected = flagValues.NumSelected },
	"randomize-person-loc":       func(c *config.Config) { c.RandomizePeople = flagValues.RandomizePeople },
	"randomize-robot-start":      func(c *config.Config) { c.RandomizeRobot = flagValues.RandomizeRobot },
	"randomize-hospital-loc":     func(c *config.Config) { c.RandomizeHospital = flagValues.RandomizeHospital },
	"wall-probability":           func(c *config.Config) { c.WallProbability = flagValues.WallProbability },
	"randomize-walls":            func(c *config.Config) { c.RandomizeWalls = flagValues.RandomizeWalls },
	"seed":                       func(c *config.Config) { c.Seed = flagValues.Seed },
	"num-train":                  func(c *config.Config) { c.NumTrain = flagValues.NumTrain },
	"num-test":                   func(c *config.Config) { c.NumTest = flagValues.NumTest },
	"out":                        func(c *config.Config) { c.OutputDir = flagValues.OutputDir },
	"distinct-placements":        func(c *config.Config) { c.DistinctPlacements = flagValues.DistinctPlacements },
	"max-consecutive-rejections": func(c *config.Config) { c.MaxConsecutiveRejections = flagValues.MaxConsecutiveRejections },
	"planner":                    func(c *config.Config) { c.Planner.Command = flagValues.Planner.Command },
	"planner-timeout":            func(c *config.Config) { c.Planner.Timeout = flagValues.Planner.Timeout },
	"ledger":                     func(c *config.Config) { c.Ledger.Driver = flagValues.Ledger.Driver },
	"namespace":                  func(c *config.Config) { c.Ledger.Namespace = flagValues.Ledger.Namespace },
	"stream":                     func(c *config.Config) { c.Stream.Enabled = flagValues.Stream.Enabled },
	"s3-bucket":                  func(c *config.Config) { c.S3.Bucket = flagValues.S3.Bucket },
	"metrics-file":               func(c *config.Config) { c.MetricsFile = flagValues.MetricsFile },
}

func applyFlags(cmd *cobra.Command, c *config.Config) {
	for name, apply := range overrides {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			apply(c)
		}
	}
}

func addWorldFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&flagValues.Rows, "rows", flagValues.Rows, "grid rows")
	f.IntVar(&flagValues.Cols, "cols", flagValues.Cols, "grid columns")
	f.IntVar(&flagValues.NumPeople, "num-people", flagValues.NumPeople, "people placed on the grid")
	f.IntVar(&flagValues.NumSelected, "num-selected-people", flagValues.NumSelected, "people the goal asks to rescue")
	f.BoolVar(&flagValues.RandomizePeople, "randomize-person-loc", flagValues.RandomizePeople, "draw people from the run's random source")
	f.BoolVar(&flagValues.RandomizeRobot, "randomize-robot-start", flagValues.RandomizeRobot, "draw the robot start cell at random")
	f.BoolVar(&flagValues.RandomizeHospital, "randomize-hospital-loc", flagValues.RandomizeHospital, "draw the hospital cell at random")
	f.Float64Var(&flagValues.WallProbability, "wall-probability", flagValues.WallProbability, "chance each cell is a wall candidate")
	f.BoolVar(&flagValues.RandomizeWalls, "randomize-walls", flagValues.RandomizeWalls, "draw walls from the run's random source")
	f.Uint64Var(&flagValues.Seed, "seed", flagValues.Seed, "top-level random seed")
}

func addCorpusFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&flagValues.NumTrain, "num-train", flagValues.NumTrain, "training problems to generate")
	f.IntVar(&flagValues.NumTest, "num-test", flagValues.NumTest, "test problems to generate")
	f.StringVar(&flagValues.OutputDir, "out", flagValues.OutputDir, "corpus root directory")
	f.BoolVar(&flagValues.DistinctPlacements, "distinct-placements", flagValues.DistinctPlacements, "reject instances where robot, hospital or people share a cell")
	f.IntVar(&flagValues.MaxConsecutiveRejections, "max-consecutive-rejections", flagValues.MaxConsecutiveRejections, "give up after this many rejections in a row (0 = never)")
	f.StringVar(&flagValues.Ledger.Driver, "ledger", flagValues.Ledger.Driver, "fingerprint ledger: memory, sqlite, postgres or redis")
	f.StringVar(&flagValues.Ledger.Namespace, "namespace", flagValues.Ledger.Namespace, "ledger namespace")
	f.BoolVar(&flagValues.Stream.Enabled, "stream", flagValues.Stream.Enabled, "announce accepted problems on a Redis stream")
	f.StringVar(&flagValues.S3.Bucket, "s3-bucket", flagValues.S3.Bucket, "mirror accepted problems to this bucket")
	f.StringVar(&flagValues.MetricsFile, "metrics-file", flagValues.MetricsFile, "write Prometheus metrics here when the run ends")
}

func addPlannerFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&flagValues.Planner.Command, "planner", flagValues.Planner.Command, "planner executable")
	f.DurationVar(&flagValues.Planner.Timeout, "planner-timeout", flagValues.Planner.Timeout, "time limit per planner run")
}
