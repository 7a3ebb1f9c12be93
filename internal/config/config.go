// Package config loads rescuegen settings from defaults, an optional YAML
// file and RESCUEGEN_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sbenjam1n/rescuegen/internal/artifact"
	"github.com/sbenjam1n/rescuegen/internal/corpus"
	"github.com/sbenjam1n/rescuegen/internal/ledger"
	"github.com/sbenjam1n/rescuegen/internal/planner"
	"github.com/sbenjam1n/rescuegen/internal/queue"
	"github.com/sbenjam1n/rescuegen/internal/world"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config holds all configuration for the rescuegen CLI.
type Config struct {
	Rows              int     `yaml:"rows"`
	Cols              int     `yaml:"cols"`
	NumPeople         int     `yaml:"num_people"`
	NumSelected       int     `yaml:"num_selected_people"`
	RandomizePeople   bool    `yaml:"randomize_person_loc"`
	RandomizeRobot    bool    `yaml:"randomize_robot_start"`
	RandomizeHospital bool    `yaml:"randomize_hospital_loc"`
	WallProbability   float64 `yaml:"wall_probability"`
	RandomizeWalls    bool    `yaml:"randomize_walls"`
	NumTrain          int     `yaml:"num_train"`
	NumTest           int     `yaml:"num_test"`

	Seed           uint64 `yaml:"seed"`
	PersonSeedBase uint64 `yaml:"person_seed_base"`
	WallSeed       uint64 `yaml:"wall_seed"`

	OutputDir string `yaml:"output_dir"`
	TrainDir  string `yaml:"train_dir"`
	TestDir   string `yaml:"test_dir"`

	DistinctPlacements       bool `yaml:"distinct_placements"`
	MaxConsecutiveRejections int  `yaml:"max_consecutive_rejections"`

	Planner PlannerConfig `yaml:"planner"`
	Ledger  LedgerConfig  `yaml:"ledger"`
	Stream  StreamConfig  `yaml:"stream"`
	S3      S3Config      `yaml:"s3"`

	DatabaseURL string `yaml:"database_url"`
	RedisURL    string `yaml:"redis_url"`
	MetricsFile string `yaml:"metrics_file"`
	LogLevel    string `yaml:"log_level"`
}

// PlannerConfig configures the external planner used by the validity gate.
type PlannerConfig struct {
	Command string        `yaml:"command"`
	Args    []string      `yaml:"args"`
	Timeout time.Duration `yaml:"timeout"`
}

// LedgerConfig selects where accepted fingerprints persist.
type LedgerConfig struct {
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`
	Namespace  string `yaml:"namespace"`
}

// StreamConfig controls publication of accepted problems to a Redis stream.
type StreamConfig struct {
	Enabled bool   `yaml:"enabled"`
	Name    string `yaml:"name"`
}

// S3Config controls mirroring of accepted problems to a bucket. An empty
// bucket disables the mirror.
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	Prefix    string `yaml:"prefix"`
	PathStyle bool   `yaml:"path_style"`
}

// Default returns the historical generator settings.
func Default() *Config {
	p := world.DefaultParams()
	return &Config{
		Rows:              p.Rows,
		Cols:              p.Cols,
		NumPeople:         p.NumPeople,
		NumSelected:       p.NumSelected,
		RandomizePeople:   p.RandomizePeople,
		RandomizeRobot:    p.RandomizeRobot,
		RandomizeHospital: p.RandomizeHospital,
		WallProbability:   p.WallProbability,
		RandomizeWalls:    p.RandomizeWalls,
		NumTrain:          50,
		NumTest:           10,
		PersonSeedBase:    p.PersonSeedBase,
		WallSeed:          p.WallSeed,
		OutputDir:         ".",
		TrainDir:          corpus.DefaultTrainDir,
		TestDir:           corpus.DefaultTestDir,

		MaxConsecutiveRejections: corpus.DefaultMaxConsecutiveRejections,

		Planner: PlannerConfig{Command: "ff"},
		Ledger:  LedgerConfig{Driver: ledger.DriverMemory, SQLitePath: "rescuegen.db", Namespace: "default"},
		Stream:  StreamConfig{Name: queue.StreamAccepted},
		S3:      S3Config{Region: "us-east-1"},

		DatabaseURL: "postgres://localhost:5432/rescuegen?sslmode=disable",
		RedisURL:    "redis://localhost:6379/0",
		LogLevel:    "info",
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and environment overrides. It does not validate.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.OutputDir = getEnv("RESCUEGEN_OUTPUT_DIR", c.OutputDir)
	c.TrainDir = getEnv("RESCUEGEN_TRAIN_DIR", c.TrainDir)
	c.TestDir = getEnv("RESCUEGEN_TEST_DIR", c.TestDir)
	c.Planner.Command = getEnv("RESCUEGEN_PLANNER_COMMAND", c.Planner.Command)
	c.Ledger.Driver = getEnv("RESCUEGEN_LEDGER_DRIVER", c.Ledger.Driver)
	c.Ledger.SQLitePath = getEnv("RESCUEGEN_LEDGER_SQLITE_PATH", c.Ledger.SQLitePath)
	c.Ledger.Namespace = getEnv("RESCUEGEN_LEDGER_NAMESPACE", c.Ledger.Namespace)
	c.Stream.Name = getEnv("RESCUEGEN_STREAM_NAME", c.Stream.Name)
	c.S3.Bucket = getEnv("RESCUEGEN_S3_BUCKET", c.S3.Bucket)
	c.S3.Region = getEnv("RESCUEGEN_S3_REGION", c.S3.Region)
	c.S3.Endpoint = getEnv("RESCUEGEN_S3_ENDPOINT", c.S3.Endpoint)
	c.S3.Prefix = getEnv("RESCUEGEN_S3_PREFIX", c.S3.Prefix)
	c.DatabaseURL = getEnv("RESCUEGEN_DATABASE_URL", c.DatabaseURL)
	c.RedisURL = getEnv("RESCUEGEN_REDIS_URL", c.RedisURL)
	c.MetricsFile = getEnv("RESCUEGEN_METRICS_FILE", c.MetricsFile)
	c.LogLevel = getEnv("RESCUEGEN_LOG_LEVEL", c.LogLevel)
	if v := os.Getenv("RESCUEGEN_PLANNER_ARGS"); v != "" {
		c.Planner.Args = strings.Fields(v)
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"RESCUEGEN_ROWS", &c.Rows},
		{"RESCUEGEN_COLS", &c.Cols},
		{"RESCUEGEN_NUM_PEOPLE", &c.NumPeople},
		{"RESCUEGEN_NUM_SELECTED_PEOPLE", &c.NumSelected},
		{"RESCUEGEN_NUM_TRAIN", &c.NumTrain},
		{"RESCUEGEN_NUM_TEST", &c.NumTest},
		{"RESCUEGEN_MAX_CONSECUTIVE_REJECTIONS", &c.MaxConsecutiveRejections},
	}
	for _, e := range ints {
		if err := envInt(e.key, e.dst); err != nil {
			return err
		}
	}

	uints := []struct {
		key string
		dst *uint64
	}{
		{"RESCUEGEN_SEED", &c.Seed},
		{"RESCUEGEN_PERSON_SEED_BASE", &c.PersonSeedBase},
		{"RESCUEGEN_WALL_SEED", &c.WallSeed},
	}
	for _, e := range uints {
		if err := envUint(e.key, e.dst); err != nil {
			return err
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"RESCUEGEN_RANDOMIZE_PERSON_LOC", &c.RandomizePeople},
		{"RESCUEGEN_RANDOMIZE_ROBOT_START", &c.RandomizeRobot},
		{"RESCUEGEN_RANDOMIZE_HOSPITAL_LOC", &c.RandomizeHospital},
		{"RESCUEGEN_RANDOMIZE_WALLS", &c.RandomizeWalls},
		{"RESCUEGEN_DISTINCT_PLACEMENTS", &c.DistinctPlacements},
		{"RESCUEGEN_STREAM_ENABLED", &c.Stream.Enabled},
		{"RESCUEGEN_S3_PATH_STYLE", &c.S3.PathStyle},
	}
	for _, e := range bools {
		if err := envBool(e.key, e.dst); err != nil {
			return err
		}
	}

	if v := os.Getenv("RESCUEGEN_WALL_PROBABILITY"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse RESCUEGEN_WALL_PROBABILITY: %w", err)
		}
		c.WallProbability = f
	}
	if v := os.Getenv("RESCUEGEN_PLANNER_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse RESCUEGEN_PLANNER_TIMEOUT: %w", err)
		}
		c.Planner.Timeout = d
	}
	return nil
}

// Validate rejects settings that cannot produce a corpus.
func (c *Config) Validate() error {
	if err := c.WorldParams().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.NumSelected < 1 {
		return fmt.Errorf("%w: num_selected_people must be at least 1, got %d", ErrInvalid, c.NumSelected)
	}
	if c.NumTrain < 0 || c.NumTest < 0 {
		return fmt.Errorf("%w: negative quota (train %d, test %d)", ErrInvalid, c.NumTrain, c.NumTest)
	}
	if c.NumTrain+c.NumTest == 0 {
		return fmt.Errorf("%w: num_train and num_test are both zero", ErrInvalid)
	}
	if c.MaxConsecutiveRejections < 0 {
		return fmt.Errorf("%w: max_consecutive_rejections must not be negative", ErrInvalid)
	}
	if c.TrainDir == c.TestDir {
		return fmt.Errorf("%w: train_dir and test_dir must differ", ErrInvalid)
	}
	switch c.Ledger.Driver {
	case ledger.DriverMemory, ledger.DriverSQLite, ledger.DriverPostgres, ledger.DriverRedis:
	default:
		return fmt.Errorf("%w: %w: %q", ErrInvalid, ledger.ErrUnknownDriver, c.Ledger.Driver)
	}
	return nil
}

// WorldParams maps the instance knobs onto sampler parameters.
func (c *Config) WorldParams() world.Params {
	return world.Params{
		Rows:              c.Rows,
		Cols:              c.Cols,
		NumPeople:         c.NumPeople,
		NumSelected:       c.NumSelected,
		RandomizePeople:   c.RandomizePeople,
		RandomizeRobot:    c.RandomizeRobot,
		RandomizeHospital: c.RandomizeHospital,
		WallProbability:   c.WallProbability,
		RandomizeWalls:    c.RandomizeWalls,
		PersonSeedBase:    c.PersonSeedBase,
		WallSeed:          c.WallSeed,
	}
}

// Layout is the corpus layout under OutputDir.
func (c *Config) Layout() corpus.Layout {
	return corpus.Layout{
		Root:     c.OutputDir,
		TrainDir: c.TrainDir,
		TestDir:  c.TestDir,
		Train:    c.NumTrain,
		Test:     c.NumTest,
	}
}

func (c *Config) LedgerOptions() ledger.Options {
	return ledger.Options{
		Driver:      c.Ledger.Driver,
		Namespace:   c.Ledger.Namespace,
		SQLitePath:  c.Ledger.SQLitePath,
		DatabaseURL: c.DatabaseURL,
		RedisURL:    c.RedisURL,
	}
}

func (c *Config) Solver() planner.FF {
	return planner.FF{Command: c.Planner.Command, Args: c.Planner.Args, Timeout: c.Planner.Timeout}
}

func (c *Config) ArtifactConfig() artifact.Config {
	return artifact.Config{
		Bucket:    c.S3.Bucket,
		Region:    c.S3.Region,
		Endpoint:  c.S3.Endpoint,
		Prefix:    c.S3.Prefix,
		PathStyle: c.S3.PathStyle,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = n
	return nil
}

func envUint(key string, dst *uint64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = n
	return nil
}

func envBool(key string, dst *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = b
	return nil
}
