// Package ledger records the fingerprints of accepted problems so a corpus
// never contains the same instance twice.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sbenjam1n/rescuegen/internal/world"
)

var (
	// ErrDuplicate indicates a fingerprint that is already recorded.
	ErrDuplicate = errors.New("ledger: fingerprint already recorded")
	// ErrUnknownDriver indicates an unsupported ledger driver name.
	ErrUnknownDriver = errors.New("ledger: unknown driver")
)

// Split names the corpus partition an instance belongs to.
type Split string

const (
	Train Split = "train"
	Test  Split = "test"
)

// Entry is one accepted instance.
type Entry struct {
	Fingerprint world.Fingerprint `json:"fingerprint"`
	Split       Split             `json:"split"`
	Index       int               `json:"index"`
	Path        string            `json:"path"`
	RunID       string            `json:"run_id"`
	AcceptedAt  time.Time         `json:"accepted_at"`
}

// Ledger is the seen-fingerprint set of a corpus.
type Ledger interface {
	Seen(ctx context.Context, fp world.Fingerprint) (bool, error)
	// Record adds an accepted entry. It returns ErrDuplicate when the
	// fingerprint is already present.
	Record(ctx context.Context, e Entry) error
	Count(ctx context.Context) (int, error)
	Close() error
}

// Drivers
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Options selects and configures a ledger backend.
type Options struct {
	Driver      string
	Namespace   string
	SQLitePath  string
	DatabaseURL string
	RedisURL    string
}

// Open constructs the ledger named by opts.Driver.
func Open(ctx context.Context, opts Options) (Ledger, error) {
	ns := opts.Namespace
	if ns == "" {
		ns = "default"
	}
	switch opts.Driver {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		return OpenSQLite(ctx, opts.SQLitePath, ns)
	case DriverPostgres:
		return OpenPostgres(ctx, opts.DatabaseURL, ns)
	case DriverRedis:
		return OpenRedis(ctx, opts.RedisURL, ns)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
}
