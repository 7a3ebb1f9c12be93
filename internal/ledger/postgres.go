package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sbenjam1n/rescuegen/internal/db"
	"github.com/sbenjam1n/rescuegen/internal/world"
)

// Postgres shares one ledger between machines generating into the same corpus.
type Postgres struct {
	pool      *pgxpool.Pool
	namespace string
}

// OpenPostgres connects, migrates and returns a Postgres ledger.
func OpenPostgres(ctx context.Context, databaseURL, namespace string) (*Postgres, error) {
	pool, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w\nSet RESCUEGEN_DATABASE_URL environment variable", err)
	}
	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return NewPostgres(pool, namespace), nil
}

// NewPostgres wraps an existing, migrated pool.
func NewPostgres(pool *pgxpool.Pool, namespace string) *Postgres {
	return &Postgres{pool: pool, namespace: namespace}
}

func (p *Postgres) Seen(ctx context.Context, fp world.Fingerprint) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM problems WHERE namespace = $1 AND fingerprint = $2)",
		p.namespace, fp.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query fingerprint: %w", err)
	}
	return exists, nil
}

func (p *Postgres) Record(ctx context.Context, e Entry) error {
	tag, err := p.pool.Exec(ctx, `
		INSERT INTO problems (namespace, fingerprint, split, idx, path, run_id, accepted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (namespace, fingerprint) DO NOTHING
	`, p.namespace, e.Fingerprint.String(), string(e.Split), e.Index, e.Path, e.RunID, e.AcceptedAt)
	if err != nil {
		return fmt.Errorf("insert problem: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicate
	}
	return nil
}

func (p *Postgres) Count(ctx context.Context) (int, error) {
	var n int
	if err := p.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM problems WHERE namespace = $1", p.namespace,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count problems: %w", err)
	}
	return n, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
