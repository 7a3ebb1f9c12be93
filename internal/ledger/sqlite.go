package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/sbenjam1n/rescuegen/internal/world"
)

// SQLite persists the ledger in a single-file database so later runs into
// new output directories never regenerate an instance already accepted.
type SQLite struct {
	db        *sql.DB
	namespace string
}

// OpenSQLite opens (or creates) the ledger database at path.
func OpenSQLite(ctx context.Context, path, namespace string) (*SQLite, error) {
	if path == "" {
		path = "rescuegen.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS problems (
		namespace   TEXT    NOT NULL,
		fingerprint TEXT    NOT NULL,
		split       TEXT    NOT NULL,
		idx         INTEGER NOT NULL,
		path        TEXT    NOT NULL,
		run_id      TEXT    NOT NULL,
		accepted_at TEXT    NOT NULL,
		PRIMARY KEY (namespace, fingerprint)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create problems table: %w", err)
	}
	return &SQLite{db: db, namespace: namespace}, nil
}

func (s *SQLite) Seen(ctx context.Context, fp world.Fingerprint) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM problems WHERE namespace = ? AND fingerprint = ?)`,
		s.namespace, fp.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query fingerprint: %w", err)
	}
	return exists, nil
}

func (s *SQLite) Record(ctx context.Context, e Entry) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO problems (namespace, fingerprint, split, idx, path, run_id, accepted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (namespace, fingerprint) DO NOTHING`,
		s.namespace, e.Fingerprint.String(), string(e.Split), e.Index, e.Path, e.RunID,
		e.AcceptedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert problem: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert problem: %w", err)
	}
	if n == 0 {
		return ErrDuplicate
	}
	return nil
}

func (s *SQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM problems WHERE namespace = ?`, s.namespace,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count problems: %w", err)
	}
	return n, nil
}

// Entries lists the namespace's entries in acceptance order.
func (s *SQLite) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT fingerprint, split, idx, path, run_id, accepted_at
		FROM problems WHERE namespace = ?
		ORDER BY rowid`, s.namespace)
	if err != nil {
		return nil, fmt.Errorf("select problems: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var (
			e          Entry
			fp, split  string
			acceptedAt string
		)
		if err := rows.Scan(&fp, &split, &e.Index, &e.Path, &e.RunID, &acceptedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if e.Fingerprint, err = world.ParseFingerprint(fp); err != nil {
			return nil, err
		}
		e.Split = Split(split)
		if e.AcceptedAt, err = time.Parse(time.RFC3339Nano, acceptedAt); err != nil {
			return nil, fmt.Errorf("parse accepted_at: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error { return s.db.Close() }
