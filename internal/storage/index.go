package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// IndexFile is the name of the run index inside a store directory.
const IndexFile = "runs.db"

// Index is a SQLite table of saved runs, so listing does not need to
// walk every run directory.
type Index struct {
	db *sql.DB
}

// IndexEntry is one row of the run index.
type IndexEntry struct {
	ID         string
	Agent      string
	Policy     string
	Seed       int64
	Duration   int
	Population int
	Batches    int
	Runs       int
	Elapsed    time.Duration
	CreatedAt  time.Time
}

func OpenIndex(path string) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("empty index path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	for _, p := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	agent TEXT NOT NULL,
	policy TEXT NOT NULL DEFAULT '',
	seed INTEGER NOT NULL,
	duration INTEGER NOT NULL,
	population INTEGER NOT NULL,
	batches INTEGER NOT NULL,
	runs INTEGER NOT NULL DEFAULT 0,
	elapsed_ns INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_created ON runs(created_at);
`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := addRunsColumn(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Index{db: db}, nil
}

// addRunsColumn upgrades indexes written before the runs column existed.
func addRunsColumn(db *sql.DB) error {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('runs') WHERE name = 'runs'`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err := db.Exec(`ALTER TABLE runs ADD COLUMN runs INTEGER NOT NULL DEFAULT 0`)
	return err
}

// Record inserts or replaces the row for meta.
func (x *Index) Record(ctx context.Context, meta *RunMetadata) error {
	_, err := x.db.ExecContext(ctx, `
INSERT OR REPLACE INTO runs (id, agent, policy, seed, duration, population, batches, runs, elapsed_ns, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.Agent, meta.Policy, meta.Seed, meta.Duration, meta.Population,
		len(meta.Batches), meta.TotalRuns(), int64(meta.Elapsed), meta.Timestamp.UnixNano(),
	)
	return err
}

// Recent returns up to limit runs, newest first. A non-positive limit
// returns all of them.
func (x *Index) Recent(ctx context.Context, limit int) ([]IndexEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := x.db.QueryContext(ctx, `
SELECT id, agent, policy, seed, duration, population, batches, runs, elapsed_ns, created_at
FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []IndexEntry
	for rows.Next() {
		var (
			e       IndexEntry
			elapsed int64
			created int64
		)
		if err := rows.Scan(&e.ID, &e.Agent, &e.Policy, &e.Seed, &e.Duration, &e.Population, &e.Batches, &e.Runs, &elapsed, &created); err != nil {
			return nil, err
		}
		e.Elapsed = time.Duration(elapsed)
		e.CreatedAt = time.Unix(0, created)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (x *Index) Close() error {
	return x.db.Close()
}
