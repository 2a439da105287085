// Package store persists filtered repeats and per-species counts to SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"repeattools/internal/aggregate"
	"repeattools/internal/repeat"
)

const schema = `
CREATE TABLE IF NOT EXISTS repeats (
	run_id          TEXT NOT NULL,
	species         TEXT NOT NULL,
	sequence_id     TEXT NOT NULL,
	"start"         INTEGER NOT NULL,
	"end"           INTEGER NOT NULL,
	length          INTEGER NOT NULL,
	repeat_name     TEXT NOT NULL,
	class           TEXT NOT NULL,
	superfamily     TEXT NOT NULL,
	per_div         REAL NOT NULL,
	per_del         REAL NOT NULL,
	per_ins         REAL NOT NULL,
	tes_order       TEXT NOT NULL,
	tes_superfamily TEXT NOT NULL,
	clade           TEXT NOT NULL,
	completeness    TEXT NOT NULL,
	strand          TEXT NOT NULL,
	domains         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS repeats_run_species ON repeats(run_id, species);
CREATE TABLE IF NOT EXISTS counts (
	run_id   TEXT NOT NULL,
	species  TEXT NOT NULL,
	depth    TEXT NOT NULL,
	category TEXT NOT NULL,
	count    INTEGER NOT NULL,
	PRIMARY KEY (run_id, species, depth, category)
);`

// Store is a SQLite sink for one or more runs.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates path (and its directory) if needed and ensures the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Close() error { return s.db.Close() }

// SaveSpecies stores one species' filtered records and its count vector in
// a single transaction: either both land or neither does.
func (s *Store) SaveSpecies(ctx context.Context, runID, depth string, recs []repeat.Record, c aggregate.Counts) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if err := insertRecords(ctx, tx, runID, c.Species, recs); err != nil {
		return err
	}
	if err := insertCounts(ctx, tx, runID, depth, c); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertRecords(ctx context.Context, tx *sql.Tx, runID, species string, recs []repeat.Record) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO repeats (
		run_id, species, sequence_id, "start", "end", length, repeat_name, class, superfamily,
		per_div, per_del, per_ins, tes_order, tes_superfamily, clade, completeness, strand, domains
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare repeats: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range recs {
		r := &recs[i]
		if _, err := stmt.ExecContext(ctx,
			runID, species, r.SequenceID, r.Start, r.End, r.Length, r.Name, r.Class, r.Superfamily,
			r.Divergence, r.Deletion, r.Insertion, r.TesOrder(), r.TesSuperfamily(), r.Clade(),
			r.Completeness(), r.Strand().String(), repeat.FormatDomains(r.Domains()),
		); err != nil {
			return fmt.Errorf("insert repeat %d: %w", i, err)
		}
	}
	return nil
}

// insertCounts upserts a count vector; a repeated species is summed.
func insertCounts(ctx context.Context, tx *sql.Tx, runID, depth string, c aggregate.Counts) error {
	for _, cat := range c.Order {
		if _, err := tx.ExecContext(ctx, `INSERT INTO counts (run_id, species, depth, category, count)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(run_id, species, depth, category) DO UPDATE SET count = count + excluded.count`,
			runID, c.Species, depth, cat, c.Values[cat]); err != nil {
			return fmt.Errorf("insert count %q: %w", cat, err)
		}
	}
	return nil
}

// Counts reads back the count vectors of a run in species order of insertion.
func (s *Store) Counts(ctx context.Context, runID, depth string) ([]aggregate.Counts, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT species, category, count FROM counts WHERE run_id = ? AND depth = ? ORDER BY rowid`, runID, depth)
	if err != nil {
		return nil, fmt.Errorf("select counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []aggregate.Counts
	idx := make(map[string]int)
	for rows.Next() {
		var sp, cat string
		var n int
		if err := rows.Scan(&sp, &cat, &n); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		i, ok := idx[sp]
		if !ok {
			i = len(out)
			idx[sp] = i
			out = append(out, aggregate.Counts{Species: sp, Values: make(map[string]int)})
		}
		out[i].Values[cat] = n
		out[i].Order = append(out[i].Order, cat)
	}
	return out, rows.Err()
}

// RecordCount returns the number of stored repeats for a run and species.
func (s *Store) RecordCount(ctx context.Context, runID, species string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM repeats WHERE run_id = ? AND species = ?`, runID, species).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count repeats: %w", err)
	}
	return n, nil
}
