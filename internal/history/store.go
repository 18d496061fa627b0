// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists solver runs in a local SQLite database so that
// strategies can be compared across runs and the best plan per input is
// known.
package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/bookscan/pkg/types"
)

const dbFile = "history.db"

// Store manages the run history database.
type Store struct {
	db         *sqlx.DB
	dir        string
	maxResults int
}

// NewStore opens or creates the history database at cfg.Dir/history.db
// and creates the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sqlx.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Batch workers record concurrently; one connection serializes them.
	db.SetMaxOpenConns(1)

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			input TEXT NOT NULL,
			strategy TEXT NOT NULL,
			horizon INTEGER NOT NULL,
			libraries INTEGER NOT NULL,
			signed_up INTEGER NOT NULL,
			books_scanned INTEGER NOT NULL,
			score INTEGER NOT NULL,
			duration_ns INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_input ON runs(input)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_strategy ON runs(strategy)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// NewRecord describes a finished run of p.
func NewRecord(p *types.Problem, sol *types.Solution, elapsed time.Duration) types.RunRecord {
	return types.RunRecord{
		Input:        p.Name,
		Strategy:     sol.Strategy,
		Horizon:      p.Horizon,
		Libraries:    len(p.Libraries),
		SignedUp:     sol.SignedUp,
		BooksScanned: sol.BooksScanned,
		Score:        sol.Score,
		Duration:     elapsed,
	}
}

// Record stores rec. A missing ID is filled with a time-ordered UUID and a
// zero CreatedAt with the current time. The stored record is returned.
func (s *Store) Record(ctx context.Context, rec types.RunRecord) (types.RunRecord, error) {
	if rec.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return rec, fmt.Errorf("generating run id: %w", err)
		}
		rec.ID = id.String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO runs (id, input, strategy, horizon, libraries, signed_up, books_scanned, score, duration_ns, created_at)
		 VALUES (:id, :input, :strategy, :horizon, :libraries, :signed_up, :books_scanned, :score, :duration_ns, :created_at)`,
		rec)
	if err != nil {
		return rec, fmt.Errorf("recording run for %s: %w", rec.Input, err)
	}
	return rec, nil
}

// QueryOptions filters history queries.
type QueryOptions struct {
	// Input restricts results to one input name.
	Input string

	// Strategy restricts results to one strategy.
	Strategy types.Strategy

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

const runColumns = `id, input, strategy, horizon, libraries, signed_up, books_scanned, score, duration_ns, created_at`

func (s *Store) where(opts QueryOptions) (string, []any) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(` WHERE 1=1`)
	if opts.Input != "" {
		qb.WriteString(` AND input = ?`)
		args = append(args, opts.Input)
	}
	if opts.Strategy != "" {
		qb.WriteString(` AND strategy = ?`)
		args = append(args, string(opts.Strategy))
	}
	return qb.String(), args
}

func (s *Store) limit(opts QueryOptions) int {
	if opts.MaxResults > 0 {
		return opts.MaxResults
	}
	return s.maxResults
}

// List returns runs, newest first.
func (s *Store) List(ctx context.Context, opts QueryOptions) ([]types.RunRecord, error) {
	where, args := s.where(opts)
	query := `SELECT ` + runColumns + ` FROM runs` + where + ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, s.limit(opts))

	var runs []types.RunRecord
	if err := s.db.SelectContext(ctx, &runs, query, args...); err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	return runs, nil
}

// Best returns the highest scoring run per input, ordered by input name.
// Equal scores keep the earliest run.
func (s *Store) Best(ctx context.Context, opts QueryOptions) ([]types.RunRecord, error) {
	where, args := s.where(opts)
	query := `SELECT ` + runColumns + ` FROM (
			SELECT ` + runColumns + `,
				ROW_NUMBER() OVER (PARTITION BY input ORDER BY score DESC, created_at ASC, rowid ASC) AS rn
			FROM runs` + where + `
		) WHERE rn = 1 ORDER BY input LIMIT ?`
	args = append(args, s.limit(opts))

	var runs []types.RunRecord
	if err := s.db.SelectContext(ctx, &runs, query, args...); err != nil {
		return nil, fmt.Errorf("querying best runs: %w", err)
	}
	return runs, nil
}
