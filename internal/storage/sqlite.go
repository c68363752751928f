package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/rxforge/rxforge/internal/anneal"
	"github.com/rxforge/rxforge/internal/examples"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    positives TEXT NOT NULL,
    negatives TEXT NOT NULL,
    profile TEXT NOT NULL,
    schedule TEXT NOT NULL,
    dialect TEXT NOT NULL,
    seed INTEGER NOT NULL,
    pattern TEXT NOT NULL,
    score REAL NOT NULL,
    complexity INTEGER NOT NULL,
    iterations INTEGER NOT NULL,
    elapsed_ms INTEGER NOT NULL,
    reason TEXT NOT NULL,
    result_json TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the run-history database at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// SaveRun persists a completed run and returns its generated ID.
func (s *SQLiteStore) SaveRun(ctx context.Context, set *examples.Set, cfg anneal.Config, result *anneal.Result) (string, error) {
	id := uuid.New().String()

	positives, err := json.Marshal(set.Positives)
	if err != nil {
		return "", fmt.Errorf("failed to marshal positives: %w", err)
	}
	negatives, err := json.Marshal(set.Negatives)
	if err != nil {
		return "", fmt.Errorf("failed to marshal negatives: %w", err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, positives, negatives, profile, schedule, dialect, seed,
		                  pattern, score, complexity, iterations, elapsed_ms, reason, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC(), string(positives), string(negatives),
		string(cfg.Profile), string(cfg.CoolingSchedule), string(cfg.Dialect), cfg.Seed,
		result.BestPatternText, result.Score, result.Complexity,
		result.Iterations, result.ElapsedMs, string(result.ConvergenceReason), string(resultJSON))
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	return id, nil
}

// GetRun returns one run by ID, or nil when it does not exist.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, positives, negatives, profile, schedule, dialect, seed, result_json
		FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return run, err
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, positives, negatives, profile, schedule, dialect, seed, result_json
		FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var positives, negatives, resultJSON string
	err := row.Scan(&run.ID, &run.CreatedAt, &positives, &negatives,
		&run.Profile, &run.Schedule, &run.Dialect, &run.Seed, &resultJSON)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(positives), &run.Positives); err != nil {
		return nil, fmt.Errorf("failed to unmarshal positives: %w", err)
	}
	if err := json.Unmarshal([]byte(negatives), &run.Negatives); err != nil {
		return nil, fmt.Errorf("failed to unmarshal negatives: %w", err)
	}
	if err := json.Unmarshal([]byte(resultJSON), &run.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &run, nil
}
