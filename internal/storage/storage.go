// Package storage persists synthesis runs so earlier results can be
// listed and inspected later.
package storage

import (
	"context"
	"time"

	"github.com/rxforge/rxforge/internal/anneal"
	"github.com/rxforge/rxforge/internal/examples"
)

// Run is one persisted synthesis run: its inputs, configuration
// fingerprint, and result.
type Run struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Positives []string `json:"positives"`
	Negatives []string `json:"negatives"`

	Profile  string `json:"profile"`
	Schedule string `json:"schedule"`
	Dialect  string `json:"dialect"`
	Seed     int64  `json:"seed"`

	Result anneal.Result `json:"result"`
}

// Store is the interface for run-history backends.
type Store interface {
	// SaveRun persists a completed run and returns its generated ID.
	SaveRun(ctx context.Context, set *examples.Set, cfg anneal.Config, result *anneal.Result) (string, error)

	// GetRun returns one run by ID, or nil when it does not exist.
	GetRun(ctx context.Context, id string) (*Run, error)

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]*Run, error)

	// Close releases the backend.
	Close() error
}
