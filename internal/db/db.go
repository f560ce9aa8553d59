// Package db provides PostgreSQL persistence for audit runs, manifests, and
// the approval queue's review state. The core works without it; the CLI
// wires it in when DATABASE_URL is configured.
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/pressbooks-auditor/internal/types"
)

// Manifest phases stored per run.
const (
	PhasePreEdit  = "pre_edit"
	PhasePostEdit = "post_edit"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// CreateRun creates a new audit run record for a book and returns its ID
func (db *DB) CreateRun(ctx context.Context, bookSlug string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO audit_runs (book_slug, status)
		 VALUES ($1, 'running')
		 RETURNING id`,
		bookSlug,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks an audit run as completed
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE audit_runs SET status = $1, completed_at = NOW() WHERE id = $2`,
		status, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// SaveManifest stores a manifest snapshot for a run phase. Manifests are
// immutable: saving the same phase twice replaces the stored snapshot with
// the newer run's output, never edits it in place.
func (db *DB) SaveManifest(ctx context.Context, runID uuid.UUID, phase string, m *types.Manifest) error {
	jsonBytes, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO manifests (run_id, phase, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id, phase) DO UPDATE SET content = $3, created_at = NOW()`,
		runID, phase, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save %s manifest: %w", phase, err)
	}
	return nil
}

// GetManifest retrieves a stored manifest by run and phase. Returns nil when
// the phase has not been saved.
func (db *DB) GetManifest(ctx context.Context, runID uuid.UUID, phase string) (*types.Manifest, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM manifests WHERE run_id = $1 AND phase = $2`,
		runID, phase,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s manifest: %w", phase, err)
	}

	var m types.Manifest
	if err := json.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("failed to parse stored manifest: %w", err)
	}
	return &m, nil
}
