package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/pressbooks-auditor/internal/types"
)

// SaveFinding upserts a finding's current state, keyed by its stable ID.
// Implements queue.Store.
func (db *DB) SaveFinding(ctx context.Context, f types.Finding) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO findings (id, rule_id, document_id, locator, line, snippet, message, suggestion,
		                       manual_review, status, decision_note, decided_by, decided_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (id) DO UPDATE SET
		   status = $10, decision_note = $11, decided_by = $12, decided_at = $13, updated_at = NOW()`,
		f.ID, f.RuleID, f.DocumentID, f.Locator, f.Line, f.Snippet, f.Message, f.Suggestion,
		f.ManualReview, f.Status, f.DecisionNote, f.DecidedBy, f.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save finding %s: %w", f.ID, err)
	}
	return nil
}

// SaveDecision appends one decision to a finding's review history.
// Implements queue.Store.
func (db *DB) SaveDecision(ctx context.Context, d types.Decision) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO decisions (id, finding_id, verdict, note, decided_by, decided_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		d.ID, d.FindingID, d.Verdict, d.Note, d.DecidedBy, d.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save decision for finding %s: %w", d.FindingID, err)
	}
	return nil
}

// SavePolicy upserts the window policy recorded for a new-window link
// finding. Implements queue.Store.
func (db *DB) SavePolicy(ctx context.Context, findingID string, p types.WindowPolicy) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO window_policies (finding_id, policy)
		 VALUES ($1, $2)
		 ON CONFLICT (finding_id) DO UPDATE SET policy = $2, updated_at = NOW()`,
		findingID, p,
	)
	if err != nil {
		return fmt.Errorf("failed to save window policy for finding %s: %w", findingID, err)
	}
	return nil
}

// ListFindings retrieves findings, optionally filtered by status, ordered
// the same way manifests are.
func (db *DB) ListFindings(ctx context.Context, status types.Status) ([]types.Finding, error) {
	query := `SELECT id, rule_id, document_id, locator, line, snippet, message, suggestion,
	                 manual_review, status, decision_note, decided_by, decided_at
	          FROM findings`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY document_id, line, rule_id, locator`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list findings: %w", err)
	}
	defer rows.Close()

	var findings []types.Finding
	for rows.Next() {
		var f types.Finding
		if err := rows.Scan(&f.ID, &f.RuleID, &f.DocumentID, &f.Locator, &f.Line, &f.Snippet,
			&f.Message, &f.Suggestion, &f.ManualReview, &f.Status,
			&f.DecisionNote, &f.DecidedBy, &f.DecidedAt); err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}
		findings = append(findings, f)
	}
	return findings, nil
}

// DecisionHistory retrieves a finding's decisions, oldest first.
func (db *DB) DecisionHistory(ctx context.Context, findingID string) ([]types.Decision, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, finding_id, verdict, note, decided_by, decided_at
		 FROM decisions WHERE finding_id = $1 ORDER BY decided_at ASC`,
		findingID,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get decision history: %w", err)
	}
	defer rows.Close()

	var decisions []types.Decision
	for rows.Next() {
		var d types.Decision
		if err := rows.Scan(&d.ID, &d.FindingID, &d.Verdict, &d.Note, &d.DecidedBy, &d.DecidedAt); err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		decisions = append(decisions, d)
	}
	return decisions, nil
}
