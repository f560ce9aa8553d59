// Package types provides type definitions for structured data used throughout the accessibility auditor.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// Status is the lifecycle state of a finding in the approval queue.
type Status string

const (
	// StatusPending means the finding awaits a human decision.
	StatusPending Status = "pending"
	// StatusApproved means a reviewer approved remediation of the finding.
	StatusApproved Status = "approved"
	// StatusRejected means a reviewer declined to act on the finding.
	StatusRejected Status = "rejected"
	// StatusApplied means the fix was applied and confirmed absent by a re-scan.
	StatusApplied Status = "applied"
)

// Finding represents a single detected accessibility defect.
// Its ID is deterministic from (document_id, rule_id, locator), so re-scanning
// the same unresolved defect reproduces the same ID.
type Finding struct {
	ID           string `json:"id"`
	RuleID       string `json:"rule_id"`
	DocumentID   string `json:"document_id"`
	Locator      string `json:"locator"`
	Line         int    `json:"line"`
	Snippet      string `json:"snippet"`
	Message      string `json:"message"`
	Suggestion   string `json:"suggestion,omitempty"`
	ManualReview bool   `json:"manual_review"`
	Status       Status `json:"status"`

	// Populated on human decision
	DecisionNote string     `json:"decision_note,omitempty"`
	DecidedBy    string     `json:"decided_by,omitempty"`
	DecidedAt    *time.Time `json:"decided_at,omitempty"`
}

// FindingKey is the structural identity of a finding, used for manifest
// diffing and stable ID derivation.
type FindingKey struct {
	RuleID     string `json:"rule_id"`
	DocumentID string `json:"document_id"`
	Locator    string `json:"locator"`
}

// Key returns the structural identity tuple of the finding.
func (f *Finding) Key() FindingKey {
	return FindingKey{RuleID: f.RuleID, DocumentID: f.DocumentID, Locator: f.Locator}
}

// Candidate is a raw rule hit before identity assignment and deduplication.
// Rules emit candidates; the manifest builder turns them into findings.
type Candidate struct {
	RuleID     string `json:"rule_id"`
	DocumentID string `json:"document_id"`
	Locator    string `json:"locator"`
	Line       int    `json:"line"`
	Snippet    string `json:"snippet"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Key returns the structural identity tuple of the candidate.
func (c *Candidate) Key() FindingKey {
	return FindingKey{RuleID: c.RuleID, DocumentID: c.DocumentID, Locator: c.Locator}
}
