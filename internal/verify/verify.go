// Package verify confirms remediation by diffing a pre-edit manifest against
// a freshly produced post-edit manifest. It decides nothing by itself: the
// caller uses its output to gate MarkApplied on the approval queue.
package verify

import (
	"fmt"
	"sort"

	"github.com/jonathan/pressbooks-auditor/internal/manifest"
	"github.com/jonathan/pressbooks-auditor/internal/types"
)

// RuleDelta is one row of the before/after count table.
type RuleDelta struct {
	RuleID string `json:"rule_id"`
	Before int    `json:"before"`
	After  int    `json:"after"`
}

// Regression records a defect that reappeared at a locator whose finding was
// previously marked applied.
type Regression struct {
	FindingID string           `json:"finding_id"`
	Key       types.FindingKey `json:"key"`
}

// Result classifies every pre-edit finding after a remediation pass.
type Result struct {
	// Resolved holds keys present pre-edit and absent post-edit.
	Resolved []types.FindingKey `json:"resolved"`
	// StillOpen holds keys present in both manifests.
	StillOpen []types.FindingKey `json:"still_open"`
	// Regressions holds post-edit keys mapping to previously applied
	// findings. These are surfaced, never auto-reverted.
	Regressions []Regression `json:"regressions,omitempty"`
	// Counts is the before/after table keyed by rule.
	Counts []RuleDelta `json:"counts"`
}

// ResolvedID reports whether the finding with the given ID was resolved.
func (r *Result) ResolvedID(findingID string) bool {
	for _, key := range r.Resolved {
		if manifest.FindingID(key) == findingID {
			return true
		}
	}
	return false
}

// Err returns an UnresolvedRegressionError when the result contains
// regressions, nil otherwise.
func (r *Result) Err() error {
	if len(r.Regressions) == 0 {
		return nil
	}
	return &UnresolvedRegressionError{Regressions: r.Regressions}
}

// Run compares the pre-edit and post-edit manifests. appliedIDs are the
// finding IDs already marked applied in the queue; any post-edit key hashing
// to one of them is a regression signal — the same defect came back after
// being declared fixed. Neither manifest nor the queue is mutated.
func Run(pre, post *types.Manifest, appliedIDs []string) *Result {
	diff := manifest.Diff(pre, post)

	applied := make(map[string]bool, len(appliedIDs))
	for _, id := range appliedIDs {
		applied[id] = true
	}

	result := &Result{Resolved: diff.OnlyBefore}

	preKeys := pre.Keys()
	for key := range post.Keys() {
		if _, ok := preKeys[key]; ok {
			result.StillOpen = append(result.StillOpen, key)
		}
	}
	sort.Slice(result.StillOpen, func(i, j int) bool {
		a, b := result.StillOpen[i], result.StillOpen[j]
		if a.DocumentID != b.DocumentID {
			return a.DocumentID < b.DocumentID
		}
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		return a.Locator < b.Locator
	})

	for _, key := range diff.OnlyAfter {
		if id := manifest.FindingID(key); applied[id] {
			result.Regressions = append(result.Regressions, Regression{FindingID: id, Key: key})
		}
	}

	ruleIDs := make(map[string]bool)
	for id := range pre.Counts {
		ruleIDs[id] = true
	}
	for id := range post.Counts {
		ruleIDs[id] = true
	}
	for id := range ruleIDs {
		result.Counts = append(result.Counts, RuleDelta{
			RuleID: id,
			Before: pre.Counts[id],
			After:  post.Counts[id],
		})
	}
	sort.Slice(result.Counts, func(i, j int) bool {
		return result.Counts[i].RuleID < result.Counts[j].RuleID
	})

	return result
}

// UnresolvedRegressionError reports defects that reappeared after their
// findings were marked applied. It blocks declaring the affected rules'
// issue classes closed and is always surfaced to the reviewer.
type UnresolvedRegressionError struct {
	Regressions []Regression
}

func (e *UnresolvedRegressionError) Error() string {
	return fmt.Sprintf("%d previously applied findings reappeared post-edit", len(e.Regressions))
}
