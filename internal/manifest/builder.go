// Package manifest assigns stable identities to rule candidates and
// aggregates them into an immutable, diffable manifest with per-rule counts.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"time"

	"github.com/jonathan/pressbooks-auditor/internal/rules"
	"github.com/jonathan/pressbooks-auditor/internal/types"
)

// idLength is the number of hex characters kept from the identity hash.
const idLength = 12

// FindingID derives the stable finding identity from the structural locator
// tuple. The same unresolved defect hashes to the same ID on every scan; a
// changed or removed defect can never reuse another finding's ID.
func FindingID(key types.FindingKey) string {
	sum := sha256.Sum256([]byte(key.DocumentID + "|" + key.RuleID + "|" + key.Locator))
	return hex.EncodeToString(sum[:])[:idLength]
}

// Build consumes raw candidates from all rules across one or more documents
// and produces a manifest. Duplicate candidates (same rule, document and
// locator) are merged rather than double-counted. Findings are ordered by
// document, then line, then rule, then locator for stable diffing; building
// twice from unchanged input yields identical ID sets and counts.
func Build(candidates []types.Candidate) *types.Manifest {
	seen := make(map[types.FindingKey]bool, len(candidates))
	docs := make(map[string]bool)
	findings := make([]types.Finding, 0, len(candidates))

	for i := range candidates {
		c := &candidates[i]
		key := c.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		docs[c.DocumentID] = true

		manualReview := false
		if meta, ok := rules.Lookup(c.RuleID); ok {
			manualReview = meta.ManualReview
		}

		findings = append(findings, types.Finding{
			ID:           FindingID(key),
			RuleID:       c.RuleID,
			DocumentID:   c.DocumentID,
			Locator:      c.Locator,
			Line:         c.Line,
			Snippet:      c.Snippet,
			Message:      c.Message,
			Suggestion:   c.Suggestion,
			ManualReview: manualReview,
			Status:       types.StatusPending,
		})
	}

	sort.Slice(findings, func(i, j int) bool {
		a, b := &findings[i], &findings[j]
		if a.DocumentID != b.DocumentID {
			return a.DocumentID < b.DocumentID
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		return a.Locator < b.Locator
	})

	counts := make(map[string]int)
	for i := range findings {
		counts[findings[i].RuleID]++
	}

	documents := make([]string, 0, len(docs))
	for id := range docs {
		documents = append(documents, id)
	}
	sort.Strings(documents)

	return &types.Manifest{
		GeneratedAt: time.Now().UTC(),
		Documents:   documents,
		Findings:    findings,
		Counts:      counts,
	}
}
