package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/pressbooks-auditor/internal/queue"
	"github.com/jonathan/pressbooks-auditor/internal/types"
	"github.com/jonathan/pressbooks-auditor/internal/verify"
)

// Trail bundles the three artifacts a completed remediation pass exposes:
// the pre-edit manifest, the full decision history per finding, and the
// post-edit manifest. An external report generator composes the before/after
// narrative from these; the core supplies nothing else.
type Trail struct {
	Pre       *types.Manifest               `json:"pre_manifest"`
	Post      *types.Manifest               `json:"post_manifest"`
	Decisions map[string][]types.Decision   `json:"decisions"`
	Policies  map[string]types.WindowPolicy `json:"policies,omitempty"`
	Verify    *verify.Result                `json:"verify,omitempty"`
}

// BuildTrail assembles the audit-trail bundle from the two manifests and the
// approval queue's recorded history.
func BuildTrail(pre, post *types.Manifest, q *queue.Queue, result *verify.Result) *Trail {
	snap := q.Snapshot()
	return &Trail{
		Pre:       pre,
		Post:      post,
		Decisions: snap.Decisions,
		Policies:  snap.Policies,
		Verify:    result,
	}
}

// WriteTrail persists the bundle as one JSON document.
func WriteTrail(t *Trail, path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal audit trail: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write audit trail %s: %w", path, err)
	}
	return nil
}
