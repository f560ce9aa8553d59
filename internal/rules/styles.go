package rules

import (
	"fmt"

	"github.com/jonathan/pressbooks-auditor/internal/document"
	"github.com/jonathan/pressbooks-auditor/internal/types"
)

// checkInlineStyleVolume reports the count of elements carrying inline style
// attributes as a single aggregate finding per document, not one per element,
// so a style-heavy chapter does not explode the manifest. Advisory only.
func checkInlineStyleVolume(d *document.Document) ([]types.Candidate, error) {
	styled := d.Select("[style]")
	if len(styled) == 0 {
		return nil, nil
	}
	return []types.Candidate{{
		RuleID:     RuleInlineStyleVolume,
		DocumentID: d.ID,
		Locator:    "styles",
		Snippet:    snippet(styled[0]),
		Message:    fmt.Sprintf("%d elements carry inline style attributes; prefer theme styles for consistent presentation", len(styled)),
	}}, nil
}
