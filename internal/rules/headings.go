package rules

import (
	"fmt"

	"github.com/jonathan/pressbooks-auditor/internal/document"
	"github.com/jonathan/pressbooks-auditor/internal/types"
)

// checkHeadingSkips flags headings whose level jumps more than one step past
// the nearest preceding heading. The first heading in a document is never
// flagged regardless of its level, and only the first offender in a run of
// consecutive skips is reported; re-levelling that one is assumed to fix the
// remainder on re-scan. Heading context resets per document: chapters are
// pulled and pushed individually, so no continuity across them is assumed.
func checkHeadingSkips(d *document.Document) ([]types.Candidate, error) {
	var out []types.Candidate
	perTag := map[string]int{}

	prev := 0
	for _, h := range d.Headings() {
		level, err := headingLevel(h.Tag)
		if err != nil {
			return nil, err
		}
		ordinal := perTag[h.Tag]
		perTag[h.Tag]++

		if prev != 0 && level > prev+1 {
			out = append(out, types.Candidate{
				RuleID:     RuleHeadingSkip,
				DocumentID: d.ID,
				Locator:    fmt.Sprintf("%s#%d", h.Tag, ordinal),
				Line:       h.Line,
				Snippet:    snippet(h),
				Message:    fmt.Sprintf("heading level skips from h%d to h%d; nest headings one level at a time", prev, level),
			})
		}
		// Advance past the offender so a run of consecutive skips reports once.
		prev = level
	}
	return out, nil
}

func headingLevel(tag string) (int, error) {
	if len(tag) != 2 || tag[0] != 'h' || tag[1] < '1' || tag[1] > '6' {
		return 0, fmt.Errorf("unexpected heading tag %q", tag)
	}
	return int(tag[1] - '0'), nil
}
