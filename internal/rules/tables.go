package rules

import (
	"fmt"

	"github.com/jonathan/pressbooks-auditor/internal/document"
	"github.com/jonathan/pressbooks-auditor/internal/types"
)

// checkTableHeaders flags each table whose first row contains no header
// cells. A table is flagged once, at its start line, regardless of how many
// data rows it has. Tables without any rows are skipped.
func checkTableHeaders(d *document.Document) ([]types.Candidate, error) {
	var out []types.Candidate

	for i, table := range d.Elements("table") {
		rows := table.Find("tr")
		if len(rows) == 0 {
			continue
		}
		if len(rows[0].Find("th")) > 0 {
			continue
		}
		out = append(out, types.Candidate{
			RuleID:     RuleTableNoHeader,
			DocumentID: d.ID,
			Locator:    fmt.Sprintf("table#%d", i),
			Line:       table.Line,
			Snippet:    snippet(rows[0]),
			Message:    "table's first row has no <th> header cells; screen readers cannot associate data with columns",
			Suggestion: "convert the first row's <td> cells to <th scope=\"col\">",
		})
	}
	return out, nil
}
