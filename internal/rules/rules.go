// Package rules implements the fixed catalog of accessibility detectors.
// Each rule is a pure function from a parsed document to zero or more
// candidate findings. The set is closed and known at design time; detection
// stays deterministic and auditable.
package rules

import (
	"strings"
	"unicode/utf8"

	"github.com/jonathan/pressbooks-auditor/internal/document"
	"github.com/jonathan/pressbooks-auditor/internal/types"
)

// Rule identifiers. The catalog is fixed; these are the only rule IDs the
// auditor ever emits.
const (
	RuleImgMissingAlt     = "img-missing-alt"
	RuleImgEmptyAlt       = "img-empty-alt"
	RuleTableNoHeader     = "table-no-header"
	RuleLinkVagueText     = "link-vague-text"
	RuleLinkURLText       = "link-url-text"
	RuleLinkNewWindow     = "link-new-window"
	RuleHeadingSkip       = "heading-skip"
	RuleInlineStyleVolume = "inline-style-volume"
)

// checkFunc evaluates one rule against a document. A returned error means the
// rule could not evaluate the document; it is recorded as a diagnostic, never
// raised to the caller.
type checkFunc func(d *document.Document) ([]types.Candidate, error)

type rule struct {
	meta  types.Rule
	check checkFunc
}

// catalog is the closed detector set, in stable evaluation order.
var catalog = []rule{
	{
		meta: types.Rule{
			ID:          RuleImgMissingAlt,
			Description: "Image has no alt attribute",
			Severity:    types.SeverityBlocking,
		},
		check: checkMissingAlt,
	},
	{
		meta: types.Rule{
			ID:           RuleImgEmptyAlt,
			Description:  "Image alt attribute is present but blank",
			Severity:     types.SeverityBlocking,
			ManualReview: true,
		},
		check: checkEmptyAlt,
	},
	{
		meta: types.Rule{
			ID:          RuleTableNoHeader,
			Description: "Table's first row contains no header cells",
			Severity:    types.SeverityBlocking,
		},
		check: checkTableHeaders,
	},
	{
		meta: types.Rule{
			ID:          RuleLinkVagueText,
			Description: "Link text is a generic phrase that gives no destination context",
			Severity:    types.SeverityBlocking,
		},
		check: checkVagueLinkText,
	},
	{
		meta: types.Rule{
			ID:          RuleLinkURLText,
			Description: "Link text is a raw URL",
			Severity:    types.SeverityBlocking,
		},
		check: checkURLLinkText,
	},
	{
		meta: types.Rule{
			ID:           RuleLinkNewWindow,
			Description:  "Link opens in a new browsing context",
			Severity:     types.SeverityBlocking,
			ManualReview: true,
		},
		check: checkNewWindowLinks,
	},
	{
		meta: types.Rule{
			ID:          RuleHeadingSkip,
			Description: "Heading level skips more than one step past the preceding heading",
			Severity:    types.SeverityBlocking,
		},
		check: checkHeadingSkips,
	},
	{
		meta: types.Rule{
			ID:          RuleInlineStyleVolume,
			Description: "Chapter relies on inline style attributes for presentation",
			Severity:    types.SeverityAdvisory,
		},
		check: checkInlineStyleVolume,
	},
}

// Catalog returns metadata for every rule in evaluation order.
func Catalog() []types.Rule {
	metas := make([]types.Rule, len(catalog))
	for i, r := range catalog {
		metas[i] = r.meta
	}
	return metas
}

// Lookup returns the metadata for a rule ID.
func Lookup(id string) (types.Rule, bool) {
	for _, r := range catalog {
		if r.meta.ID == id {
			return r.meta, true
		}
	}
	return types.Rule{}, false
}

// Evaluate runs the full catalog against one document. Rule evaluation
// failures and loader degradation become diagnostics; Evaluate itself never
// fails, so one broken construct cannot abort the scan of other documents.
func Evaluate(d *document.Document) ([]types.Candidate, []types.Diagnostic) {
	var candidates []types.Candidate
	var diags []types.Diagnostic

	for _, r := range catalog {
		found, err := r.check(d)
		if err != nil {
			diags = append(diags, types.Diagnostic{
				DocumentID: d.ID,
				RuleID:     r.meta.ID,
				Message:    err.Error(),
			})
			continue
		}
		candidates = append(candidates, found...)
	}

	// Degradation notes accrue while rules walk the document, so they are
	// collected after the loop. Several rules visit the same elements; each
	// distinct note is reported once.
	seen := make(map[string]bool)
	for _, note := range d.Degraded() {
		if seen[note] {
			continue
		}
		seen[note] = true
		diags = append(diags, types.Diagnostic{DocumentID: d.ID, Message: note})
	}

	return candidates, diags
}

// snippet renders an element excerpt for a finding, collapsed to one line
// and truncated so manifests stay readable.
func snippet(e document.Element) string {
	const maxLen = 160

	s := strings.Join(strings.Fields(e.OuterHTML()), " ")
	if len(s) > maxLen {
		cut := maxLen - 3
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	return s
}
