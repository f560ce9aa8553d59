package rules

import (
	"fmt"
	"strings"

	"github.com/jonathan/pressbooks-auditor/internal/document"
	"github.com/jonathan/pressbooks-auditor/internal/types"
)

// vaguePhrases is the fixed set of generic link texts. Matching is exact
// phrase after trimming and lowercasing, never substring, so sentences that
// merely contain these words are not flagged.
var vaguePhrases = map[string]bool{
	"click here": true,
	"click":      true,
	"here":       true,
	"read more":  true,
	"learn more": true,
	"more":       true,
	"link":       true,
	"this link":  true,
}

// anchorLocator identifies an anchor by its href plus its ordinal among
// anchors sharing that href.
func anchorLocator(href string, ordinal int) string {
	if href == "" {
		return fmt.Sprintf("a#%d", ordinal)
	}
	return fmt.Sprintf("a[href=%s]#%d", href, ordinal)
}

// anchors walks the document's <a> elements once, handing each to fn with
// its locator and visible text.
func anchors(d *document.Document, fn func(a document.Element, locator, text string)) {
	perHref := map[string]int{}
	for _, a := range d.Elements("a") {
		href, _ := a.Attr("href")
		locator := anchorLocator(href, perHref[href])
		perHref[href]++
		fn(a, locator, a.Text())
	}
}

func checkVagueLinkText(d *document.Document) ([]types.Candidate, error) {
	var out []types.Candidate
	anchors(d, func(a document.Element, locator, text string) {
		normalized := strings.ToLower(strings.TrimSpace(text))
		if !vaguePhrases[normalized] {
			return
		}
		out = append(out, types.Candidate{
			RuleID:     RuleLinkVagueText,
			DocumentID: d.ID,
			Locator:    locator,
			Line:       a.Line,
			Snippet:    snippet(a),
			Message:    fmt.Sprintf("link text %q does not describe the destination", normalized),
		})
	})
	return out, nil
}

func checkURLLinkText(d *document.Document) ([]types.Candidate, error) {
	var out []types.Candidate
	anchors(d, func(a document.Element, locator, text string) {
		trimmed := strings.TrimSpace(text)
		if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
			return
		}
		href, _ := a.Attr("href")
		out = append(out, types.Candidate{
			RuleID:     RuleLinkURLText,
			DocumentID: d.ID,
			Locator:    locator,
			Line:       a.Line,
			Snippet:    snippet(a),
			Message:    "link text is a raw URL; screen readers announce it character by character",
			Suggestion: fmt.Sprintf("<a href=\"%s\">descriptive text</a> (%s)", href, trimmed),
		})
	})
	return out, nil
}

// checkNewWindowLinks flags anchors whose target requests a new browsing
// context. The rule never proposes a fix: a policy decision
// (keep-with-warning, remove, or leave) must be recorded in the workflow
// before any edit touches these anchors.
func checkNewWindowLinks(d *document.Document) ([]types.Candidate, error) {
	var out []types.Candidate
	anchors(d, func(a document.Element, locator, _ string) {
		target, present := a.Attr("target")
		if !present || !opensNewContext(target) {
			return
		}
		out = append(out, types.Candidate{
			RuleID:     RuleLinkNewWindow,
			DocumentID: d.ID,
			Locator:    locator,
			Line:       a.Line,
			Snippet:    snippet(a),
			Message:    fmt.Sprintf("link opens in a new browsing context (target=%q); requires a recorded policy decision", target),
		})
	})
	return out, nil
}

// opensNewContext reports whether a target attribute value requests a new
// browsing context. _self, _parent and _top keep the current one; _blank and
// named windows do not.
func opensNewContext(target string) bool {
	switch strings.ToLower(strings.TrimSpace(target)) {
	case "", "_self", "_parent", "_top":
		return false
	}
	return true
}
