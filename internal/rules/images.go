package rules

import (
	"fmt"
	"strings"

	"github.com/jonathan/pressbooks-auditor/internal/document"
	"github.com/jonathan/pressbooks-auditor/internal/types"
)

// imageLocator identifies an image by its src plus its ordinal among images
// sharing that src. The locator survives edits elsewhere in the file, so the
// same unresolved defect keeps the same finding ID across re-scans.
func imageLocator(src string, ordinal int) string {
	if src == "" {
		return fmt.Sprintf("img#%d", ordinal)
	}
	return fmt.Sprintf("img[src=%s]#%d", src, ordinal)
}

func checkMissingAlt(d *document.Document) ([]types.Candidate, error) {
	var out []types.Candidate
	perSrc := map[string]int{}

	for _, img := range d.Elements("img") {
		src, _ := img.Attr("src")
		ordinal := perSrc[src]
		perSrc[src]++

		if _, present := img.Attr("alt"); present {
			continue
		}
		out = append(out, types.Candidate{
			RuleID:     RuleImgMissingAlt,
			DocumentID: d.ID,
			Locator:    imageLocator(src, ordinal),
			Line:       img.Line,
			Snippet:    snippet(img),
			Message:    "image has no alt attribute; add alt text or alt=\"\" if decorative",
		})
	}
	return out, nil
}

func checkEmptyAlt(d *document.Document) ([]types.Candidate, error) {
	var out []types.Candidate
	perSrc := map[string]int{}

	for _, img := range d.Elements("img") {
		src, _ := img.Attr("src")
		ordinal := perSrc[src]
		perSrc[src]++

		alt, present := img.Attr("alt")
		if !present || strings.TrimSpace(alt) != "" {
			continue
		}
		out = append(out, types.Candidate{
			RuleID:     RuleImgEmptyAlt,
			DocumentID: d.ID,
			Locator:    imageLocator(src, ordinal),
			Line:       img.Line,
			Snippet:    snippet(img),
			Message:    "image alt attribute is blank; confirm the image is decorative or write meaningful alt text",
		})
	}
	return out, nil
}
