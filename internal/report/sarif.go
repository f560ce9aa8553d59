// Package report exposes the auditor's output surface to external consumers:
// a SARIF rendering of a manifest and the audit-trail bundle a narrative
// report is composed from. No prose is formatted here.
package report

import (
	"fmt"
	"os"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/jonathan/pressbooks-auditor/internal/rules"
	"github.com/jonathan/pressbooks-auditor/internal/types"
)

const toolName = "pressbooks-auditor"
const toolURI = "https://github.com/jonathan/pressbooks-auditor"

// ToSARIF converts a manifest to a SARIF 2.1.0 report: one reporting
// descriptor per catalog rule, one result per finding anchored to its
// document and start line.
func ToSARIF(m *types.Manifest) (*sarif.Report, error) {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(toolName, toolURI)
	for _, meta := range rules.Catalog() {
		run.AddRule(meta.ID).
			WithDescription(meta.Description).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{
				Level: toSARIFLevel(meta.Severity),
			})
	}

	for i := range m.Findings {
		f := &m.Findings[i]
		meta, _ := rules.Lookup(f.RuleID)

		startLine := f.Line
		if startLine < 1 {
			startLine = 1
		}
		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(f.DocumentID + ".html")).
				WithRegion(sarif.NewRegion().WithStartLine(startLine)),
		)

		result := sarif.NewRuleResult(f.RuleID).
			WithMessage(sarif.NewTextMessage(f.Message)).
			WithLevel(toSARIFLevel(meta.Severity)).
			WithLocations([]*sarif.Location{location})
		result.Properties = sarif.Properties{
			"findingId":    f.ID,
			"locator":      f.Locator,
			"status":       string(f.Status),
			"manualReview": f.ManualReview,
		}
		run.AddResult(result)
	}

	report.AddRun(run)
	return report, nil
}

// WriteSARIF renders the manifest to a SARIF file.
func WriteSARIF(m *types.Manifest, path string) error {
	report, err := ToSARIF(m)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create SARIF file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	if err := report.PrettyWrite(file); err != nil {
		return fmt.Errorf("failed to write SARIF file %s: %w", path, err)
	}
	return nil
}

func toSARIFLevel(severity types.Severity) string {
	if severity == types.SeverityAdvisory {
		return "note"
	}
	return "error"
}
