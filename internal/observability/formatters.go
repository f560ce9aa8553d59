// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/pressbooks-auditor/internal/types"
	"github.com/jonathan/pressbooks-auditor/internal/verify"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintManifest outputs a human-readable summary of a scan manifest.
func (p *Printer) PrintManifest(m *types.Manifest) {
	if m == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Documents: %d\n", len(m.Documents)))
	sb.WriteString(fmt.Sprintf("Findings:  %d\n", len(m.Findings)))
	sb.WriteString("\n")

	if len(m.Counts) > 0 {
		sb.WriteString("Per rule:\n")
		for _, f := range ruleOrder(m.Counts) {
			sb.WriteString(fmt.Sprintf("  %-22s %d\n", f.ruleID, f.count))
		}
	}

	p.printBox("SCAN MANIFEST", sb.String())
}

// PrintFindings outputs a per-finding listing, truncated for readability.
func (p *Printer) PrintFindings(findings []types.Finding) {
	if len(findings) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(findings), maxItemsToShow)
	for i := 0; i < count; i++ {
		f := findings[i]
		sb.WriteString(fmt.Sprintf("%s  %s\n", f.ID, f.RuleID))
		sb.WriteString(fmt.Sprintf("  %s:%d [%s]\n", f.DocumentID, f.Line, f.Status))
	}
	if len(findings) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(findings)-maxItemsToShow))
	}

	p.printBox("FINDINGS", sb.String())
}

// PrintDiagnostics outputs coverage-gap diagnostics from a scan.
func (p *Printer) PrintDiagnostics(diags []types.Diagnostic) {
	if len(diags) == 0 {
		return
	}

	var sb strings.Builder
	for _, d := range diags {
		if d.RuleID != "" {
			sb.WriteString(fmt.Sprintf("%s (%s): %s\n", d.DocumentID, d.RuleID, d.Message))
		} else {
			sb.WriteString(fmt.Sprintf("%s: %s\n", d.DocumentID, d.Message))
		}
	}

	p.printBox("COVERAGE GAPS", sb.String())
}

// PrintVerifyResult outputs the before/after classification of a
// remediation pass.
func (p *Printer) PrintVerifyResult(r *verify.Result) {
	if r == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Resolved:    %d\n", len(r.Resolved)))
	sb.WriteString(fmt.Sprintf("Still open:  %d\n", len(r.StillOpen)))
	sb.WriteString(fmt.Sprintf("Regressions: %d\n", len(r.Regressions)))
	sb.WriteString("\n")

	if len(r.Counts) > 0 {
		sb.WriteString("Rule                   before  after\n")
		for _, delta := range r.Counts {
			sb.WriteString(fmt.Sprintf("%-22s %6d %6d\n", delta.RuleID, delta.Before, delta.After))
		}
	}

	for _, reg := range r.Regressions {
		sb.WriteString(fmt.Sprintf("\nREGRESSION %s at %s/%s\n", reg.FindingID, reg.Key.DocumentID, reg.Key.Locator))
	}

	p.printBox("REMEDIATION CHECK", sb.String())
}

type ruleCount struct {
	ruleID string
	count  int
}

func ruleOrder(counts map[string]int) []ruleCount {
	out := make([]ruleCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, ruleCount{ruleID: id, count: n})
	}
	// Stable listing regardless of map iteration order.
	sort.Slice(out, func(i, j int) bool { return out[i].ruleID < out[j].ruleID })
	return out
}
