// Package scan orchestrates a full audit run: load each document, evaluate
// the rule catalog, and merge the results into one manifest. Per-document
// evaluation is stateless and runs concurrently; the manifest builder is the
// single merge point.
package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/pressbooks-auditor/internal/document"
	"github.com/jonathan/pressbooks-auditor/internal/manifest"
	"github.com/jonathan/pressbooks-auditor/internal/rules"
	"github.com/jonathan/pressbooks-auditor/internal/types"
)

// DefaultConcurrency bounds the number of documents evaluated in parallel.
const DefaultConcurrency = 4

// Input is one (document_id, raw_html_text) pair from the content source.
type Input struct {
	DocumentID string
	HTML       string
}

// Result is the complete output of one scan run: the manifest plus any
// coverage-gap diagnostics collected along the way.
type Result struct {
	Manifest    *types.Manifest    `json:"manifest"`
	Diagnostics []types.Diagnostic `json:"diagnostics,omitempty"`
}

// Options configures a scan run.
type Options struct {
	Concurrency int
	Logger      hclog.Logger
}

// Run audits every input document and builds one manifest. One document's
// parse trouble degrades to diagnostics for that document; it never aborts
// the scan of the rest. Run is deterministic: candidates are gathered per
// document and merged in input order before the builder sorts them.
func Run(ctx context.Context, inputs []Input, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	perDoc := make([][]types.Candidate, len(inputs))
	perDocDiags := make([][]types.Diagnostic, len(inputs))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range inputs {
		i := i
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			input := inputs[i]

			doc, err := document.Load(input.DocumentID, input.HTML)
			if err != nil {
				// Total load failure becomes a document-level diagnostic.
				mu.Lock()
				perDocDiags[i] = []types.Diagnostic{{DocumentID: input.DocumentID, Message: err.Error()}}
				mu.Unlock()
				logger.Warn("document load degraded", "document", input.DocumentID, "error", err)
				return nil
			}

			candidates, diags := rules.Evaluate(doc)
			logger.Debug("document scanned",
				"document", input.DocumentID,
				"candidates", len(candidates),
				"diagnostics", len(diags))

			mu.Lock()
			perDoc[i] = candidates
			perDocDiags[i] = diags
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	var candidates []types.Candidate
	var diagnostics []types.Diagnostic
	for i := range inputs {
		candidates = append(candidates, perDoc[i]...)
		diagnostics = append(diagnostics, perDocDiags[i]...)
	}

	m := manifest.Build(candidates)
	logger.Info("scan complete",
		"documents", len(inputs),
		"findings", len(m.Findings),
		"diagnostics", len(diagnostics))

	return &Result{Manifest: m, Diagnostics: diagnostics}, nil
}

// LoadDir reads every .html file in a chapters directory as a scan input.
// The document ID is the file name without extension, matching the
// `<id>_<slug>.html` layout the pull command writes.
func LoadDir(dir string) ([]Input, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read chapters directory %s: %w", dir, err)
	}

	var inputs []Input
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read chapter %s: %w", path, err)
		}
		inputs = append(inputs, Input{
			DocumentID: strings.TrimSuffix(entry.Name(), ".html"),
			HTML:       string(data),
		})
	}

	sort.Slice(inputs, func(i, j int) bool { return inputs[i].DocumentID < inputs[j].DocumentID })
	return inputs, nil
}

// LoadFiles reads explicit HTML file paths as scan inputs.
func LoadFiles(paths []string) ([]Input, error) {
	inputs := make([]Input, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read chapter %s: %w", path, err)
		}
		name := filepath.Base(path)
		inputs = append(inputs, Input{
			DocumentID: strings.TrimSuffix(name, filepath.Ext(name)),
			HTML:       string(data),
		})
	}
	return inputs, nil
}
