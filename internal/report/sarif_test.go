package report

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pressbooks-auditor/internal/manifest"
	"github.com/jonathan/pressbooks-auditor/internal/queue"
	"github.com/jonathan/pressbooks-auditor/internal/rules"
	"github.com/jonathan/pressbooks-auditor/internal/types"
	"github.com/jonathan/pressbooks-auditor/internal/verify"
)

func sampleManifest() *types.Manifest {
	return manifest.Build([]types.Candidate{
		{
			RuleID:     rules.RuleImgMissingAlt,
			DocumentID: "11_cells",
			Locator:    "img[src=figure.png]#0",
			Line:       3,
			Message:    "image has no alt attribute",
		},
		{
			RuleID:     rules.RuleInlineStyleVolume,
			DocumentID: "11_cells",
			Locator:    "styles",
			Message:    "7 elements carry inline style attributes",
		},
	})
}

func TestToSARIF_RulesAndResults(t *testing.T) {
	report, err := ToSARIF(sampleManifest())
	require.NoError(t, err)
	require.Len(t, report.Runs, 1)

	run := report.Runs[0]
	assert.Equal(t, "pressbooks-auditor", run.Tool.Driver.Name)
	assert.Len(t, run.Tool.Driver.Rules, 8)
	require.Len(t, run.Results, 2)

	first := run.Results[0]
	require.NotNil(t, first.RuleID)
	assert.Equal(t, rules.RuleImgMissingAlt, *first.RuleID)
	require.NotNil(t, first.Level)
	assert.Equal(t, "error", *first.Level)

	require.Len(t, first.Locations, 1)
	loc := first.Locations[0].PhysicalLocation
	require.NotNil(t, loc)
	assert.Equal(t, "11_cells.html", *loc.ArtifactLocation.URI)
	assert.Equal(t, 3, *loc.Region.StartLine)

	assert.Equal(t, "pending", first.Properties["status"])
	assert.NotEmpty(t, first.Properties["findingId"])
}

func TestToSARIF_AdvisoryMapsToNote(t *testing.T) {
	report, err := ToSARIF(sampleManifest())
	require.NoError(t, err)

	for _, result := range report.Runs[0].Results {
		if result.RuleID != nil && *result.RuleID == rules.RuleInlineStyleVolume {
			require.NotNil(t, result.Level)
			assert.Equal(t, "note", *result.Level)
			// The aggregate finding has no line; SARIF requires one.
			assert.Equal(t, 1, *result.Locations[0].PhysicalLocation.Region.StartLine)
		}
	}
}

func TestWriteSARIF_ProducesParsableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.sarif")
	require.NoError(t, WriteSARIF(sampleManifest(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "2.1.0", doc["version"])
}

func TestBuildTrail_CarriesDecisionsAndPolicies(t *testing.T) {
	pre := sampleManifest()
	post := manifest.Build(nil)

	q := queue.New(nil)
	ctx := context.Background()
	for _, f := range pre.Findings {
		_, err := q.Propose(ctx, f)
		require.NoError(t, err)
	}
	decided, err := q.Decide(ctx, pre.Findings[0].ID, types.StatusApproved, "fix it", "reviewer")
	require.NoError(t, err)

	result := verify.Run(pre, post, nil)
	trail := BuildTrail(pre, post, q, result)

	assert.Same(t, pre, trail.Pre)
	assert.Same(t, post, trail.Post)
	require.Len(t, trail.Decisions[decided.ID], 1)
	assert.Equal(t, types.StatusApproved, trail.Decisions[decided.ID][0].Verdict)
	require.NotNil(t, trail.Verify)
	assert.Len(t, trail.Verify.Resolved, 2)
}

func TestWriteTrail_RoundTrip(t *testing.T) {
	pre := sampleManifest()
	post := manifest.Build(nil)
	q := queue.New(nil)

	trail := BuildTrail(pre, post, q, verify.Run(pre, post, nil))
	path := filepath.Join(t.TempDir(), "trail.json")
	require.NoError(t, WriteTrail(trail, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded Trail
	require.NoError(t, json.Unmarshal(data, &loaded))
	require.NotNil(t, loaded.Pre)
	assert.Equal(t, pre.Keys(), loaded.Pre.Keys())
}
