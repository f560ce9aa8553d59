package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pressbooks-auditor/internal/config"
	"github.com/jonathan/pressbooks-auditor/internal/queue"
	"github.com/jonathan/pressbooks-auditor/internal/rules"
	"github.com/jonathan/pressbooks-auditor/internal/types"
)

func queueWithFinding(t *testing.T, f types.Finding) config.Config {
	t.Helper()

	q := queue.New(nil)
	_, err := q.Propose(context.Background(), f)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "queue.json")
	require.NoError(t, q.SaveFile(path))
	return config.Config{QueueFile: path}
}

func TestCheckPendingBlockers_RefusesWithPendingFindings(t *testing.T) {
	cfg := queueWithFinding(t, types.Finding{
		ID:         "abc123def456",
		RuleID:     rules.RuleImgMissingAlt,
		DocumentID: "11_cells",
		Locator:    "img[src=figure.png]#0",
	})

	err := checkPendingBlockers(cfg, 11)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pending findings")
	assert.Contains(t, err.Error(), "--force")
}

func TestCheckPendingBlockers_OtherChaptersDoNotBlock(t *testing.T) {
	cfg := queueWithFinding(t, types.Finding{
		ID:         "abc123def456",
		RuleID:     rules.RuleImgMissingAlt,
		DocumentID: "12_photosynthesis",
		Locator:    "img[src=figure.png]#0",
	})

	assert.NoError(t, checkPendingBlockers(cfg, 11))
	// Chapter 1 must not match chapter 12's files by prefix.
	assert.NoError(t, checkPendingBlockers(cfg, 1))
}

func TestCheckPendingBlockers_DecidedFindingsDoNotBlock(t *testing.T) {
	q := queue.New(nil)
	ctx := context.Background()

	_, err := q.Propose(ctx, types.Finding{
		ID:         "abc123def456",
		RuleID:     rules.RuleImgMissingAlt,
		DocumentID: "11_cells",
		Locator:    "img[src=figure.png]#0",
	})
	require.NoError(t, err)
	_, err = q.Decide(ctx, "abc123def456", types.StatusRejected, "decorative", "reviewer")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "queue.json")
	require.NoError(t, q.SaveFile(path))

	assert.NoError(t, checkPendingBlockers(config.Config{QueueFile: path}, 11))
}
