package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/pressbooks-auditor/internal/manifest"
	"github.com/jonathan/pressbooks-auditor/internal/observability"
	"github.com/jonathan/pressbooks-auditor/internal/queue"
	"github.com/jonathan/pressbooks-auditor/internal/schemas"
	"github.com/jonathan/pressbooks-auditor/internal/types"
	"github.com/jonathan/pressbooks-auditor/internal/verify"
)

var (
	verifyBefore string
	verifyAfter  string
	verifyApply  bool
)

var verifyCommand = &cobra.Command{
	Use:   "verify",
	Short: "Diff pre-edit and post-edit manifests to confirm remediation",
	Long: `Compares the manifest from before the edits against a freshly scanned one.

Findings whose locator disappeared are resolved. With --apply, every approved
finding confirmed resolved is marked applied in the queue. Regressions
(defects reappearing after being marked applied) are surfaced and make the
command fail; they are never auto-reverted.`,
	RunE: runVerifyCmd,
}

func init() {
	verifyCommand.Flags().StringVar(&verifyBefore, "before", "", "Pre-edit manifest path (required)")
	verifyCommand.Flags().StringVar(&verifyAfter, "after", "", "Post-edit manifest path (required)")
	verifyCommand.Flags().BoolVar(&verifyApply, "apply", false, "Mark approved findings applied when confirmed resolved")
	_ = verifyCommand.MarkFlagRequired("before")
	_ = verifyCommand.MarkFlagRequired("after")
	rootCmd.AddCommand(verifyCommand)
}

func runVerifyCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadCLIConfig(cmd)
	if err != nil {
		return err
	}

	pre, err := loadManifest(verifyBefore)
	if err != nil {
		return err
	}
	post, err := loadManifest(verifyAfter)
	if err != nil {
		return err
	}

	q, path, err := openQueue(cfg)
	if err != nil {
		return err
	}

	result := verify.Run(pre, post, q.AppliedIDs())
	observability.NewPrinter(os.Stdout).PrintVerifyResult(result)

	if verifyApply {
		applied, err := applyResolved(q, result)
		if err != nil {
			return err
		}
		if err := q.SaveFile(path); err != nil {
			return err
		}
		fmt.Printf("Marked %d findings applied.\n", applied)
	}

	// Regressions fail the command so CI and scripts notice.
	return result.Err()
}

// applyResolved marks applied every approved finding whose locator the
// validator confirmed absent from the post-edit manifest. Approval alone is
// not enough; that is the caller contract MarkApplied depends on.
func applyResolved(q *queue.Queue, result *verify.Result) (int, error) {
	applied := 0
	ctx := context.Background()
	for _, f := range q.WithStatus(types.StatusApproved) {
		if !result.ResolvedID(f.ID) {
			continue
		}
		if _, err := q.MarkApplied(ctx, f.ID); err != nil {
			return applied, fmt.Errorf("failed to mark %s applied: %w", f.ID, err)
		}
		applied++
	}
	return applied, nil
}

// loadManifest reads a manifest file, checking it against the JSON schema
// first so a corrupted or hand-edited file fails loudly.
func loadManifest(path string) (*types.Manifest, error) {
	if err := schemas.ValidateFile(schemas.ManifestSchema, path); err != nil {
		return nil, fmt.Errorf("manifest %s failed schema validation: %w", path, err)
	}
	return manifest.ReadFile(path)
}
