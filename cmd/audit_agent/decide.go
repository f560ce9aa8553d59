package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/pressbooks-auditor/internal/observability"
	"github.com/jonathan/pressbooks-auditor/internal/queue"
	"github.com/jonathan/pressbooks-auditor/internal/types"
)

var (
	decideApprove bool
	decideReject  bool
	decideNote    string
	decideRevert  bool
)

var decideCommand = &cobra.Command{
	Use:   "decide <finding-id>",
	Short: "Record a human decision on a pending finding",
	Long: `Approves or rejects a pending finding, recording the reviewer and note.

Only pending findings accept a decision. To re-decide a finding, revert it to
pending first with --revert; that is treated as a fresh decision, the history
is retained.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecideCmd,
}

var pendingCommand = &cobra.Command{
	Use:   "pending",
	Short: "List findings awaiting a decision",
	RunE:  runPendingCmd,
}

func init() {
	decideCommand.Flags().BoolVar(&decideApprove, "approve", false, "Approve remediation of the finding")
	decideCommand.Flags().BoolVar(&decideReject, "reject", false, "Reject the finding")
	decideCommand.Flags().StringVar(&decideNote, "note", "", "Decision note recorded with the verdict")
	decideCommand.Flags().BoolVar(&decideRevert, "revert", false, "Return the finding to pending for a fresh decision")
	rootCmd.AddCommand(decideCommand)
	rootCmd.AddCommand(pendingCommand)
}

func runDecideCmd(cmd *cobra.Command, args []string) error {
	findingID := args[0]

	cfg, err := loadCLIConfig(cmd)
	if err != nil {
		return err
	}

	q, path, err := openQueue(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()

	if decideRevert {
		f, err := q.Revert(ctx, findingID)
		if err != nil {
			return err
		}
		if err := q.SaveFile(path); err != nil {
			return err
		}
		fmt.Printf("Reverted %s to %s.\n", f.ID, f.Status)
		return nil
	}

	if decideApprove == decideReject {
		return fmt.Errorf("pass exactly one of --approve or --reject")
	}
	verdict := types.StatusApproved
	if decideReject {
		verdict = types.StatusRejected
	}
	if cfg.ReviewedBy == "" {
		return fmt.Errorf("--by is required so the decision records who made it")
	}

	f, err := q.Decide(ctx, findingID, verdict, decideNote, cfg.ReviewedBy)
	if err != nil {
		var illegal *queue.IllegalTransitionError
		if errors.As(err, &illegal) {
			return fmt.Errorf("%w: revert it to pending first if you want to re-decide", err)
		}
		return err
	}

	if err := q.SaveFile(path); err != nil {
		return err
	}

	fmt.Printf("Decided %s: %s by %s\n", f.ID, f.Status, f.DecidedBy)
	return nil
}

func runPendingCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadCLIConfig(cmd)
	if err != nil {
		return err
	}

	q, _, err := openQueue(cfg)
	if err != nil {
		return err
	}

	pending := q.WithStatus(types.StatusPending)
	if len(pending) == 0 {
		fmt.Println("No pending findings.")
		return nil
	}

	for _, f := range pending {
		fmt.Printf("%s  %-22s %s:%d\n", f.ID, f.RuleID, f.DocumentID, f.Line)
		fmt.Printf("    %s\n", f.Message)
		if f.ManualReview {
			fmt.Printf("    (manual review required)\n")
		}
	}
	fmt.Printf("\n%d pending findings.\n", len(pending))

	if cfg.Verbose {
		observability.NewPrinter(os.Stdout).PrintFindings(pending)
	}
	return nil
}
