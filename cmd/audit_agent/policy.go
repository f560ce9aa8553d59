package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/pressbooks-auditor/internal/types"
)

var policyCommand = &cobra.Command{
	Use:   "policy <finding-id> <keep-with-warning|remove|leave>",
	Short: "Record the window policy for a new-window link finding",
	Long: `Records the policy decision for a link that opens a new browsing context.

New-window findings can never be marked applied on approval alone; a policy
decision must be on record first.`,
	Args: cobra.ExactArgs(2),
	RunE: runPolicyCmd,
}

func init() {
	rootCmd.AddCommand(policyCommand)
}

func runPolicyCmd(cmd *cobra.Command, args []string) error {
	findingID := args[0]
	policy := types.WindowPolicy(args[1])

	cfg, err := loadCLIConfig(cmd)
	if err != nil {
		return err
	}

	q, path, err := openQueue(cfg)
	if err != nil {
		return err
	}

	if err := q.RecordPolicy(context.Background(), findingID, policy); err != nil {
		return err
	}
	if err := q.SaveFile(path); err != nil {
		return err
	}

	fmt.Printf("Recorded policy %s for finding %s.\n", policy, findingID)
	return nil
}
