// Package main provides the entry point for the Pressbooks accessibility auditor CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "audit_agent",
	Short: "Pressbooks accessibility auditor",
	Long:  "Audits Pressbooks book chapters for accessibility defects, tracks each finding through a human-gated approval workflow, and verifies remediation before chapters are pushed back.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
