package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var tocCommand = &cobra.Command{
	Use:   "toc",
	Short: "Show the book's table of contents",
	RunE:  runTocCmd,
}

func init() {
	rootCmd.AddCommand(tocCommand)
}

func runTocCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadCLIConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	client, err := newClient(cfg, logger, false)
	if err != nil {
		return err
	}

	toc, err := client.GetTOC(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("\n=== %s — Table of Contents ===\n\n", client.Slug())

	if len(toc.FrontMatter) > 0 {
		fmt.Println("Front Matter:")
		for _, item := range toc.FrontMatter {
			fmt.Printf("  [%d] %s\n", item.ID, item.Title)
		}
		fmt.Println()
	}

	for _, part := range toc.Parts {
		fmt.Printf("Part: %s (ID: %d)\n", part.Title, part.ID)
		for _, ch := range part.Chapters {
			status := "draft"
			if ch.Status == "publish" {
				status = "✓"
			}
			fmt.Printf("  [%d] %s  (%s)\n", ch.ID, ch.Title, status)
		}
		fmt.Println()
	}

	if len(toc.BackMatter) > 0 {
		fmt.Println("Back Matter:")
		for _, item := range toc.BackMatter {
			fmt.Printf("  [%d] %s\n", item.ID, item.Title)
		}
		fmt.Println()
	}

	return nil
}
