package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jonathan/pressbooks-auditor/internal/pressbooks"
)

var pullCommand = &cobra.Command{
	Use:   "pull <chapter_id>",
	Short: "Pull a chapter to a local HTML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runPullCmd,
}

var pullAllCommand = &cobra.Command{
	Use:   "pull-all",
	Short: "Pull all chapters locally",
	RunE:  runPullAllCmd,
}

func init() {
	rootCmd.AddCommand(pullCommand)
	rootCmd.AddCommand(pullAllCommand)
}

func runPullCmd(cmd *cobra.Command, args []string) error {
	chapterID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid chapter id %q: %w", args[0], err)
	}

	cfg, err := loadCLIConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	client, err := newClient(cfg, logger, false)
	if err != nil {
		return err
	}
	dir, err := cfg.ResolveChaptersDir()
	if err != nil {
		return err
	}

	return pullOne(context.Background(), client, pressbooks.ChapterStore{Dir: dir}, chapterID)
}

func runPullAllCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadCLIConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	client, err := newClient(cfg, logger, false)
	if err != nil {
		return err
	}
	dir, err := cfg.ResolveChaptersDir()
	if err != nil {
		return err
	}

	ctx := context.Background()
	toc, err := client.GetTOC(ctx)
	if err != nil {
		return err
	}

	ids := toc.ChapterIDs()
	fmt.Printf("Pulling %d chapters...\n\n", len(ids))

	store := pressbooks.ChapterStore{Dir: dir}
	for _, id := range ids {
		if err := pullOne(ctx, client, store, id); err != nil {
			return err
		}
	}

	fmt.Printf("\nDone. Files saved to: %s\n", dir)
	return nil
}

func pullOne(ctx context.Context, client *pressbooks.Client, store pressbooks.ChapterStore, chapterID int) error {
	chapter, err := client.PullChapter(ctx, chapterID)
	if err != nil {
		return err
	}

	htmlPath, err := store.Save(chapter)
	if err != nil {
		return err
	}

	fmt.Printf("Pulled: [%d] %s\n", chapter.ID, chapter.Title.Rendered)
	fmt.Printf("  HTML: %s\n", htmlPath)
	return nil
}
