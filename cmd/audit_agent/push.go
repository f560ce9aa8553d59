package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/pressbooks-auditor/internal/config"
	"github.com/jonathan/pressbooks-auditor/internal/pressbooks"
	"github.com/jonathan/pressbooks-auditor/internal/types"
)

var pushForce bool

var pushCommand = &cobra.Command{
	Use:   "push <chapter_id>",
	Short: "Push the local HTML file for a chapter back to Pressbooks",
	Long: `Pushes the edited local chapter file back to the book.

When the approval queue still has pending blocking findings for the chapter,
push refuses unless --force is given; decide those findings first.`,
	Args: cobra.ExactArgs(1),
	RunE: runPushCmd,
}

func init() {
	pushCommand.Flags().BoolVar(&pushForce, "force", false, "Push even if blocking findings are still pending for this chapter")
	rootCmd.AddCommand(pushCommand)
}

func runPushCmd(cmd *cobra.Command, args []string) error {
	chapterID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid chapter id %q: %w", args[0], err)
	}

	cfg, err := loadCLIConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	client, err := newClient(cfg, logger, true)
	if err != nil {
		return err
	}
	dir, err := cfg.ResolveChaptersDir()
	if err != nil {
		return err
	}

	content, meta, err := pressbooks.ChapterStore{Dir: dir}.Load(chapterID)
	if err != nil {
		return err
	}

	if !pushForce {
		if err := checkPendingBlockers(cfg, chapterID); err != nil {
			return err
		}
	}

	title := ""
	if meta != nil {
		title = meta.Title
	}

	chapter, err := client.PushChapter(context.Background(), chapterID, content, title)
	if err != nil {
		return err
	}

	fmt.Printf("Pushed: [%d] %s\n", chapter.ID, chapter.Title.Rendered)
	fmt.Printf("  Status: %s\n", chapter.Status)
	fmt.Printf("  Link: %s\n", chapter.Link)
	return nil
}

// checkPendingBlockers refuses a push while the chapter still has undecided
// pending findings in the approval queue.
func checkPendingBlockers(cfg config.Config, chapterID int) error {
	q, _, err := openQueue(cfg)
	if err != nil {
		return err
	}

	prefix := fmt.Sprintf("%d_", chapterID)
	var pending int
	for _, f := range q.WithStatus(types.StatusPending) {
		if strings.HasPrefix(f.DocumentID, prefix) {
			pending++
		}
	}
	if pending > 0 {
		return fmt.Errorf("chapter %d has %d pending findings: decide them first or pass --force", chapterID, pending)
	}
	return nil
}
