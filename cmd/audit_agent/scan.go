package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/pressbooks-auditor/internal/config"
	"github.com/jonathan/pressbooks-auditor/internal/db"
	"github.com/jonathan/pressbooks-auditor/internal/manifest"
	"github.com/jonathan/pressbooks-auditor/internal/observability"
	"github.com/jonathan/pressbooks-auditor/internal/queue"
	"github.com/jonathan/pressbooks-auditor/internal/scan"
	"github.com/jonathan/pressbooks-auditor/internal/types"
)

var (
	scanOut         string
	scanConcurrency int
	scanNoSeed      bool
)

var scanCommand = &cobra.Command{
	Use:   "scan [file.html ...]",
	Short: "Audit local chapters and write a findings manifest",
	Long: `Runs the full rule catalog against local chapter files and writes a manifest.

With no arguments every .html file in the chapters directory is scanned.
New findings are seeded into the approval queue at pending; findings already
tracked keep their review state, so re-scanning is safe at any time.`,
	RunE: runScanCmd,
}

func init() {
	scanCommand.Flags().StringVarP(&scanOut, "out", "o", "manifest.json", "Manifest output path")
	scanCommand.Flags().IntVar(&scanConcurrency, "concurrency", scan.DefaultConcurrency, "Documents scanned in parallel")
	scanCommand.Flags().BoolVar(&scanNoSeed, "no-seed", false, "Do not seed findings into the approval queue")
	rootCmd.AddCommand(scanCommand)
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadCLIConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	var inputs []scan.Input
	if len(args) > 0 {
		inputs, err = scan.LoadFiles(args)
	} else {
		dir, dirErr := cfg.ResolveChaptersDir()
		if dirErr != nil {
			return dirErr
		}
		inputs, err = scan.LoadDir(dir)
	}
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no chapter files to scan: pull chapters first")
	}

	result, err := scan.Run(ctx, inputs, scan.Options{
		Concurrency: scanConcurrency,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	if err := manifest.WriteFile(result.Manifest, scanOut); err != nil {
		return err
	}
	fmt.Printf("Scanned %d documents: %d findings.\n", len(result.Manifest.Documents), len(result.Manifest.Findings))
	fmt.Printf("  Manifest: %s\n", scanOut)

	if !scanNoSeed {
		seeded, path, err := seedQueue(ctx, cfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("  Queue: %s (%d new pending)\n", path, seeded)
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintManifest(result.Manifest)
		printer.PrintFindings(result.Manifest.Findings)
		printer.PrintDiagnostics(result.Diagnostics)
	}

	if cfg.DatabaseURL != "" {
		if err := persistScan(ctx, cfg.DatabaseURL, cfg, result); err != nil {
			return err
		}
	}

	return nil
}

// seedQueue proposes every finding into the approval queue. Already-tracked
// findings are untouched; their review state survives re-scans.
func seedQueue(ctx context.Context, cfg config.Config, result *scan.Result) (int, string, error) {
	q, path, err := openQueue(cfg)
	if err != nil {
		return 0, "", err
	}

	seeded := 0
	for _, f := range result.Manifest.Findings {
		isNew, err := q.Propose(ctx, f)
		if err != nil {
			return 0, "", err
		}
		if isNew {
			seeded++
		}
	}

	if err := q.SaveFile(path); err != nil {
		return 0, "", err
	}
	return seeded, path, nil
}

// persistScan records the run and its pre-edit manifest in PostgreSQL.
func persistScan(ctx context.Context, databaseURL string, cfg config.Config, result *scan.Result) error {
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	slug, err := cfg.Slug()
	if err != nil {
		slug = "local"
	}

	runID, err := database.CreateRun(ctx, slug)
	if err != nil {
		return err
	}
	if err := database.SaveManifest(ctx, runID, db.PhasePreEdit, result.Manifest); err != nil {
		return err
	}
	existing, err := database.ListFindings(ctx, "")
	if err != nil {
		return err
	}
	if err := syncFindings(ctx, database, existing, result.Manifest.Findings); err != nil {
		return err
	}
	return database.CompleteRun(ctx, runID, "completed")
}

// syncFindings proposes manifest findings into a store-backed queue. The
// queue is hydrated with the store's current records first, so a finding a
// reviewer already decided keeps its verdict across re-scans.
func syncFindings(ctx context.Context, store queue.Store, existing, findings []types.Finding) error {
	q := queue.New(store)

	tracked := make(map[string]types.Finding, len(existing))
	for _, f := range existing {
		tracked[f.ID] = f
	}
	q.Restore(queue.Snapshot{Findings: tracked})

	for _, f := range findings {
		if _, err := q.Propose(ctx, f); err != nil {
			return err
		}
	}
	return nil
}
