package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jonathan/pressbooks-auditor/internal/config"
	"github.com/jonathan/pressbooks-auditor/internal/pressbooks"
	"github.com/jonathan/pressbooks-auditor/internal/queue"
)

var (
	flagConfigPath  string
	flagBookURL     string
	flagChaptersDir string
	flagQueueFile   string
	flagReviewedBy  string
	flagVerbose     bool
	flagDatabaseURL string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().StringVar(&flagBookURL, "book-url", "", "Pressbooks book URL (defaults to PRESSBOOKS_URL)")
	rootCmd.PersistentFlags().StringVar(&flagChaptersDir, "chapters-dir", "", "Local chapters directory (defaults to the book slug)")
	rootCmd.PersistentFlags().StringVar(&flagQueueFile, "queue-file", "", "Path to the approval queue state file (defaults to <chapters-dir>/queue.json)")
	rootCmd.PersistentFlags().StringVar(&flagReviewedBy, "by", "", "Reviewer name recorded on decisions")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print detailed output")
	rootCmd.PersistentFlags().StringVar(&flagDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL)")
}

// loadCLIConfig layers configuration: env (.env) under the optional config
// file, under explicitly set CLI flags.
func loadCLIConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.FromEnv()

	if flagConfigPath != "" {
		loaded, err := config.LoadConfig(flagConfigPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return config.Config{}, err
		}
		cfg = loaded.MergeWithDefaults(cfg)
	}

	if cmd.Flags().Changed("book-url") {
		cfg.BookURL = flagBookURL
	}
	if cmd.Flags().Changed("chapters-dir") {
		cfg.ChaptersDir = flagChaptersDir
	}
	if cmd.Flags().Changed("queue-file") {
		cfg.QueueFile = flagQueueFile
	}
	if cmd.Flags().Changed("by") {
		cfg.ReviewedBy = flagReviewedBy
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = flagVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = flagDatabaseURL
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config) hclog.Logger {
	level := hclog.Info
	if cfg.Verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "audit_agent",
		Output: os.Stderr,
		Level:  level,
	})
}

// newClient builds a Pressbooks client from config, attaching auth when
// credentials are present. withAuth demands them.
func newClient(cfg config.Config, logger hclog.Logger, withAuth bool) (*pressbooks.Client, error) {
	if cfg.BookURL == "" {
		return nil, fmt.Errorf("PRESSBOOKS_URL is not set: add a line like PRESSBOOKS_URL=https://yourschool.pressbooks.pub/your-book-name to .env")
	}

	opts := []pressbooks.Option{pressbooks.WithLogger(logger)}
	if cfg.User != "" && cfg.AppPassword != "" {
		opts = append(opts, pressbooks.WithAuth(cfg.User, cfg.AppPassword))
	} else if withAuth {
		if cfg.User == "" {
			return nil, fmt.Errorf("PRESSBOOKS_USER is not set in .env")
		}
		return nil, fmt.Errorf("PRESSBOOKS_APP_PASSWORD is not set in .env")
	}

	return pressbooks.New(cfg.BookURL, opts...)
}

// queuePath resolves the approval queue state file location.
func queuePath(cfg config.Config) (string, error) {
	if cfg.QueueFile != "" {
		return cfg.QueueFile, nil
	}
	dir, err := cfg.ResolveChaptersDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "queue.json"), nil
}

// openQueue loads the approval queue from its state file.
func openQueue(cfg config.Config) (*queue.Queue, string, error) {
	path, err := queuePath(cfg)
	if err != nil {
		return nil, "", err
	}
	q := queue.New(nil)
	if err := q.LoadFile(path); err != nil {
		return nil, "", err
	}
	return q, path, nil
}
