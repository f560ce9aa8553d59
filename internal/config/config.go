// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/pressbooks-auditor/internal/pressbooks"
)

// Config represents the CLI configuration that can be loaded from a JSON
// file. All fields are optional; missing values fall back to environment
// variables (.env) or defaults, and CLI flags override everything.
type Config struct {
	// Book
	BookURL     string `json:"book_url,omitempty" validate:"omitempty,url"`
	User        string `json:"user,omitempty"`
	AppPassword string `json:"app_password,omitempty"`
	ChaptersDir string `json:"chapters_dir,omitempty"`

	// Review
	ReviewedBy string `json:"reviewed_by,omitempty"`
	QueueFile  string `json:"queue_file,omitempty"`

	// Behavior
	Concurrency int    `json:"concurrency,omitempty" validate:"gte=0"`
	Verbose     bool   `json:"verbose,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv returns a config populated from environment variables, the same
// names the original .env scheme uses.
func FromEnv() Config {
	return Config{
		BookURL:     os.Getenv("PRESSBOOKS_URL"),
		User:        os.Getenv("PRESSBOOKS_USER"),
		AppPassword: os.Getenv("PRESSBOOKS_APP_PASSWORD"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
}

// Validate checks that the configuration has valid values. Required-field
// checks are left to the CLI commands after merging, since different
// commands need different fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. Used to layer config file values under CLI flags and over env.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.BookURL == "" {
		result.BookURL = defaults.BookURL
	}
	if result.User == "" {
		result.User = defaults.User
	}
	if result.AppPassword == "" {
		result.AppPassword = defaults.AppPassword
	}
	if result.ChaptersDir == "" {
		result.ChaptersDir = defaults.ChaptersDir
	}
	if result.ReviewedBy == "" {
		result.ReviewedBy = defaults.ReviewedBy
	}
	if result.QueueFile == "" {
		result.QueueFile = defaults.QueueFile
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Slug derives the book's short name from BookURL, matching the namespacing
// the pull command uses for local chapter files.
func (c *Config) Slug() (string, error) {
	if c.BookURL == "" {
		return "", fmt.Errorf("PRESSBOOKS_URL is not set: add it to .env or pass --book-url")
	}
	parsed, err := url.Parse(c.BookURL)
	if err != nil {
		return "", fmt.Errorf("invalid book URL %s: %w", c.BookURL, err)
	}
	return pressbooks.BookSlug(parsed), nil
}

// ResolveChaptersDir returns the directory chapters are stored in: the
// configured directory when set, otherwise the book slug in the working
// directory (the original layout).
func (c *Config) ResolveChaptersDir() (string, error) {
	if c.ChaptersDir != "" {
		return c.ChaptersDir, nil
	}
	return c.Slug()
}
