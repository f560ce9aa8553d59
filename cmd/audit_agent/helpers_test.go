package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pressbooks-auditor/internal/config"
)

func TestQueuePath_ExplicitFileWins(t *testing.T) {
	cfg := config.Config{QueueFile: "/tmp/custom-queue.json", ChaptersDir: "chapters"}

	path, err := queuePath(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom-queue.json", path)
}

func TestQueuePath_DefaultsToChaptersDir(t *testing.T) {
	cfg := config.Config{ChaptersDir: "intro-biology"}

	path, err := queuePath(cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("intro-biology", "queue.json"), path)
}

func TestQueuePath_FallsBackToBookSlug(t *testing.T) {
	cfg := config.Config{BookURL: "https://school.pressbooks.pub/intro-biology"}

	path, err := queuePath(cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("intro-biology", "queue.json"), path)
}

func TestNewClient_MissingBookURL(t *testing.T) {
	cfg := config.Config{}

	_, err := newClient(cfg, newLogger(cfg), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PRESSBOOKS_URL")
}

func TestNewClient_AuthRequiredButMissing(t *testing.T) {
	cfg := config.Config{BookURL: "https://school.pressbooks.pub/intro-biology"}

	_, err := newClient(cfg, newLogger(cfg), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PRESSBOOKS_USER")

	cfg.User = "editor"
	_, err = newClient(cfg, newLogger(cfg), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PRESSBOOKS_APP_PASSWORD")
}

func TestNewClient_ReadOnlyWithoutCredentials(t *testing.T) {
	cfg := config.Config{BookURL: "https://school.pressbooks.pub/intro-biology"}

	client, err := newClient(cfg, newLogger(cfg), false)
	require.NoError(t, err)
	assert.Equal(t, "intro-biology", client.Slug())
}

func TestOpenQueue_MissingFileStartsEmpty(t *testing.T) {
	cfg := config.Config{QueueFile: filepath.Join(t.TempDir(), "queue.json")}

	q, path, err := openQueue(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.QueueFile, path)
	assert.Empty(t, q.Findings())
}
