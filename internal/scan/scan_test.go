package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pressbooks-auditor/internal/rules"
)

const chapterWithDefects = `<h1>Chapter</h1>
<h3>Skipped heading</h3>
<img src="figure.png">
<a href="/more">read more</a>`

const cleanChapter = `<h1>Chapter</h1>
<p>Nothing wrong here.</p>`

func TestRun_MergesDocumentsIntoOneManifest(t *testing.T) {
	inputs := []Input{
		{DocumentID: "10_intro", HTML: cleanChapter},
		{DocumentID: "11_cells", HTML: chapterWithDefects},
	}

	result, err := Run(context.Background(), inputs, Options{})
	require.NoError(t, err)

	m := result.Manifest
	assert.Equal(t, []string{"11_cells"}, m.Documents)
	assert.Equal(t, 1, m.Counts[rules.RuleHeadingSkip])
	assert.Equal(t, 1, m.Counts[rules.RuleImgMissingAlt])
	assert.Equal(t, 1, m.Counts[rules.RuleLinkVagueText])
	assert.Empty(t, result.Diagnostics)

	for _, f := range m.Findings {
		assert.Equal(t, "11_cells", f.DocumentID)
	}
}

func TestRun_DeterministicAcrossConcurrencyLevels(t *testing.T) {
	var inputs []Input
	for _, id := range []string{"1_a", "2_b", "3_c", "4_d", "5_e", "6_f"} {
		inputs = append(inputs, Input{DocumentID: id, HTML: chapterWithDefects})
	}

	serial, err := Run(context.Background(), inputs, Options{Concurrency: 1})
	require.NoError(t, err)
	parallel, err := Run(context.Background(), inputs, Options{Concurrency: 8})
	require.NoError(t, err)

	assert.Equal(t, serial.Manifest.Keys(), parallel.Manifest.Keys())
	assert.Equal(t, serial.Manifest.Counts, parallel.Manifest.Counts)
	require.Equal(t, len(serial.Manifest.Findings), len(parallel.Manifest.Findings))
	for i := range serial.Manifest.Findings {
		assert.Equal(t, serial.Manifest.Findings[i].ID, parallel.Manifest.Findings[i].ID)
	}
}

func TestRun_EmptyInputs(t *testing.T) {
	result, err := Run(context.Background(), nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, result.Manifest.Findings)
	assert.Empty(t, result.Diagnostics)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, []Input{{DocumentID: "doc", HTML: cleanChapter}}, Options{})
	assert.Error(t, err)
}

func TestLoadDir_ReadsOnlyHTMLSorted(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "12_photosynthesis.html"), []byte(cleanChapter), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "11_cells.html"), []byte(chapterWithDefects), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "11_cells.json"), []byte(`{"id": 11}`), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

	inputs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, inputs, 2)

	assert.Equal(t, "11_cells", inputs[0].DocumentID)
	assert.Equal(t, "12_photosynthesis", inputs[1].DocumentID)
	assert.Equal(t, chapterWithDefects, inputs[0].HTML)
}

func TestLoadDir_MissingDirectory(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "13_energy.html")
	require.NoError(t, os.WriteFile(path, []byte(cleanChapter), 0644))

	inputs, err := LoadFiles([]string{path})
	require.NoError(t, err)
	require.Len(t, inputs, 1)
	assert.Equal(t, "13_energy", inputs[0].DocumentID)
}
