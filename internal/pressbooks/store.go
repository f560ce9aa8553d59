package pressbooks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Meta is the sidecar metadata saved next to each pulled chapter file.
type Meta struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	Status string `json:"status"`
	Link   string `json:"link"`
}

// ChapterStore reads and writes chapters under a local book directory as
// `<id>_<slug>.html` with a `<id>_<slug>.json` sidecar, the layout the
// auditor scans and the push command reads back.
type ChapterStore struct {
	Dir string
}

// Save writes the chapter's HTML and metadata, creating the directory on
// first use. Returns the HTML file path.
func (s ChapterStore) Save(ch *Chapter) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create chapters directory %s: %w", s.Dir, err)
	}

	base := fmt.Sprintf("%d_%s", ch.ID, ch.Slug)
	htmlPath := filepath.Join(s.Dir, base+".html")
	if err := os.WriteFile(htmlPath, []byte(ch.Content.Rendered), 0644); err != nil {
		return "", fmt.Errorf("failed to write chapter HTML: %w", err)
	}

	meta := Meta{
		ID:     ch.ID,
		Title:  ch.Title.Rendered,
		Slug:   ch.Slug,
		Status: ch.Status,
		Link:   ch.Link,
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal chapter metadata: %w", err)
	}
	metaPath := filepath.Join(s.Dir, base+".json")
	if err := os.WriteFile(metaPath, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("failed to write chapter metadata: %w", err)
	}

	return htmlPath, nil
}

// Load reads a chapter's HTML and sidecar metadata back by ID. The metadata
// file is optional; a chapter pulled by other means still pushes, just
// without a title.
func (s ChapterStore) Load(chapterID int) (string, *Meta, error) {
	matches, err := filepath.Glob(filepath.Join(s.Dir, fmt.Sprintf("%d_*.html", chapterID)))
	if err != nil {
		return "", nil, fmt.Errorf("failed to search chapters directory: %w", err)
	}
	if len(matches) == 0 {
		return "", nil, fmt.Errorf("no local file found for chapter %d: pull it first", chapterID)
	}

	htmlPath := matches[0]
	content, err := os.ReadFile(htmlPath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read chapter %s: %w", htmlPath, err)
	}

	metaPath := htmlPath[:len(htmlPath)-len(".html")] + ".json"
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return string(content), nil, nil
		}
		return "", nil, fmt.Errorf("failed to read chapter metadata %s: %w", metaPath, err)
	}

	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return "", nil, fmt.Errorf("failed to parse chapter metadata %s: %w", metaPath, err)
	}
	return string(content), &meta, nil
}
