// Package pressbooks is the content-source boundary: it pulls chapter HTML
// and metadata from a Pressbooks book over its REST API and pushes edited
// chapters back. The audit core itself never mutates content; this client is
// how edited text re-enters the scan loop.
package pressbooks

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"
)

const apiPathPrefix = "/wp-json/pressbooks/v2"

// Client talks to one book's Pressbooks API.
type Client struct {
	httpc  *resty.Client
	slug   string
	logger hclog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithAuth sets basic auth using a WordPress application password.
func WithAuth(user, appPassword string) Option {
	return func(c *Client) {
		c.httpc.SetBasicAuth(user, appPassword)
	}
}

// WithLogger attaches a logger for request-level diagnostics.
func WithLogger(logger hclog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the given book URL, e.g.
// https://yourschool.pressbooks.pub/your-book-name.
func New(bookURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(bookURL, "/")
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &APIError{Message: fmt.Sprintf("invalid book URL: %s", bookURL), Cause: err}
	}

	httpc := resty.New()
	httpc.SetBaseURL(trimmed + apiPathPrefix)

	c := &Client{
		httpc:  httpc,
		slug:   BookSlug(parsed),
		logger: hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BookSlug derives the book's short name from its URL path. Single-book
// domains can have no path; fall back to the hostname so local chapter files
// stay namespaced.
func BookSlug(parsed *url.URL) string {
	path := strings.Trim(parsed.Path, "/")
	if path != "" {
		parts := strings.Split(path, "/")
		return parts[len(parts)-1]
	}
	if parsed.Host != "" {
		return strings.Split(parsed.Host, ":")[0]
	}
	return "pressbooks-book"
}

// Slug returns the book's derived short name.
func (c *Client) Slug() string {
	return c.slug
}

// TOCItem is one front-matter, chapter, or back-matter entry.
type TOCItem struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status,omitempty"`
}

// Part groups chapters in the table of contents.
type Part struct {
	ID       int       `json:"id"`
	Title    string    `json:"title"`
	Chapters []TOCItem `json:"chapters"`
}

// TOC is the book's table of contents.
type TOC struct {
	FrontMatter []TOCItem `json:"front-matter"`
	Parts       []Part    `json:"parts"`
	BackMatter  []TOCItem `json:"back-matter"`
}

// ChapterIDs returns every chapter ID in part order, for pull-all.
func (t *TOC) ChapterIDs() []int {
	var ids []int
	for _, part := range t.Parts {
		for _, ch := range part.Chapters {
			ids = append(ids, ch.ID)
		}
	}
	return ids
}

// Rendered is WordPress's rendered-field wrapper.
type Rendered struct {
	Rendered string `json:"rendered"`
}

// Chapter is one chapter resource.
type Chapter struct {
	ID      int      `json:"id"`
	Title   Rendered `json:"title"`
	Content Rendered `json:"content"`
	Slug    string   `json:"slug"`
	Status  string   `json:"status"`
	Link    string   `json:"link"`
}

// GetTOC fetches the table of contents.
func (c *Client) GetTOC(ctx context.Context) (*TOC, error) {
	var toc TOC
	resp, err := c.httpc.R().
		SetContext(ctx).
		SetResult(&toc).
		Get("/toc")
	if err != nil {
		return nil, &APIError{Message: "failed to fetch table of contents", Cause: err}
	}
	if err := statusError(resp); err != nil {
		return nil, err
	}
	return &toc, nil
}

// PullChapter fetches one chapter's rendered content and metadata.
func (c *Client) PullChapter(ctx context.Context, chapterID int) (*Chapter, error) {
	var chapter Chapter
	resp, err := c.httpc.R().
		SetContext(ctx).
		SetResult(&chapter).
		Get(fmt.Sprintf("/chapters/%d", chapterID))
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("failed to pull chapter %d", chapterID), Cause: err}
	}
	if err := statusError(resp); err != nil {
		return nil, err
	}
	if chapter.Slug == "" {
		chapter.Slug = fmt.Sprintf("chapter-%d", chapterID)
	}
	c.logger.Info("pulled chapter", "id", chapterID, "title", chapter.Title.Rendered)
	return &chapter, nil
}

// PushChapter posts edited content (and optionally the title) back to the
// book. Requires auth; 401 and 403 map to typed errors so the CLI can give
// actionable guidance.
func (c *Client) PushChapter(ctx context.Context, chapterID int, content, title string) (*Chapter, error) {
	body := map[string]string{"content": content}
	if title != "" {
		body["title"] = title
	}

	var chapter Chapter
	resp, err := c.httpc.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&chapter).
		Post(fmt.Sprintf("/chapters/%d", chapterID))
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("failed to push chapter %d", chapterID), Cause: err}
	}
	if err := statusError(resp); err != nil {
		return nil, err
	}
	c.logger.Info("pushed chapter", "id", chapterID, "status", chapter.Status, "link", chapter.Link)
	return &chapter, nil
}

func statusError(resp *resty.Response) error {
	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		return ErrAuthFailed
	case http.StatusForbidden:
		return ErrPermissionDenied
	}
	if resp.IsError() {
		return &APIError{
			Message: fmt.Sprintf("unexpected status %d from %s", resp.StatusCode(), resp.Request.URL),
		}
	}
	return nil
}
