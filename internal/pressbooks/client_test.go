package pressbooks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookSlug(t *testing.T) {
	tests := []struct {
		name   string
		rawURL string
		want   string
	}{
		{"path-based book", "https://school.pressbooks.pub/intro-biology", "intro-biology"},
		{"trailing segment wins", "https://school.pressbooks.pub/books/intro-biology", "intro-biology"},
		{"single-book domain", "https://mybook.example.edu", "mybook.example.edu"},
		{"host with port", "http://localhost:8080", "localhost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := url.Parse(tt.rawURL)
			require.NoError(t, err)
			assert.Equal(t, tt.want, BookSlug(parsed))
		})
	}
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New("not-a-url")
	require.Error(t, err)

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestGetTOC_ParsesParts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wp-json/pressbooks/v2/toc", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"front-matter": [{"id": 3, "title": "Preface"}],
			"parts": [
				{"id": 10, "title": "Unit 1", "chapters": [
					{"id": 11, "title": "Cells", "status": "publish"},
					{"id": 12, "title": "Photosynthesis", "status": "draft"}
				]},
				{"id": 20, "title": "Unit 2", "chapters": [
					{"id": 21, "title": "Energy"}
				]}
			],
			"back-matter": []
		}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	toc, err := c.GetTOC(context.Background())
	require.NoError(t, err)

	require.Len(t, toc.Parts, 2)
	assert.Equal(t, "Unit 1", toc.Parts[0].Title)
	assert.Equal(t, []int{11, 12, 21}, toc.ChapterIDs())
	require.Len(t, toc.FrontMatter, 1)
	assert.Equal(t, "Preface", toc.FrontMatter[0].Title)
}

func TestPullChapter_PopulatesSlugFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wp-json/pressbooks/v2/chapters/11", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 11,
			"title": {"rendered": "Cells"},
			"content": {"rendered": "<h1>Cells</h1><p>Body</p>"},
			"status": "publish"
		}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	ch, err := c.PullChapter(context.Background(), 11)
	require.NoError(t, err)

	assert.Equal(t, "Cells", ch.Title.Rendered)
	assert.Equal(t, "<h1>Cells</h1><p>Body</p>", ch.Content.Rendered)
	// No slug in the response; the client synthesizes one so the local
	// file layout stays stable.
	assert.Equal(t, "chapter-11", ch.Slug)
}

func TestPushChapter_SendsContentAndAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/wp-json/pressbooks/v2/chapters/11", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "editor", user)
		assert.Equal(t, "abcd efgh ijkl", pass)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "<p>edited</p>", body["content"])
		assert.Equal(t, "Cells", body["title"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 11, "slug": "cells", "status": "publish", "link": "https://example.com/cells"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithAuth("editor", "abcd efgh ijkl"))
	require.NoError(t, err)

	ch, err := c.PushChapter(context.Background(), 11, "<p>edited</p>", "Cells")
	require.NoError(t, err)
	assert.Equal(t, "publish", ch.Status)
	assert.Equal(t, "https://example.com/cells", ch.Link)
}

func TestStatusError_TypedAuthFailures(t *testing.T) {
	for _, tt := range []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrAuthFailed},
		{http.StatusForbidden, ErrPermissionDenied},
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
		}))

		c, err := New(srv.URL)
		require.NoError(t, err)

		_, err = c.PushChapter(context.Background(), 11, "<p>x</p>", "")
		assert.ErrorIs(t, err, tt.want)
		srv.Close()
	}
}

func TestStatusError_OtherFailuresWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.PullChapter(context.Background(), 999)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "404")
}
