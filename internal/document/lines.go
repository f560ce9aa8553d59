package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// lineIndex maps a tag name to the start lines of its occurrences in
// document order. It is built in a separate tokenizer pass because the parsed
// tree does not carry positions; the tree and the index are joined by
// (tag, ordinal).
type lineIndex map[string][]int

// indexLines tokenizes raw HTML and records the start line of every opening
// tag. A tokenizer failure mid-document leaves a partial index and a
// degraded note; scanning continues with the lines collected so far.
func indexLines(raw string) (lineIndex, []string) {
	idx := lineIndex{}
	var degraded []string

	line := 1
	z := html.NewTokenizer(strings.NewReader(raw))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				degraded = append(degraded, fmt.Sprintf("tokenizer stopped near line %d: %v", line, err))
			}
			break
		}

		if tt == html.StartTagToken || tt == html.SelfClosingTagToken {
			name, _ := z.TagName()
			tag := string(name)
			idx[tag] = append(idx[tag], line)
		}

		// Raw bytes of the token just consumed; newlines inside a token
		// advance the counter only after the token's start is recorded.
		line += bytes.Count(z.Raw(), []byte{'\n'})
	}

	return idx, degraded
}
