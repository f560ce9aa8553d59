// Package document parses raw chapter HTML into an addressable structure for
// rule evaluation: elements by tag, attributes, start lines, and document
// order. Parsing is tolerant; malformed constructs degrade to coverage-gap
// diagnostics instead of failing the scan.
package document

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is the line-indexed structural view of one chapter. A document
// owns its elements; element views must not outlive it.
type Document struct {
	ID  string
	Raw string

	doc      *goquery.Document
	lines    lineIndex
	degraded []string
}

// Load parses raw HTML text under the given document identifier.
// The returned document is read-only; Load never fails on malformed markup,
// it records the trouble in Degraded() instead.
func Load(id, raw string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, &LoadError{DocumentID: id, Message: "failed to parse HTML", Cause: err}
	}

	d := &Document{ID: id, Raw: raw, doc: doc}
	d.lines, d.degraded = indexLines(raw)
	return d, nil
}

// Degraded returns notes about constructs the loader could not fully index.
func (d *Document) Degraded() []string {
	return d.degraded
}

// Elements returns all elements with the given tag name in document order,
// with start lines resolved from the line index. When the tree and the line
// index disagree on how many elements the tag has, the unmatched tail gets
// line 0 and the mismatch is recorded as a degraded note.
func (d *Document) Elements(tag string) []Element {
	sel := d.doc.Find(tag)
	lines := d.lines[tag]

	elems := make([]Element, 0, sel.Length())
	sel.Each(func(i int, s *goquery.Selection) {
		line := 0
		if i < len(lines) {
			line = lines[i]
		}
		elems = append(elems, Element{Tag: tag, Line: line, sel: s})
	})

	if sel.Length() > len(lines) {
		d.degraded = append(d.degraded, "line index incomplete for <"+tag+">")
	}
	return elems
}

// Headings returns all h1..h6 elements interleaved in document order.
func (d *Document) Headings() []Element {
	var all []Element
	perTag := map[string]int{}
	d.doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		lines := d.lines[tag]
		line := 0
		if n := perTag[tag]; n < len(lines) {
			line = lines[n]
		}
		perTag[tag]++
		all = append(all, Element{Tag: tag, Line: line, sel: s})
	})
	return all
}

// Select returns elements matching an arbitrary CSS selector. No line
// resolution is attempted; callers that need lines use Elements or Headings.
func (d *Document) Select(selector string) []Element {
	var elems []Element
	d.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		elems = append(elems, Element{Tag: goquery.NodeName(s), sel: s})
	})
	return elems
}

// Element is a read-only view of one parsed element.
type Element struct {
	Tag  string
	Line int

	sel *goquery.Selection
}

// Attr returns the value of the named attribute and whether it is present.
func (e Element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

// Text returns the element's visible text content.
func (e Element) Text() string {
	return e.sel.Text()
}

// Find walks the element's descendants matching the selector, in document
// order. Descendant views carry no line numbers.
func (e Element) Find(selector string) []Element {
	var elems []Element
	e.sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		elems = append(elems, Element{Tag: goquery.NodeName(s), sel: s})
	})
	return elems
}

// OuterHTML renders the element back to markup, for finding snippets.
// Render failures return an empty string; snippets are best effort.
func (e Element) OuterHTML() string {
	html, err := goquery.OuterHtml(e.sel)
	if err != nil {
		return ""
	}
	return html
}
