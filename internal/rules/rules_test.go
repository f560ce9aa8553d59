package rules

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pressbooks-auditor/internal/document"
)

func mustLoad(t *testing.T, raw string) *document.Document {
	t.Helper()
	d, err := document.Load("test-doc", raw)
	require.NoError(t, err)
	return d
}

func TestCatalog_StableOrderAndMetadata(t *testing.T) {
	metas := Catalog()
	require.Len(t, metas, 8)

	ids := make([]string, len(metas))
	for i, m := range metas {
		ids[i] = m.ID
	}
	assert.Equal(t, []string{
		RuleImgMissingAlt,
		RuleImgEmptyAlt,
		RuleTableNoHeader,
		RuleLinkVagueText,
		RuleLinkURLText,
		RuleLinkNewWindow,
		RuleHeadingSkip,
		RuleInlineStyleVolume,
	}, ids)
}

func TestLookup_ManualReviewFlags(t *testing.T) {
	emptyAlt, ok := Lookup(RuleImgEmptyAlt)
	require.True(t, ok)
	assert.True(t, emptyAlt.ManualReview)

	newWindow, ok := Lookup(RuleLinkNewWindow)
	require.True(t, ok)
	assert.True(t, newWindow.ManualReview)

	missingAlt, ok := Lookup(RuleImgMissingAlt)
	require.True(t, ok)
	assert.False(t, missingAlt.ManualReview)

	_, ok = Lookup("no-such-rule")
	assert.False(t, ok)
}

func TestEvaluate_CleanDocumentYieldsNothing(t *testing.T) {
	d := mustLoad(t, `<h1>Intro</h1>
<p>All good here.</p>
<img src="ok.png" alt="A labelled image">
<a href="/syllabus">Course syllabus</a>`)

	candidates, diags := Evaluate(d)
	assert.Empty(t, candidates)
	assert.Empty(t, diags)
}

func TestEvaluate_Deterministic(t *testing.T) {
	raw := `<h1>Intro</h1>
<h3>Skipped</h3>
<img src="a.png">
<a href="/x">click here</a>
<table><tr><td>1</td></tr></table>`

	first, _ := Evaluate(mustLoad(t, raw))
	second, _ := Evaluate(mustLoad(t, raw))

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Key(), second[i].Key())
		assert.Equal(t, first[i].Line, second[i].Line)
	}
}

func TestEvaluate_ReportsLineIndexGapsOnce(t *testing.T) {
	// Formatting-element reconstruction gives the tree more anchors than
	// the raw text has start tags, so the line index cannot cover them all.
	d := mustLoad(t, `<p><a href="/x">click here<p>here</a>`)

	_, diags := Evaluate(d)

	gaps := 0
	for _, diag := range diags {
		if diag.Message == "line index incomplete for <a>" {
			gaps++
			assert.Equal(t, "test-doc", diag.DocumentID)
		}
	}
	assert.Equal(t, 1, gaps, "expected exactly one line-index diagnostic, got %+v", diags)
}

func TestSnippet_CollapsesAndTruncates(t *testing.T) {
	d := mustLoad(t, `<p>
	spread
	across
	lines
</p>`)

	paras := d.Elements("p")
	require.Len(t, paras, 1)
	assert.Equal(t, "<p> spread across lines </p>", snippet(paras[0]))
}

func TestSnippet_TruncatesOnRuneBoundary(t *testing.T) {
	d := mustLoad(t, "<p>"+strings.Repeat("語", 80)+"</p>")

	paras := d.Elements("p")
	require.Len(t, paras, 1)

	s := snippet(paras[0])
	assert.True(t, utf8.ValidString(s))
	assert.LessOrEqual(t, len(s), 160)
	assert.True(t, strings.HasSuffix(s, "..."))
}
