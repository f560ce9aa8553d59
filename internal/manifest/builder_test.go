package manifest

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pressbooks-auditor/internal/rules"
	"github.com/jonathan/pressbooks-auditor/internal/types"
)

func TestFindingID_DeterministicAndDistinct(t *testing.T) {
	key := types.FindingKey{
		RuleID:     rules.RuleImgMissingAlt,
		DocumentID: "12_photosynthesis",
		Locator:    "img[src=leaf.png]#0",
	}

	first := FindingID(key)
	second := FindingID(key)
	assert.Equal(t, first, second)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{12}$`), first)

	other := key
	other.Locator = "img[src=leaf.png]#1"
	assert.NotEqual(t, first, FindingID(other))
}

func TestBuild_DeduplicatesByKey(t *testing.T) {
	c := types.Candidate{
		RuleID:     rules.RuleImgMissingAlt,
		DocumentID: "doc",
		Locator:    "img[src=a.png]#0",
		Line:       3,
		Message:    "image has no alt attribute",
	}

	m := Build([]types.Candidate{c, c, c})
	require.Len(t, m.Findings, 1)
	assert.Equal(t, 1, m.Counts[rules.RuleImgMissingAlt])
}

func TestBuild_OrderingAndCounts(t *testing.T) {
	candidates := []types.Candidate{
		{RuleID: rules.RuleTableNoHeader, DocumentID: "b_doc", Locator: "table#0", Line: 9},
		{RuleID: rules.RuleImgMissingAlt, DocumentID: "a_doc", Locator: "img[src=y.png]#0", Line: 7},
		{RuleID: rules.RuleImgMissingAlt, DocumentID: "a_doc", Locator: "img[src=x.png]#0", Line: 2},
	}

	m := Build(candidates)
	require.Len(t, m.Findings, 3)

	assert.Equal(t, "a_doc", m.Findings[0].DocumentID)
	assert.Equal(t, 2, m.Findings[0].Line)
	assert.Equal(t, 7, m.Findings[1].Line)
	assert.Equal(t, "b_doc", m.Findings[2].DocumentID)

	assert.Equal(t, []string{"a_doc", "b_doc"}, m.Documents)
	assert.Equal(t, 2, m.Counts[rules.RuleImgMissingAlt])
	assert.Equal(t, 1, m.Counts[rules.RuleTableNoHeader])
}

func TestBuild_SeedsPendingWithManualReviewFromCatalog(t *testing.T) {
	candidates := []types.Candidate{
		{RuleID: rules.RuleLinkNewWindow, DocumentID: "doc", Locator: "a[href=/x]#0"},
		{RuleID: rules.RuleImgMissingAlt, DocumentID: "doc", Locator: "img[src=a.png]#0"},
	}

	m := Build(candidates)
	require.Len(t, m.Findings, 2)

	for _, f := range m.Findings {
		assert.Equal(t, types.StatusPending, f.Status)
		assert.Equal(t, FindingID(f.Key()), f.ID)
	}

	byRule := map[string]types.Finding{}
	for _, f := range m.Findings {
		byRule[f.RuleID] = f
	}
	assert.True(t, byRule[rules.RuleLinkNewWindow].ManualReview)
	assert.False(t, byRule[rules.RuleImgMissingAlt].ManualReview)
}

func TestBuild_RerunYieldsIdenticalIdentitySet(t *testing.T) {
	candidates := []types.Candidate{
		{RuleID: rules.RuleHeadingSkip, DocumentID: "doc", Locator: "h4#0", Line: 3},
		{RuleID: rules.RuleLinkVagueText, DocumentID: "doc", Locator: "a[href=/a]#0", Line: 8},
	}

	first := Build(candidates)
	second := Build(candidates)

	assert.Equal(t, first.Keys(), second.Keys())
	assert.Equal(t, first.Counts, second.Counts)
	for i := range first.Findings {
		assert.Equal(t, first.Findings[i].ID, second.Findings[i].ID)
	}
}
