package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckTableHeaders_FlagsHeaderlessFirstRow(t *testing.T) {
	d := mustLoad(t, `<table>
<tr><td>Name</td><td>Score</td></tr>
<tr><td>Ada</td><td>98</td></tr>
<tr><td>Grace</td><td>95</td></tr>
</table>`)

	out, err := checkTableHeaders(d)
	require.NoError(t, err)
	require.Len(t, out, 1)

	// One finding per table, however many data rows it has.
	assert.Equal(t, RuleTableNoHeader, out[0].RuleID)
	assert.Equal(t, "table#0", out[0].Locator)
	assert.Equal(t, 1, out[0].Line)
	assert.Contains(t, out[0].Suggestion, `<th scope="col">`)
}

func TestCheckTableHeaders_HeaderRowPasses(t *testing.T) {
	d := mustLoad(t, `<table>
<tr><th>Name</th><th>Score</th></tr>
<tr><td>Ada</td><td>98</td></tr>
</table>`)

	out, err := checkTableHeaders(d)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCheckTableHeaders_RowlessTableSkipped(t *testing.T) {
	d := mustLoad(t, `<table></table>`)

	out, err := checkTableHeaders(d)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCheckTableHeaders_MultipleTablesGetOrdinals(t *testing.T) {
	d := mustLoad(t, `<table><tr><th>ok</th></tr></table>
<table><tr><td>bad</td></tr></table>
<table><tr><td>also bad</td></tr></table>`)

	out, err := checkTableHeaders(d)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "table#1", out[0].Locator)
	assert.Equal(t, "table#2", out[1].Locator)
}
