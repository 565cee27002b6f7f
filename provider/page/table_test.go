package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const banksPage = `<!doctype html>
<html>
<body>
<h2>By market capitalization</h2>
<table class="wikitable sortable">
<tbody>
<tr><th>Rank</th><th>Bank name</th><th>Market cap<br>(US$ billion)<sup>[1]</sup></th></tr>
<tr><td>1</td><td><a href="/wiki/JPMorgan_Chase">JPMorgan Chase</a></td><td>432.92</td></tr>
<tr><td>2</td><td>Bank of America<sup class="reference">[2]</sup></td><td>231.52</td></tr>
</tbody>
</table>
<table class="second">
<tr><th>Other</th></tr>
<tr><td>ignored</td></tr>
</table>
</body>
</html>`

func TestTableParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("first table", func(t *testing.T) {
		t.Parallel()

		table, err := NewTableParser("").Parse([]byte(banksPage))
		require.NoError(t, err)

		assert.Equal(t, []string{"Rank", "Bank name", "Market cap (US$ billion)"}, table.Columns)
		assert.Equal(
			t,
			[][]string{
				{"1", "JPMorgan Chase", "432.92"},
				{"2", "Bank of America", "231.52"},
			},
			table.Rows,
		)
	})

	t.Run("selector", func(t *testing.T) {
		t.Parallel()

		table, err := NewTableParser("table.second").Parse([]byte(banksPage))
		require.NoError(t, err)

		assert.Equal(t, []string{"Other"}, table.Columns)
		assert.Equal(t, [][]string{{"ignored"}}, table.Rows)
	})

	t.Run("no table", func(t *testing.T) {
		t.Parallel()

		_, err := NewTableParser("").Parse([]byte("<html><body><p>nothing</p></body></html>"))

		assert.ErrorIs(t, err, ErrNoTable)
	})

	t.Run("no header row", func(t *testing.T) {
		t.Parallel()

		_, err := NewTableParser("").Parse([]byte("<table><tr><td>1</td></tr></table>"))

		assert.ErrorIs(t, err, ErrNoTable)
	})

	t.Run("header only", func(t *testing.T) {
		t.Parallel()

		table, err := NewTableParser("").Parse([]byte("<table><tr><th>Name</th></tr></table>"))
		require.NoError(t, err)

		assert.Equal(t, []string{"Name"}, table.Columns)
		assert.Empty(t, table.Rows)
	})
}
