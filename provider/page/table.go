package page

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sig-0/largestbanks/storage/types"
)

const DefaultSelector = "table"

var ErrNoTable = errors.New("no matching table found")

// TableParser extracts the first table matching a CSS selector from an HTML document
type TableParser struct {
	selector string
}

// NewTableParser creates a new table parser for the given CSS selector.
// An empty selector matches any table
func NewTableParser(selector string) *TableParser {
	if strings.TrimSpace(selector) == "" {
		selector = DefaultSelector
	}

	return &TableParser{
		selector: selector,
	}
}

// Parse parses the first matching table in the document.
// The first row holding header cells becomes the column set,
// every following row with data cells becomes a row
func (p *TableParser) Parse(doc []byte) (*types.Table, error) {
	root, err := goquery.NewDocumentFromReader(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("unable to construct query doc: %w", err)
	}

	sel := root.Find(p.selector).First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoTable, p.selector)
	}

	if goquery.NodeName(sel) != "table" {
		sel = sel.Find("table").First()

		if sel.Length() == 0 {
			return nil, fmt.Errorf("%w: %q", ErrNoTable, p.selector)
		}
	}

	table := &types.Table{
		Rows: make([][]string, 0, 16),
	}

	// Only rows of this table, nested tables are skipped.
	// The HTML parser always wraps bare rows in a tbody
	sel.ChildrenFiltered("thead, tbody, tfoot").
		ChildrenFiltered("tr").
		Each(func(_ int, tr *goquery.Selection) {
			cells := tr.ChildrenFiltered("th, td")
			if cells.Length() == 0 {
				return
			}

			if table.Columns == nil && cells.Filter("td").Length() == 0 {
				table.Columns = cellTexts(cells)

				return
			}

			if table.Columns == nil {
				// Data before any header, nothing to name the cells with
				return
			}

			table.Rows = append(table.Rows, cellTexts(cells))
		})

	if len(table.Columns) == 0 {
		return nil, fmt.Errorf("%w: table has no header row", ErrNoTable)
	}

	return table, nil
}

func cellTexts(cells *goquery.Selection) []string {
	out := make([]string, 0, cells.Length())

	cells.Each(func(_ int, cell *goquery.Selection) {
		// Drop footnote references and hidden sort keys
		cell.Find("sup, style, .sortkey, [style*='display:none']").Remove()
		cell.Find("br").ReplaceWithHtml(" ")

		out = append(out, strings.Join(strings.Fields(cell.Text()), " "))
	})

	return out
}
