// Package render draws result tables as text lines with lipgloss/table.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/nathoo/dicelab/table"
)

// DefaultMaxRows is the row limit used when Options.MaxRows is not positive.
const DefaultMaxRows = 20

// Options controls how a table is drawn.
type Options struct {
	MaxRows int  // rows shown before the "... N more rows" trailer
	Styled  bool // bold header and dimmed index cells, for the TUI
}

var (
	styleHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleIndex  = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
	styleBorder = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Table renders t as lines of text. The header row holds the index names
// followed by the column labels; each body row holds the row key's levels
// followed by the values.
func Table[V any](t *table.Table[V], opts Options) []string {
	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}

	names := t.IndexNames()
	headers := append([]string(nil), names...)
	for _, c := range t.Columns() {
		headers = append(headers, c.String())
	}

	rows, cols := t.Shape()
	shown := min(rows, maxRows)
	body := make([][]string, 0, shown)
	for i, key := range t.RowKeys()[:shown] {
		cells := make([]string, 0, len(key)+cols)
		for _, l := range key {
			cells = append(cells, l.String())
		}
		values, _ := t.Row(i)
		for _, v := range values {
			cells = append(cells, Value(v))
		}
		body = append(body, cells)
	}

	tbl := ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(body...)

	levels := len(names)
	if opts.Styled {
		tbl = tbl.BorderStyle(styleBorder).StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == ltable.HeaderRow:
				return styleHeader
			case col < levels:
				return styleIndex
			default:
				return styleCell
			}
		})
	} else {
		tbl = tbl.StyleFunc(func(row, col int) lipgloss.Style {
			return styleCell
		})
	}

	lines := strings.Split(tbl.Render(), "\n")
	if rows > shown {
		lines = append(lines, fmt.Sprintf("... %d more rows", rows-shown))
	}
	return lines
}

// Value formats a single cell. Floats use the shortest representation that
// round-trips.
func Value(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
