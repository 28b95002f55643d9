package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table renders rows with simple spacing alignment and no borders.
type Table struct {
	rows       [][]string
	colWidths  []int
	colPadding int
}

// NewTable creates a new table with the specified number of columns
func NewTable(cols int) *Table {
	return &Table{
		colWidths:  make([]int, cols),
		colPadding: 2,
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.colWidths))
	for i := 0; i < len(t.colWidths) && i < len(cells); i++ {
		row[i] = cells[i]
		if w := lipgloss.Width(cells[i]); w > t.colWidths[i] {
			t.colWidths[i] = w
		}
	}
	t.rows = append(t.rows, row)
}

// String renders the table as a string
func (t *Table) String() string {
	if len(t.rows) == 0 {
		return ""
	}

	var sb strings.Builder
	padding := strings.Repeat(" ", t.colPadding)

	for _, row := range t.rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString(padding)
			}
			sb.WriteString(cell)
			// Pad to column width except for the last column.
			if i < len(row)-1 {
				sb.WriteString(strings.Repeat(" ", t.colWidths[i]-lipgloss.Width(cell)))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// Column describes one column of an issue table.
type Column struct {
	Header   string
	MinWidth int
	// Flex columns share whatever width is left after fixed columns.
	Flex bool
}

// RenderIssueTable renders rows under headers with a minimal lipgloss border,
// fitting flexible columns into the display width.
func RenderIssueTable(display *DisplayContext, columns []Column, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	widths := columnWidths(display, columns, rows)
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.Header
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(true).
		BorderStyle(Muted).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Width(widths[col])
			if col < len(columns)-1 {
				style = style.PaddingRight(2)
			}
			if row == table.HeaderRow {
				return style.Inherit(Bold)
			}
			return style
		}).
		Rows(rows...)

	return tbl.Render()
}

func columnWidths(display *DisplayContext, columns []Column, rows [][]string) []int {
	const padding = 2
	widths := make([]int, len(columns))
	fixed := 0
	flex := 0

	for i, c := range columns {
		w := lipgloss.Width(c.Header)
		for _, r := range rows {
			if i < len(r) {
				if cw := lipgloss.Width(r[i]); cw > w {
					w = cw
				}
			}
		}
		if w < c.MinWidth {
			w = c.MinWidth
		}
		widths[i] = w
		if c.Flex {
			flex++
		} else {
			fixed += w + padding
		}
	}

	if flex == 0 {
		return widths
	}

	remaining := display.AvailableWidth(0) - fixed
	share := remaining / flex
	for i, c := range columns {
		if !c.Flex {
			continue
		}
		if share < c.MinWidth {
			share = c.MinWidth
		}
		if widths[i] > share {
			widths[i] = share
		}
	}
	return widths
}
