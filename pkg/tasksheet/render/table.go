// Package render formats table rows for the terminal.
package render

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ukaji3/tasksheet-go/pkg/tasksheet/models"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// Table renders t with a leading "#" column holding each row's position
// (the header being row 1), the numbers accepted by position addressing.
func Table(t models.Table) string {
	headers := append([]string{"#"}, t.Headers...)
	width := len(headers)
	for _, r := range t.Rows {
		if len(r)+1 > width {
			width = len(r) + 1
		}
	}
	for len(headers) < width {
		headers = append(headers, "")
	}

	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]string, width)
		row[0] = strconv.Itoa(i + 2)
		copy(row[1:], r)
		rows[i] = row
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}
