package models

// Table is a point-in-time snapshot of a table store.
type Table struct {
	// Headers is the header row, defining the column order.
	Headers []string `json:"headers"`
	// Rows contains data rows only (the header row excluded).
	Rows [][]string `json:"rows,omitempty"`
}

// NewTable splits a full grid into header and data rows.
// The first row of grid is the header.
func NewTable(grid [][]string) Table {
	if len(grid) == 0 {
		return Table{}
	}
	return Table{Headers: grid[0], Rows: grid[1:]}
}

// Grid returns the header followed by the data rows.
func (t Table) Grid() [][]string {
	grid := make([][]string, 0, len(t.Rows)+1)
	grid = append(grid, t.Headers)
	return append(grid, t.Rows...)
}

// ColumnIndex returns the 0-based index of the column named name, or -1.
// Matching is exact.
func (t Table) ColumnIndex(name string) int {
	return IndexOf(t.Headers, name)
}

// IndexOf returns the index of the first element equal to name, or -1.
func IndexOf(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := Table{Headers: append([]string(nil), t.Headers...)}
	if t.Rows != nil {
		out.Rows = make([][]string, len(t.Rows))
		for i, r := range t.Rows {
			out.Rows[i] = append([]string(nil), r...)
		}
	}
	return out
}
