package store

// MemoryStore keeps the whole table in memory.
type MemoryStore struct {
	grid [][]string
}

// NewMemoryStore creates a store over a copy of grid (header first).
func NewMemoryStore(grid [][]string) *MemoryStore {
	return &MemoryStore{grid: cloneGrid(grid)}
}

// Headers returns the header row.
func (m *MemoryStore) Headers() ([]string, error) {
	if len(m.grid) == 0 {
		return nil, nil
	}
	return append([]string(nil), m.grid[0]...), nil
}

// Rows returns a copy of all rows.
func (m *MemoryStore) Rows() ([][]string, error) {
	return cloneGrid(m.grid), nil
}

// WriteCell sets a cell. A row shorter than col is padded with empty cells.
func (m *MemoryStore) WriteCell(row, col int, value string) error {
	if row < 1 || row > len(m.grid) || col < 0 || col >= width(m.grid) {
		return outOfRange("write", row, col)
	}
	r := m.grid[row-1]
	for len(r) <= col {
		r = append(r, "")
	}
	r[col] = value
	m.grid[row-1] = r
	return nil
}

// DeleteRow removes a row.
func (m *MemoryStore) DeleteRow(row int) error {
	if row < 1 || row > len(m.grid) {
		return outOfRange("delete", row, -1)
	}
	m.grid = append(m.grid[:row-1], m.grid[row:]...)
	return nil
}

// AppendRow adds a row at the end.
func (m *MemoryStore) AppendRow(values []string) error {
	m.grid = append(m.grid, append([]string(nil), values...))
	return nil
}

func cloneGrid(grid [][]string) [][]string {
	if grid == nil {
		return nil
	}
	out := make([][]string, len(grid))
	for i, r := range grid {
		out[i] = append([]string(nil), r...)
	}
	return out
}
