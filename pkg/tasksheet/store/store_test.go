package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func taskGrid() [][]string {
	return [][]string{
		{"ID", "Task", "Status", "Due"},
		{"T-1", "Write docs", "Open", "2024-06-01"},
		{"T-7", "Review", "Open", "2024-06-03"},
		{"T-9", "Ship", "Blocked", "2024-06-10"},
	}
}

// openStores returns every TableStore implementation seeded with grid.
func openStores(t *testing.T, grid [][]string) map[string]TableStore {
	t.Helper()
	return map[string]TableStore{
		"memory": NewMemoryStore(grid),
		"xlsx":   newTestXLSX(t, grid),
		"sqlite": newTestSQLite(t, grid),
	}
}

func newTestXLSX(t *testing.T, grid [][]string) *XLSXStore {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { f.Close() })
	for i, row := range grid {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}
	s, err := NewXLSXStore(f, "Sheet1")
	if err != nil {
		t.Fatalf("NewXLSXStore failed: %v", err)
	}
	return s
}

func newTestSQLite(t *testing.T, grid [][]string) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cols := ""
	for i, h := range grid[0] {
		if i > 0 {
			cols += ", "
		}
		cols += quoteIdent(h) + " TEXT"
	}
	if _, err := db.Exec("CREATE TABLE tasks (" + cols + ")"); err != nil {
		t.Fatalf("create table failed: %v", err)
	}
	s, err := NewSQLiteStore(db, "tasks")
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	for _, row := range grid[1:] {
		if err := s.AppendRow(row); err != nil {
			t.Fatalf("AppendRow failed: %v", err)
		}
	}
	return s
}

func TestStoreReadsHeadersAndRows(t *testing.T) {
	for name, s := range openStores(t, taskGrid()) {
		t.Run(name, func(t *testing.T) {
			headers, err := s.Headers()
			if err != nil {
				t.Fatalf("Headers failed: %v", err)
			}
			if !reflect.DeepEqual(headers, taskGrid()[0]) {
				t.Errorf("Headers = %v, expected %v", headers, taskGrid()[0])
			}
			rows, err := s.Rows()
			if err != nil {
				t.Fatalf("Rows failed: %v", err)
			}
			if !reflect.DeepEqual(rows, taskGrid()) {
				t.Errorf("Rows = %v, expected %v", rows, taskGrid())
			}
		})
	}
}

func TestStoreWriteCell(t *testing.T) {
	for name, s := range openStores(t, taskGrid()) {
		t.Run(name, func(t *testing.T) {
			if err := s.WriteCell(3, 2, "Done"); err != nil {
				t.Fatalf("WriteCell failed: %v", err)
			}
			rows, _ := s.Rows()
			want := taskGrid()
			want[2][2] = "Done"
			if !reflect.DeepEqual(rows, want) {
				t.Errorf("Rows = %v, expected %v", rows, want)
			}
		})
	}
}

func TestStoreWriteCellOutOfRange(t *testing.T) {
	tests := []struct {
		name     string
		row, col int
	}{
		{"row zero", 0, 1},
		{"row past end", 5, 1},
		{"negative column", 2, -1},
		{"column past width", 2, 4},
	}
	for name, s := range openStores(t, taskGrid()) {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				err := s.WriteCell(tt.row, tt.col, "x")
				if !errors.Is(err, ErrOutOfRange) {
					t.Errorf("WriteCell(%d, %d) error = %v, expected ErrOutOfRange", tt.row, tt.col, err)
				}
			})
		}
	}
}

func TestStoreDeleteRowShiftsUp(t *testing.T) {
	for name, s := range openStores(t, taskGrid()) {
		t.Run(name, func(t *testing.T) {
			if err := s.DeleteRow(2); err != nil {
				t.Fatalf("DeleteRow failed: %v", err)
			}
			rows, _ := s.Rows()
			want := append(taskGrid()[:1], taskGrid()[2:]...)
			if !reflect.DeepEqual(rows, want) {
				t.Errorf("Rows = %v, expected %v", rows, want)
			}
			if err := s.DeleteRow(9); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("DeleteRow(9) error = %v, expected ErrOutOfRange", err)
			}
		})
	}
}

func TestStoreAppendRow(t *testing.T) {
	for name, s := range openStores(t, taskGrid()) {
		t.Run(name, func(t *testing.T) {
			values := []string{"T-10", "New Task", "High", "2024-06-10"}
			if err := s.AppendRow(values); err != nil {
				t.Fatalf("AppendRow failed: %v", err)
			}
			rows, _ := s.Rows()
			if len(rows) != 5 {
				t.Fatalf("Expected 5 rows, got %d", len(rows))
			}
			if !reflect.DeepEqual(rows[4], values) {
				t.Errorf("Last row = %v, expected %v", rows[4], values)
			}
		})
	}
}

func TestMemoryStoreAcceptsAnyArity(t *testing.T) {
	s := NewMemoryStore(taskGrid())
	if err := s.AppendRow([]string{"only"}); err != nil {
		t.Fatalf("AppendRow short failed: %v", err)
	}
	if err := s.AppendRow([]string{"a", "b", "c", "d", "e"}); err != nil {
		t.Fatalf("AppendRow long failed: %v", err)
	}
	rows, _ := s.Rows()
	if len(rows[4]) != 1 || len(rows[5]) != 5 {
		t.Errorf("Rows not stored verbatim: %v", rows[4:])
	}
	// The widest row extends the writable extent; short rows are padded.
	if err := s.WriteCell(5, 4, "x"); err != nil {
		t.Fatalf("WriteCell into padded row failed: %v", err)
	}
	rows, _ = s.Rows()
	if rows[4][4] != "x" {
		t.Errorf("Expected padded write, got %v", rows[4])
	}
}

func TestMemoryStoreIsolatesInput(t *testing.T) {
	grid := taskGrid()
	s := NewMemoryStore(grid)
	grid[1][1] = "mutated"
	rows, _ := s.Rows()
	if rows[1][1] != "Write docs" {
		t.Errorf("store shares storage with its input")
	}
	rows[1][1] = "mutated"
	again, _ := s.Rows()
	if again[1][1] != "Write docs" {
		t.Errorf("Rows result shares storage with the store")
	}
}

func TestSQLiteStoreRejectsWideRow(t *testing.T) {
	s := newTestSQLite(t, taskGrid())
	err := s.AppendRow([]string{"a", "b", "c", "d", "e"})
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("AppendRow error = %v, expected ErrOutOfRange", err)
	}
	if err := s.AppendRow([]string{"T-11"}); err != nil {
		t.Fatalf("AppendRow short failed: %v", err)
	}
	rows, _ := s.Rows()
	if got := rows[len(rows)-1]; !reflect.DeepEqual(got, []string{"T-11", "", "", ""}) {
		t.Errorf("Short row = %v, expected NULL padding", got)
	}
}

func TestXLSXStoreSaveAndReopen(t *testing.T) {
	s := newTestXLSX(t, taskGrid())
	path := filepath.Join(t.TempDir(), "tasks.xlsx")
	if err := s.WriteCell(2, 2, "Done"); err != nil {
		t.Fatalf("WriteCell failed: %v", err)
	}
	if err := s.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}

	reopened, err := OpenXLSX(path, "")
	if err != nil {
		t.Fatalf("OpenXLSX failed: %v", err)
	}
	defer reopened.Close()
	if reopened.Sheet() != "Sheet1" {
		t.Errorf("Expected active sheet Sheet1, got %q", reopened.Sheet())
	}
	rows, _ := reopened.Rows()
	if rows[1][2] != "Done" {
		t.Errorf("Expected saved value Done, got %q", rows[1][2])
	}
	rng, err := reopened.Range()
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}
	if rng != "A1:D4" {
		t.Errorf("Range = %q, expected A1:D4", rng)
	}
}

func TestOpenXLSXUnknownSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if _, err := NewXLSXStore(f, "Missing"); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("error = %v, expected ErrSheetNotFound", err)
	}
}

func TestDataRange(t *testing.T) {
	tests := []struct {
		rows     [][]string
		expected string
	}{
		{nil, ""},
		{[][]string{{"", ""}, {""}}, ""},
		{[][]string{{"a"}}, "A1:A1"},
		{[][]string{{}, {"", "x", "y"}, {"", "", "", "z"}}, "B2:D3"},
	}

	for _, tt := range tests {
		if got := DataRange(tt.rows); got != tt.expected {
			t.Errorf("DataRange(%v) = %q, expected %q", tt.rows, got, tt.expected)
		}
	}
}
