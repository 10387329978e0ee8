package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is a TableStore over one SQLite table. Column names form the
// header and rows are ordered by rowid.
type SQLiteStore struct {
	db    *sql.DB
	table string
	owned bool
}

// OpenSQLite opens the database at path and binds the store to table.
func OpenSQLite(path, table string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	s, err := NewSQLiteStore(db, table)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// NewSQLiteStore binds a store to an existing table of db.
func NewSQLiteStore(db *sql.DB, table string) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db, table: table}
	if _, err := s.Headers(); err != nil {
		return nil, fmt.Errorf("table %q: %w", table, err)
	}
	return s, nil
}

// Headers returns the column names of the table.
func (s *SQLiteStore) Headers() ([]string, error) {
	rows, err := s.db.Query("SELECT * FROM " + quoteIdent(s.table) + " LIMIT 0")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return rows.Columns()
}

// Rows returns the header followed by every row in rowid order.
// NULL cells read as empty strings.
func (s *SQLiteStore) Rows() ([][]string, error) {
	rows, err := s.db.Query("SELECT * FROM " + quoteIdent(s.table) + " ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	grid := [][]string{cols}
	cells := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row := make([]string, len(cols))
		for i, c := range cells {
			row[i] = c.String
		}
		grid = append(grid, row)
	}
	return grid, rows.Err()
}

// WriteCell updates one column of the row at position row.
func (s *SQLiteStore) WriteCell(row, col int, value string) error {
	cols, err := s.Headers()
	if err != nil {
		return err
	}
	if col < 0 || col >= len(cols) {
		return outOfRange("write", row, col)
	}
	id, err := s.rowid(row)
	if err != nil {
		return err
	}
	if id == 0 {
		return outOfRange("write", row, col)
	}
	_, err = s.db.Exec("UPDATE "+quoteIdent(s.table)+" SET "+quoteIdent(cols[col])+" = ? WHERE rowid = ?", value, id)
	return err
}

// DeleteRow deletes the row at position row.
func (s *SQLiteStore) DeleteRow(row int) error {
	id, err := s.rowid(row)
	if err != nil {
		return err
	}
	if id == 0 {
		return outOfRange("delete", row, -1)
	}
	_, err = s.db.Exec("DELETE FROM "+quoteIdent(s.table)+" WHERE rowid = ?", id)
	return err
}

// AppendRow inserts a row. Missing trailing values are stored as NULL; a row
// wider than the table is rejected because columns cannot be added implicitly.
func (s *SQLiteStore) AppendRow(values []string) error {
	cols, err := s.Headers()
	if err != nil {
		return err
	}
	if len(values) > len(cols) {
		return outOfRange("append", 0, len(values)-1)
	}
	if len(values) == 0 {
		_, err = s.db.Exec("INSERT INTO " + quoteIdent(s.table) + " DEFAULT VALUES")
		return err
	}
	names := make([]string, len(values))
	marks := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		names[i] = quoteIdent(cols[i])
		marks[i] = "?"
		args[i] = v
	}
	_, err = s.db.Exec(
		"INSERT INTO "+quoteIdent(s.table)+" ("+strings.Join(names, ", ")+") VALUES ("+strings.Join(marks, ", ")+")",
		args...,
	)
	return err
}

// Close closes the database when the store opened it.
func (s *SQLiteStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// rowid maps a row position (header is row 1) to the SQLite rowid.
// It returns 0 when no such row exists.
func (s *SQLiteStore) rowid(row int) (int64, error) {
	if row < 2 {
		return 0, nil
	}
	var id int64
	err := s.db.QueryRow("SELECT rowid FROM "+quoteIdent(s.table)+" ORDER BY rowid LIMIT 1 OFFSET ?", row-2).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return id, err
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

var _ TableStore = (*SQLiteStore)(nil)
