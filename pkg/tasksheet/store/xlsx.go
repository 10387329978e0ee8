package store

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound indicates the requested worksheet does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// XLSXStore is a TableStore over one worksheet of an xlsx workbook.
// Changes are held by the workbook until Save is called.
type XLSXStore struct {
	f     *excelize.File
	sheet string
	path  string
}

// OpenXLSX opens the workbook at path. An empty sheet selects the active sheet.
func OpenXLSX(path, sheet string) (*XLSXStore, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	s, err := NewXLSXStore(f, sheet)
	if err != nil {
		f.Close()
		return nil, err
	}
	s.path = path
	return s, nil
}

// NewXLSXStore wraps an already opened workbook.
func NewXLSXStore(f *excelize.File, sheet string) (*XLSXStore, error) {
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	return &XLSXStore{f: f, sheet: sheet}, nil
}

// Sheet returns the worksheet name.
func (s *XLSXStore) Sheet() string {
	return s.sheet
}

// Headers returns the first row of the sheet.
func (s *XLSXStore) Headers() ([]string, error) {
	rows, err := s.f.GetRows(s.sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Rows returns all rows of the sheet, the header first.
// Trailing empty cells of each row are trimmed by excelize.
func (s *XLSXStore) Rows() ([][]string, error) {
	return s.f.GetRows(s.sheet)
}

// WriteCell sets the cell at (row, col).
func (s *XLSXStore) WriteCell(row, col int, value string) error {
	rows, err := s.f.GetRows(s.sheet)
	if err != nil {
		return err
	}
	if row < 1 || row > len(rows) || col < 0 || col >= width(rows) {
		return outOfRange("write", row, col)
	}
	cell, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return err
	}
	return s.f.SetCellStr(s.sheet, cell, value)
}

// DeleteRow removes the row and shifts the rows below it up.
func (s *XLSXStore) DeleteRow(row int) error {
	rows, err := s.f.GetRows(s.sheet)
	if err != nil {
		return err
	}
	if row < 1 || row > len(rows) {
		return outOfRange("delete", row, -1)
	}
	return s.f.RemoveRow(s.sheet, row)
}

// AppendRow writes values into the row after the last occupied row.
func (s *XLSXStore) AppendRow(values []string) error {
	rows, err := s.f.GetRows(s.sheet)
	if err != nil {
		return err
	}
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return err
	}
	row := append([]string(nil), values...)
	return s.f.SetSheetRow(s.sheet, cell, &row)
}

// Range returns the occupied cell range of the sheet (e.g. "A1:D10"),
// or an empty string for an empty sheet.
func (s *XLSXStore) Range() (string, error) {
	rows, err := s.f.GetRows(s.sheet)
	if err != nil {
		return "", err
	}
	return DataRange(rows), nil
}

// Save writes the workbook back to the file it was opened from.
func (s *XLSXStore) Save() error {
	if s.path == "" {
		return s.f.Save()
	}
	return s.f.SaveAs(s.path)
}

// SaveAs writes the workbook to path and makes it the save target.
func (s *XLSXStore) SaveAs(path string) error {
	if err := s.f.SaveAs(path); err != nil {
		return err
	}
	s.path = path
	return nil
}

// Close releases the workbook.
func (s *XLSXStore) Close() error {
	return s.f.Close()
}

var (
	_ TableStore = (*XLSXStore)(nil)
	_ Saver      = (*XLSXStore)(nil)
)
