// Package store provides tabular data stores with a header row.
//
// Row positions are 1-based and count the header as row 1, so the first data
// row is at position 2. Column indexes are 0-based offsets into the header.
package store

import (
	"errors"
	"fmt"
)

// ErrOutOfRange indicates a row or column outside the current table extent.
var ErrOutOfRange = errors.New("out of range")

// TableStore is a 2-D grid of string cells whose first row is the header.
// Every mutation is visible to the next read.
type TableStore interface {
	// Headers returns the header row.
	Headers() ([]string, error)
	// Rows returns all rows, the header row first.
	Rows() ([][]string, error)
	// WriteCell sets the cell at row position and column index.
	WriteCell(row, col int, value string) error
	// DeleteRow removes the row at position, shifting later rows up.
	DeleteRow(row int) error
	// AppendRow adds a row after the last row. Arity is not checked.
	AppendRow(values []string) error
}

// Saver is implemented by stores that buffer changes until saved.
type Saver interface {
	Save() error
}

// RangeError describes an out-of-range access.
type RangeError struct {
	Op  string // "write", "delete", "append"
	Row int
	Col int // -1 when not applicable
	Err error
}

func (e *RangeError) Error() string {
	if e.Col < 0 {
		return fmt.Sprintf("%s row %d: %v", e.Op, e.Row, e.Err)
	}
	return fmt.Sprintf("%s row %d col %d: %v", e.Op, e.Row, e.Col, e.Err)
}

func (e *RangeError) Unwrap() error {
	return e.Err
}

func outOfRange(op string, row, col int) error {
	return &RangeError{Op: op, Row: row, Col: col, Err: ErrOutOfRange}
}

// width returns the widest row length of grid.
func width(grid [][]string) int {
	w := 0
	for _, r := range grid {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}
