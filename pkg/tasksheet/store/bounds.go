package store

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// DataRange returns the bounding range of non-empty cells in rows as an
// Excel reference like "A1:D10". It returns "" when every cell is empty.
func DataRange(rows [][]string) string {
	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return ""
	}
	startCell, _ := excelize.CoordinatesToCellName(minCol+1, minRow+1)
	endCell, _ := excelize.CoordinatesToCellName(maxCol+1, maxRow+1)
	return fmt.Sprintf("%s:%s", startCell, endCell)
}

// findDataBounds finds the bounding box of non-empty cells (0-based).
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell == "" {
				continue
			}
			if minRow < 0 || rowIdx < minRow {
				minRow = rowIdx
			}
			if rowIdx > maxRow {
				maxRow = rowIdx
			}
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	return
}
