// Package preview renders the difference between two table states.
package preview

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineType classifies a diff line.
type LineType string

const (
	LineContext LineType = "context"
	LineAdded   LineType = "added"
	LineRemoved LineType = "removed"
)

// Line is one row of the diff. OldRow/NewRow are 1-based row positions in
// the respective table, zero when the row is absent on that side.
type Line struct {
	Type   LineType `json:"type"`
	Text   string   `json:"text"`
	OldRow int      `json:"old_row,omitempty"`
	NewRow int      `json:"new_row,omitempty"`
}

// Diff compares two grids row by row. Each row is rendered as its cells
// joined by tabs.
func Diff(before, after [][]string) []Line {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(render(before), render(after))
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var lines []Line
	oldRow, newRow := 1, 1
	for _, d := range diffs {
		chunk := strings.Split(d.Text, "\n")
		if len(chunk) > 0 && chunk[len(chunk)-1] == "" {
			chunk = chunk[:len(chunk)-1]
		}
		for _, text := range chunk {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				lines = append(lines, Line{Type: LineContext, Text: text, OldRow: oldRow, NewRow: newRow})
				oldRow++
				newRow++
			case diffmatchpatch.DiffDelete:
				lines = append(lines, Line{Type: LineRemoved, Text: text, OldRow: oldRow})
				oldRow++
			case diffmatchpatch.DiffInsert:
				lines = append(lines, Line{Type: LineAdded, Text: text, NewRow: newRow})
				newRow++
			}
		}
	}
	return lines
}

// Changed reports whether any line differs.
func Changed(lines []Line) bool {
	for _, l := range lines {
		if l.Type != LineContext {
			return true
		}
	}
	return false
}

// Unified formats lines with "+", "-" and " " prefixes. Unchanged rows are
// dropped unless they sit within context rows of a change.
func Unified(lines []Line, context int) string {
	keep := make([]bool, len(lines))
	for i, l := range lines {
		if l.Type == LineContext {
			continue
		}
		for j := max(0, i-context); j <= min(len(lines)-1, i+context); j++ {
			keep[j] = true
		}
	}

	var sb strings.Builder
	for i, l := range lines {
		if !keep[i] {
			continue
		}
		switch l.Type {
		case LineAdded:
			sb.WriteString("+ ")
		case LineRemoved:
			sb.WriteString("- ")
		default:
			sb.WriteString("  ")
		}
		sb.WriteString(l.Text)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func render(grid [][]string) string {
	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(strings.Join(row, "\t"))
		sb.WriteByte('\n')
	}
	return sb.String()
}
