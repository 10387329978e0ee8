// Package prompt composes the model request for a table edit.
package prompt

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ukaji3/tasksheet-go/pkg/tasksheet/models"
)

// Input holds everything the prompt embeds.
type Input struct {
	Table       models.Table
	Instruction string
	Addressing  models.AddressingMode
	// IdentityColumn names the key column in key mode. Empty means the first column.
	IdentityColumn string
}

const positionExample = `{
  "actions": [
    { "action": "update", "row": 2, "column": "Due", "value": "2024-06-01" },
    { "action": "delete", "row": 4 },
    { "action": "add", "values": ["New Task", "Details", "High", "2024-06-10"] }
  ]
}`

const keyExample = `{
  "actions": [
    { "action": "update", "key": "T-7", "column": "Due", "value": "2024-06-01" },
    { "action": "delete", "key": "T-9" },
    { "action": "add", "values": ["T-10", "New Task", "High", "2024-06-10"] }
  ]
}`

// Build renders the prompt text: the header row, the full table data, the
// instruction and a literal example of the expected output.
func Build(in Input) (string, error) {
	headers, err := json.Marshal(nonNil(in.Table.Headers))
	if err != nil {
		return "", fmt.Errorf("encode headers: %w", err)
	}
	data, err := json.Marshal(typedGrid(in.Table.Grid()))
	if err != nil {
		return "", fmt.Errorf("encode table: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "The sheet columns are: %s.\n", headers)
	fmt.Fprintf(&sb, "The sheet data, header row first, is: %s.\n", data)
	fmt.Fprintf(&sb, "User request: %s\n", strings.TrimSpace(in.Instruction))
	sb.WriteString("Identify only the rows that must change and return only those changes.\n")

	if in.Addressing == models.AddressByKey {
		id := in.IdentityColumn
		if id == "" && len(in.Table.Headers) > 0 {
			id = in.Table.Headers[0]
		}
		fmt.Fprintf(&sb, "Identify rows by their %q value in the \"key\" field.\n", id)
		sb.WriteString("Respond with JSON in exactly this format:\n")
		sb.WriteString(keyExample)
	} else {
		sb.WriteString("Identify rows by their 1-based row number in the \"row\" field; the header is row 1.\n")
		sb.WriteString("Respond with JSON in exactly this format:\n")
		sb.WriteString(positionExample)
	}
	sb.WriteString("\n")
	return sb.String(), nil
}

// typedGrid converts cells to JSON values so numbers are not quoted.
func typedGrid(grid [][]string) [][]interface{} {
	out := make([][]interface{}, len(grid))
	for i, row := range grid {
		cells := make([]interface{}, len(row))
		for j, c := range row {
			cells[j] = parseValue(c)
		}
		out[i] = cells
	}
	return out
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) interface{} {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
