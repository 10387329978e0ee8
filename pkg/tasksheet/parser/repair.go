package parser

import (
	"encoding/json"
	"strings"
)

// Repairer parses a JSON candidate, with a fallback for damaged input.
type Repairer interface {
	// TryParse decodes candidate as-is.
	TryParse(candidate string) (map[string]json.RawMessage, error)
	// TryRepairAndParse makes one repair attempt and decodes the result.
	TryRepairAndParse(candidate string) (map[string]json.RawMessage, error)
}

// ClosingRepairer recovers output cut off inside the top-level actions array
// by closing the array and the enclosing object once.
//
// It only helps when the cut falls between array elements; a value cut in
// half stays unparseable.
type ClosingRepairer struct{}

// TryParse decodes candidate as a JSON object.
func (ClosingRepairer) TryParse(candidate string) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// TryRepairAndParse appends "]}" after dropping trailing whitespace and a
// dangling comma, then decodes once more.
func (r ClosingRepairer) TryRepairAndParse(candidate string) (map[string]json.RawMessage, error) {
	s := strings.TrimRight(candidate, " \t\r\n")
	s = strings.TrimSuffix(s, ",")
	return r.TryParse(s + "]}")
}

var _ Repairer = ClosingRepairer{}
