package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/tasksheet-go/pkg/tasksheet/models"
)

// ErrMalformedResponse indicates no parseable JSON document was found, even
// after the repair attempt.
var ErrMalformedResponse = errors.New("malformed response")

// ErrInvalidSchema indicates the document lacks an "actions" array.
var ErrInvalidSchema = errors.New("invalid schema")

// Options configures response parsing.
type Options struct {
	// Addressing selects which fields name the target row.
	Addressing models.AddressingMode
	// Repairer parses the candidate. Nil means ClosingRepairer.
	Repairer Repairer
}

// Result is a parsed batch together with how it was obtained.
type Result struct {
	Batch    models.ActionBatch
	Source   Source
	Repaired bool
}

// Parse extracts and decodes the action batch in raw.
// On error the returned batch is empty.
func Parse(raw string, opts Options) (Result, error) {
	repairer := opts.Repairer
	if repairer == nil {
		repairer = ClosingRepairer{}
	}

	texts, source := candidates(raw)
	res := Result{Source: source}
	if texts[0] == "" {
		return res, fmt.Errorf("%w: no JSON content (%s)", ErrMalformedResponse, source)
	}

	obj, err := parseFirst(repairer.TryParse, texts)
	if err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return res, fmt.Errorf("%w: top-level %s is not an object", ErrInvalidSchema, typeErr.Value)
		}
		obj, err = parseFirst(repairer.TryRepairAndParse, texts)
		if err != nil {
			return res, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		res.Repaired = true
	}

	rawActions, ok := obj["actions"]
	if !ok {
		return res, fmt.Errorf("%w: missing \"actions\"", ErrInvalidSchema)
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(rawActions, &elems); err != nil || elems == nil {
		return res, fmt.Errorf("%w: \"actions\" is not an array", ErrInvalidSchema)
	}

	mode := opts.Addressing
	if mode == "" {
		mode = models.AddressByPosition
	}
	batch := models.ActionBatch{Actions: make([]models.Action, 0, len(elems))}
	for i, elem := range elems {
		action, kind, err := decodeAction(elem, mode)
		if err != nil {
			batch.Skipped = append(batch.Skipped, models.SkippedAction{Index: i, Kind: kind, Reason: err.Error()})
			continue
		}
		batch.Actions = append(batch.Actions, action)
	}
	res.Batch = batch
	return res, nil
}

// parseFirst returns the first text that parse accepts. On failure it
// returns the error for the first text.
func parseFirst(parse func(string) (map[string]json.RawMessage, error), texts []string) (map[string]json.RawMessage, error) {
	var firstErr error
	for _, text := range texts {
		obj, err := parse(text)
		if err == nil {
			return obj, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// wireAction mirrors one element of the actions array.
type wireAction struct {
	Action string            `json:"action"`
	Row    json.RawMessage   `json:"row"`
	Key    json.RawMessage   `json:"key"`
	ID     json.RawMessage   `json:"id"`
	Column string            `json:"column"`
	Value  json.RawMessage   `json:"value"`
	Values []json.RawMessage `json:"values"`
}

func decodeAction(elem json.RawMessage, mode models.AddressingMode) (models.Action, string, error) {
	var w wireAction
	if err := json.Unmarshal(elem, &w); err != nil {
		return models.Action{}, "", fmt.Errorf("decode element: %v", err)
	}
	kind := strings.ToLower(strings.TrimSpace(w.Action))

	switch models.Kind(kind) {
	case models.KindUpdate:
		target, err := locator(w, mode)
		if err != nil {
			return models.Action{}, w.Action, err
		}
		value, _ := scalar(w.Value)
		return models.Update(target, w.Column, value), w.Action, nil
	case models.KindDelete:
		target, err := locator(w, mode)
		if err != nil {
			return models.Action{}, w.Action, err
		}
		return models.Delete(target), w.Action, nil
	case models.KindAdd:
		values := make([]string, len(w.Values))
		for i, v := range w.Values {
			values[i], _ = scalar(v)
		}
		return models.Add(values...), w.Action, nil
	default:
		return models.Action{}, w.Action, fmt.Errorf("unknown action %q", w.Action)
	}
}

// locator reads the target row according to mode.
func locator(w wireAction, mode models.AddressingMode) (models.RowLocator, error) {
	if mode == models.AddressByKey {
		for _, field := range []json.RawMessage{w.Key, w.ID, w.Row} {
			if key, ok := scalar(field); ok && key != "" {
				return models.ByKey(key), nil
			}
		}
		return models.RowLocator{}, errors.New("missing row key")
	}

	s, ok := scalar(w.Row)
	if !ok {
		return models.RowLocator{}, errors.New("missing row")
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		f, ferr := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if ferr != nil || f != float64(int(f)) {
			return models.RowLocator{}, fmt.Errorf("row %q is not an integer", s)
		}
		n = int(f)
	}
	return models.ByPosition(n), nil
}

// scalar renders a JSON scalar as a cell string. Strings are unquoted,
// numbers and booleans keep their JSON text, null and absent values are
// empty. Objects and arrays are kept as compact JSON.
func scalar(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s, true
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err == nil {
		return buf.String(), true
	}
	return string(raw), true
}
