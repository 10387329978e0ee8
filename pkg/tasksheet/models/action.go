// Package models defines data structures for row-level table edits.
package models

import (
	"fmt"
	"strconv"
)

// Kind identifies the form of an Action.
type Kind string

const (
	// KindUpdate writes a single cell of an existing row.
	KindUpdate Kind = "update"
	// KindDelete removes an existing row.
	KindDelete Kind = "delete"
	// KindAdd appends a new row at the end of the table.
	KindAdd Kind = "add"
)

// AddressingMode selects how a RowLocator names its target row.
type AddressingMode string

const (
	// AddressByPosition targets rows by 1-based position, the header being row 1.
	AddressByPosition AddressingMode = "position"
	// AddressByKey targets rows by the value of the identity column.
	AddressByKey AddressingMode = "key"
)

// ParseAddressingMode converts a user-supplied mode name.
func ParseAddressingMode(s string) (AddressingMode, error) {
	switch AddressingMode(s) {
	case AddressByPosition, "":
		return AddressByPosition, nil
	case AddressByKey:
		return AddressByKey, nil
	default:
		return "", fmt.Errorf("invalid addressing mode: %s (must be position or key)", s)
	}
}

// RowLocator names the row an Update or Delete applies to.
type RowLocator struct {
	// Mode selects which of Position or Key is meaningful.
	Mode AddressingMode `json:"mode"`
	// Position is the 1-based row position (header is row 1).
	Position int `json:"position,omitempty"`
	// Key is the identity column value of the target row.
	Key string `json:"key,omitempty"`
}

// ByPosition returns a locator for the row at position n.
func ByPosition(n int) RowLocator {
	return RowLocator{Mode: AddressByPosition, Position: n}
}

// ByKey returns a locator for the first row whose identity cell equals key.
func ByKey(key string) RowLocator {
	return RowLocator{Mode: AddressByKey, Key: key}
}

func (l RowLocator) String() string {
	if l.Mode == AddressByKey {
		return "key " + strconv.Quote(l.Key)
	}
	return "row " + strconv.Itoa(l.Position)
}

// Action is one structured row-edit instruction.
//
// Update uses Target, Column and Value. Delete uses Target. Add uses Values.
type Action struct {
	Kind   Kind       `json:"action"`
	Target RowLocator `json:"target,omitzero"`
	Column string     `json:"column,omitempty"`
	Value  string     `json:"value,omitempty"`
	Values []string   `json:"values,omitempty"`
}

// Update returns an Update action.
func Update(target RowLocator, column, value string) Action {
	return Action{Kind: KindUpdate, Target: target, Column: column, Value: value}
}

// Delete returns a Delete action.
func Delete(target RowLocator) Action {
	return Action{Kind: KindDelete, Target: target}
}

// Add returns an Add action. Values are kept as given.
func Add(values ...string) Action {
	return Action{Kind: KindAdd, Values: values}
}

func (a Action) String() string {
	switch a.Kind {
	case KindUpdate:
		return fmt.Sprintf("update %s %q=%q", a.Target, a.Column, a.Value)
	case KindDelete:
		return fmt.Sprintf("delete %s", a.Target)
	case KindAdd:
		return fmt.Sprintf("add %q", a.Values)
	default:
		return fmt.Sprintf("unknown action %q", string(a.Kind))
	}
}

// SkippedAction records an element of the response that could not be
// turned into an Action.
type SkippedAction struct {
	// Index is the position of the element within the actions array.
	Index int `json:"index"`
	// Kind is the raw action field, possibly empty.
	Kind string `json:"kind"`
	// Reason says why the element was dropped.
	Reason string `json:"reason"`
}

// ActionBatch is an ordered sequence of actions decoded from one response.
// Actions are applied in slice order.
type ActionBatch struct {
	Actions []Action        `json:"actions"`
	Skipped []SkippedAction `json:"skipped,omitempty"`
}

// Len returns the number of applicable actions.
func (b ActionBatch) Len() int {
	return len(b.Actions)
}
