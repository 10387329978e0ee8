package tasksheet

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ukaji3/tasksheet-go/pkg/tasksheet/models"
)

// ErrRowNotFound indicates a row locator matched no row.
var ErrRowNotFound = errors.New("row not found")

// ErrColumnNotFound indicates a column name is not in the header.
var ErrColumnNotFound = errors.New("column not found")

// ActionError represents a failure to apply one action of a batch.
type ActionError struct {
	Index  int // position within the batch
	Action models.Action
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action %d (%s): %v", e.Index, e.Action, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// MarshalJSON encodes the failure with its error message, so a Report keeps
// its failures when serialized.
func (e *ActionError) MarshalJSON() ([]byte, error) {
	msg := ""
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return json.Marshal(struct {
		Index  int           `json:"index"`
		Action models.Action `json:"action"`
		Error  string        `json:"error"`
	}{e.Index, e.Action, msg})
}

// NewActionError creates a new ActionError.
func NewActionError(index int, action models.Action, err error) *ActionError {
	return &ActionError{
		Index:  index,
		Action: action,
		Err:    err,
	}
}
