package tasksheet

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ukaji3/tasksheet-go/pkg/tasksheet/models"
	"github.com/ukaji3/tasksheet-go/pkg/tasksheet/store"
)

// Report summarizes the application of one batch.
type Report struct {
	// Applied counts actions that changed the store.
	Applied int `json:"applied"`
	// Failed lists actions that were skipped at apply time.
	Failed []*ActionError `json:"failed,omitempty"`
	// Skipped lists response elements dropped while parsing.
	Skipped []models.SkippedAction `json:"skipped,omitempty"`
}

// OK reports whether every action applied and nothing was dropped.
func (r Report) OK() bool {
	return len(r.Failed) == 0 && len(r.Skipped) == 0
}

// Summary returns a one-line human readable summary followed by one line
// per problem.
func (r Report) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d applied, %d failed, %d skipped", r.Applied, len(r.Failed), len(r.Skipped))
	for _, f := range r.Failed {
		fmt.Fprintf(&sb, "\n  failed: %v", f)
	}
	for _, s := range r.Skipped {
		fmt.Fprintf(&sb, "\n  skipped: element %d (%q): %s", s.Index, s.Kind, s.Reason)
	}
	return sb.String()
}

// Applier applies action batches to a table store, one action at a time.
//
// Each action sees the effects of the ones before it. In particular a Delete
// shifts the positions of every later row, so a later positional locator
// refers to whichever row occupies that position after the deletion.
type Applier struct {
	identityColumn string
	log            logrus.FieldLogger
}

// NewApplier creates an Applier. identityColumn names the key column for
// ByKey locators; empty means the first column. A nil logger discards logs.
func NewApplier(identityColumn string, log logrus.FieldLogger) *Applier {
	if log == nil {
		log = discardLogger()
	}
	return &Applier{identityColumn: identityColumn, log: log}
}

// Apply runs every action of b against s in order. A failing action is
// recorded and skipped; the rest of the batch still runs and nothing is
// rolled back.
func (a *Applier) Apply(s store.TableStore, b models.ActionBatch) Report {
	report := Report{Skipped: b.Skipped}
	headers, err := s.Headers()
	if err != nil {
		for i, action := range b.Actions {
			report.Failed = append(report.Failed, NewActionError(i, action, err))
		}
		a.log.WithError(err).Error("read headers")
		return report
	}

	for i, action := range b.Actions {
		if err := a.applyOne(s, headers, action); err != nil {
			aerr := NewActionError(i, action, err)
			report.Failed = append(report.Failed, aerr)
			a.log.WithFields(logrus.Fields{
				"index":  i,
				"action": action.String(),
			}).WithError(err).Warn("action skipped")
			continue
		}
		report.Applied++
		a.log.WithFields(logrus.Fields{
			"index":  i,
			"action": action.String(),
		}).Debug("action applied")
	}
	return report
}

func (a *Applier) applyOne(s store.TableStore, headers []string, action models.Action) error {
	switch action.Kind {
	case models.KindUpdate:
		row, err := a.resolveRow(s, headers, action.Target)
		if err != nil {
			return err
		}
		col := models.IndexOf(headers, action.Column)
		if col < 0 {
			return fmt.Errorf("%w: %q", ErrColumnNotFound, action.Column)
		}
		return s.WriteCell(row, col, action.Value)
	case models.KindDelete:
		row, err := a.resolveRow(s, headers, action.Target)
		if err != nil {
			return err
		}
		return s.DeleteRow(row)
	case models.KindAdd:
		return s.AppendRow(action.Values)
	default:
		return fmt.Errorf("unknown action kind %q", action.Kind)
	}
}

// resolveRow turns a locator into a row position. The header row is never a
// valid target.
func (a *Applier) resolveRow(s store.TableStore, headers []string, loc models.RowLocator) (int, error) {
	switch loc.Mode {
	case models.AddressByPosition:
		if loc.Position < 2 {
			return 0, &store.RangeError{Op: "resolve", Row: loc.Position, Col: -1, Err: store.ErrOutOfRange}
		}
		return loc.Position, nil
	case models.AddressByKey:
		idCol := 0
		if a.identityColumn != "" {
			idCol = models.IndexOf(headers, a.identityColumn)
			if idCol < 0 {
				return 0, fmt.Errorf("%w: identity column %q", ErrColumnNotFound, a.identityColumn)
			}
		}
		rows, err := s.Rows()
		if err != nil {
			return 0, err
		}
		for i := 1; i < len(rows); i++ {
			if idCol < len(rows[i]) && rows[i][idCol] == loc.Key {
				return i + 1, nil
			}
		}
		return 0, fmt.Errorf("%w: %s", ErrRowNotFound, loc)
	default:
		return 0, fmt.Errorf("%w: unknown locator mode %q", ErrRowNotFound, loc.Mode)
	}
}
