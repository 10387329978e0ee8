package tasksheet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ukaji3/tasksheet-go/pkg/tasksheet/llm"
	"github.com/ukaji3/tasksheet-go/pkg/tasksheet/models"
	"github.com/ukaji3/tasksheet-go/pkg/tasksheet/parser"
	"github.com/ukaji3/tasksheet-go/pkg/tasksheet/preview"
	"github.com/ukaji3/tasksheet-go/pkg/tasksheet/prompt"
	"github.com/ukaji3/tasksheet-go/pkg/tasksheet/store"
)

// ErrEmptyInstruction indicates Run was called without an instruction.
var ErrEmptyInstruction = errors.New("empty instruction")

// Result describes one Run.
type Result struct {
	RunID    string             `json:"run_id"`
	Prompt   string             `json:"-"`
	Raw      string             `json:"-"`
	Source   parser.Source      `json:"source,omitempty"`
	Repaired bool               `json:"repaired,omitempty"`
	Batch    models.ActionBatch `json:"batch"`
	Report   Report             `json:"report"`
	// Preview is a unified row diff, filled for dry runs only.
	Preview string `json:"preview,omitempty"`
}

// Orchestrator turns a free-text instruction into applied table edits.
// It is not safe for concurrent use; one Run at a time per store.
type Orchestrator struct {
	store  store.TableStore
	client llm.Client
	opts   Options
}

// New creates an Orchestrator over s that asks c for edits.
func New(s store.TableStore, c llm.Client, opts Options) *Orchestrator {
	return &Orchestrator{
		store:  s,
		client: c,
		opts:   opts.withDefaults(),
	}
}

// Run snapshots the table, asks the model once for edits and applies them.
//
// A transport failure, an empty response or an unparseable response ends the
// run before any change is made; the returned error says which. Per-action
// failures do not end the run and are listed in Result.Report.
func (o *Orchestrator) Run(ctx context.Context, instruction string) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	log := o.opts.Logger.WithField("run_id", res.RunID)
	start := time.Now()

	if strings.TrimSpace(instruction) == "" {
		return res, ErrEmptyInstruction
	}
	log.WithFields(logrus.Fields{
		"model":      o.opts.Model,
		"addressing": o.opts.Addressing,
		"dry_run":    o.opts.DryRun,
	}).Info("run started")

	grid, err := o.store.Rows()
	if err != nil {
		log.WithError(err).Error("read table")
		return res, fmt.Errorf("read table: %w", err)
	}
	res.Prompt, err = prompt.Build(prompt.Input{
		Table:          models.NewTable(grid),
		Instruction:    instruction,
		Addressing:     o.opts.Addressing,
		IdentityColumn: o.opts.IdentityColumn,
	})
	if err != nil {
		return res, err
	}
	log.WithField("prompt", res.Prompt).Debug("prompt built")

	raw, err := o.client.Complete(ctx, res.Prompt, llm.Request{
		Model:       o.opts.Model,
		MaxTokens:   o.opts.MaxTokens,
		Temperature: o.opts.Temperature,
	})
	if err != nil {
		if !errors.Is(err, llm.ErrTransport) && !errors.Is(err, llm.ErrEmptyResponse) {
			err = fmt.Errorf("%w: %w", llm.ErrTransport, err)
		}
		log.WithError(err).Error("model call failed")
		return res, err
	}
	if strings.TrimSpace(raw) == "" {
		log.Error("model returned an empty response")
		return res, llm.ErrEmptyResponse
	}
	res.Raw = raw
	log.WithField("raw", raw).Debug("model responded")

	parsed, err := parser.Parse(raw, parser.Options{Addressing: o.opts.Addressing, Repairer: o.opts.Repairer})
	res.Source, res.Repaired = parsed.Source, parsed.Repaired
	if err != nil {
		log.WithError(err).WithField("source", parsed.Source).Error("response rejected")
		return res, err
	}
	res.Batch = parsed.Batch
	if parsed.Repaired {
		log.Warn("truncated response repaired")
	}
	for _, s := range parsed.Batch.Skipped {
		log.WithFields(logrus.Fields{
			"index":  s.Index,
			"kind":   s.Kind,
			"reason": s.Reason,
		}).Warn("response element skipped")
	}

	target := o.store
	var scratch *store.MemoryStore
	if o.opts.DryRun {
		scratch = store.NewMemoryStore(grid)
		target = scratch
	}
	res.Report = NewApplier(o.opts.IdentityColumn, log).Apply(target, res.Batch)

	if scratch != nil {
		after, _ := scratch.Rows()
		res.Preview = preview.Unified(preview.Diff(grid, after), 1)
	}

	log.WithFields(logrus.Fields{
		"dur_ms":  time.Since(start).Milliseconds(),
		"actions": res.Batch.Len(),
		"applied": res.Report.Applied,
		"failed":  len(res.Report.Failed),
		"skipped": len(res.Report.Skipped),
	}).Info("run finished")
	return res, nil
}
