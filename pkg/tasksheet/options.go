// Package tasksheet applies natural-language edits to a task table through a
// language model.
package tasksheet

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ukaji3/tasksheet-go/pkg/tasksheet/models"
	"github.com/ukaji3/tasksheet-go/pkg/tasksheet/parser"
)

const (
	// DefaultModel is the model used when Options.Model is empty.
	DefaultModel = "gpt-4o"
	// DefaultMaxTokens caps the model response size.
	DefaultMaxTokens = 150
)

// Options configures an Orchestrator and its Applier.
type Options struct {
	// Model is the upstream model identifier.
	Model string
	// MaxTokens caps the response size. Truncated responses go through the
	// parser's repair step.
	MaxTokens int
	// Temperature is the sampling temperature.
	Temperature float64
	// Addressing selects row addressing by position or by identity key.
	Addressing models.AddressingMode
	// IdentityColumn names the key column for key addressing.
	// Empty means the first column.
	IdentityColumn string
	// DryRun applies the batch to an in-memory copy and fills Result.Preview
	// instead of changing the store.
	DryRun bool
	// Repairer overrides the parser's JSON repair strategy.
	Repairer parser.Repairer
	// Logger receives structured logs. Nil discards them.
	Logger logrus.FieldLogger
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		Model:      DefaultModel,
		MaxTokens:  DefaultMaxTokens,
		Addressing: models.AddressByPosition,
	}
}

func (o Options) withDefaults() Options {
	if o.Model == "" {
		o.Model = DefaultModel
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.Addressing == "" {
		o.Addressing = models.AddressByPosition
	}
	if o.Logger == nil {
		o.Logger = discardLogger()
	}
	return o
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
