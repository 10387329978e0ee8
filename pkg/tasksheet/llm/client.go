// Package llm provides language-model clients that return raw response text.
package llm

import (
	"context"
	"errors"
)

// ErrTransport indicates the model call did not produce a response.
var ErrTransport = errors.New("transport failure")

// ErrEmptyResponse indicates the model returned an empty body.
var ErrEmptyResponse = errors.New("empty response")

// Request carries per-call generation settings.
type Request struct {
	// Model is the upstream model identifier.
	Model string
	// MaxTokens caps the response size. Zero leaves it to the upstream default.
	MaxTokens int
	// Temperature is the sampling temperature.
	Temperature float64
}

// Client sends one prompt and returns the raw response text unmodified.
// Calls are synchronous; there is no retry.
type Client interface {
	Complete(ctx context.Context, prompt string, req Request) (string, error)
}

// StaticClient replays a fixed response, e.g. one saved from an earlier run.
type StaticClient struct {
	Text string
	Err  error

	// LastPrompt and LastRequest hold the most recent call.
	LastPrompt  string
	LastRequest Request
	Calls       int
}

// Complete records the call and returns Text or Err.
func (c *StaticClient) Complete(ctx context.Context, prompt string, req Request) (string, error) {
	c.Calls++
	c.LastPrompt = prompt
	c.LastRequest = req
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if c.Err != nil {
		return "", c.Err
	}
	return c.Text, nil
}

var _ Client = (*StaticClient)(nil)
