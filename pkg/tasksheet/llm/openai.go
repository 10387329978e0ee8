package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// OpenAIOptions configures an OpenAI-compatible chat-completions client.
type OpenAIOptions struct {
	BaseURL      string            // e.g. https://api.openai.com/v1
	EndpointPath string            // default /chat/completions; may be a full URL
	APIKeyEnv    string            // env var holding the key, default OPENAI_API_KEY
	APIKey       string            // explicit key, wins over APIKeyEnv
	Timeout      time.Duration     // default 60s
	ExtraHeaders map[string]string // added to every request
}

func (o *OpenAIOptions) defaults() {
	if o.BaseURL == "" {
		o.BaseURL = "https://api.openai.com/v1"
	}
	if o.EndpointPath == "" {
		o.EndpointPath = "/chat/completions"
	}
	if o.APIKeyEnv == "" {
		o.APIKeyEnv = "OPENAI_API_KEY"
	}
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
}

// OpenAI posts a single user message to a chat-completions endpoint and
// returns the response body as-is. Extracting the message content is left to
// the parser, which also handles fenced and truncated output.
type OpenAI struct {
	url    string
	apiKey string
	extraH map[string]string
	do     func(*http.Request) (*http.Response, error)
}

// NewOpenAI builds a client. It fails when no API key is available.
func NewOpenAI(opts OpenAIOptions) (*OpenAI, error) {
	opts.defaults()
	key := opts.APIKey
	if key == "" {
		key = os.Getenv(opts.APIKeyEnv)
	}
	if key == "" {
		return nil, fmt.Errorf("openai: missing api key (set %s)", opts.APIKeyEnv)
	}

	fullURL := opts.EndpointPath
	if !strings.HasPrefix(fullURL, "http://") && !strings.HasPrefix(fullURL, "https://") {
		fullURL = strings.TrimRight(opts.BaseURL, "/") + "/" + strings.TrimLeft(opts.EndpointPath, "/")
	}
	hc := &http.Client{Timeout: opts.Timeout}
	return &OpenAI{
		url:    fullURL,
		apiKey: key,
		extraH: opts.ExtraHeaders,
		do:     hc.Do,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

// UpstreamError is a non-2xx answer from the endpoint.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("openai upstream %d: %s", e.Status, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return ErrTransport
}

// Complete sends prompt as one user message.
func (c *OpenAI) Complete(ctx context.Context, prompt string, req Request) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	hreq.Header.Set("Authorization", "Bearer "+c.apiKey)
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Accept", "application/json")
	for k, v := range c.extraH {
		if k == "" {
			continue
		}
		hreq.Header.Set(k, v)
	}

	resp, err := c.do(hreq)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %w", ErrTransport, ctx.Err())
		}
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", &UpstreamError{Status: resp.StatusCode, Message: strings.TrimSpace(string(slurp))}
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", ErrEmptyResponse
	}
	return string(raw), nil
}

var _ Client = (*OpenAI)(nil)
