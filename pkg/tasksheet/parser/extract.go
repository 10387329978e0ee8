// Package parser turns raw language-model output into an ActionBatch.
package parser

import (
	"encoding/json"
	"strings"
)

const fence = "```"

// Source reports where the JSON candidate was found.
type Source string

const (
	// SourceFence means the candidate came from a fenced block of the raw text.
	SourceFence Source = "fence"
	// SourceEnvelope means the candidate is the message content of a
	// chat-completions envelope.
	SourceEnvelope Source = "envelope"
	// SourceBare means the raw text itself was used.
	SourceBare Source = "bare"
)

// escapeReplacer reverses the escaping a fenced block picks up when it is
// copied out of a JSON string without decoding. Longer and earlier patterns
// win at each offset, so an escaped backslash is consumed before it can start
// another sequence.
var escapeReplacer = strings.NewReplacer(
	`\\`, `\`,
	`\r`, "\r",
	`\n`, "\n",
	`\t`, "\t",
	`\"`, `"`,
)

// Candidate locates the JSON document inside raw and reports its source.
// When more than one reading of raw is possible, the first one that is valid
// JSON is returned.
func Candidate(raw string) (string, Source) {
	texts, source := candidates(raw)
	for _, text := range texts {
		if json.Valid([]byte(text)) {
			return text, source
		}
	}
	return texts[0], source
}

// candidates returns the readings of raw to try, most likely first.
//
// A chat-completions envelope is decoded first and its message content is
// searched for a fenced block, falling back to the content minus any fences.
// Otherwise a fenced block of raw wins; its body is offered as-is and, when
// different, with JSON string escapes reversed. Failing both, raw itself is
// used after an unterminated opening fence, if there is one.
func candidates(raw string) ([]string, Source) {
	if content, ok := envelopeContent(raw); ok {
		if body, ok := fencedBlock(content); ok {
			return []string{body}, SourceFence
		}
		return []string{stripFences(content)}, SourceEnvelope
	}
	if body, ok := fencedBlock(raw); ok {
		texts := []string{body}
		if unescaped := strings.TrimSpace(escapeReplacer.Replace(body)); unescaped != body {
			texts = append(texts, unescaped)
		}
		return texts, SourceFence
	}
	return []string{stripFences(raw)}, SourceBare
}

// fencedBlock returns the content between the first opening fence and the
// next closing fence. An optional language tag on the opening fence is
// dropped.
func fencedBlock(s string) (string, bool) {
	start := strings.Index(s, fence)
	if start < 0 {
		return "", false
	}
	rest := skipFenceTag(s[start+len(fence):])
	end := strings.Index(rest, fence)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// skipFenceTag drops a language tag such as "json" directly after a fence.
func skipFenceTag(s string) string {
	i := 0
	for i < len(s) && isTagByte(s[i]) {
		i++
	}
	return s[i:]
}

func isTagByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_'
}

// stripFences removes fence markers from text whose content is a JSON
// document, tolerating a missing closing fence.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if start := strings.Index(s, fence); start >= 0 {
		s = skipFenceTag(s[start+len(fence):])
		if end := strings.Index(s, fence); end >= 0 {
			s = s[:end]
		}
	}
	return strings.TrimSpace(s)
}

// envelope is the subset of the chat-completions response the parser reads.
type envelope struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// envelopeContent decodes raw as a chat-completions response and returns the
// first choice's message content.
func envelopeContent(raw string) (string, bool) {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return "", false
	}
	if len(env.Choices) == 0 || strings.TrimSpace(env.Choices[0].Message.Content) == "" {
		return "", false
	}
	return env.Choices[0].Message.Content, true
}
