package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Message follows the role/content pair required by chat APIs.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ResponseSchema is a named JSON schema the provider must conform to.
type ResponseSchema struct {
	Name   string
	Schema json.RawMessage
}

// CompletionRequest is the backend-neutral request handed to adapters.
type CompletionRequest struct {
	Messages []Message
	Schema   ResponseSchema
}

// RawCompletion is the unparsed assistant content of one completion.
type RawCompletion struct {
	Content      string
	FinishReason string
}

// Truncated reports whether the backend stopped at its token limit.
func (c RawCompletion) Truncated() bool {
	return c.FinishReason == "length"
}

// Decode strictly decodes the content into v. Any deviation from the
// expected shape is a SchemaViolation.
func (c RawCompletion) Decode(provider ProviderID, v interface{ Validate() error }) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(strings.TrimSpace(c.Content))))
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err == nil {
		err = v.Validate()
	}
	if err == nil {
		return nil
	}
	pe := &ProviderError{
		Kind:     SchemaViolation,
		Provider: provider,
		Message:  fmt.Sprintf("response does not match the expected schema: %v", err),
		Err:      err,
	}
	if c.Truncated() {
		pe.Hint = "response was truncated; increase --max-tokens or SHAI_MAX_TOKENS"
	}
	return pe
}

// SuggestionRequest is built once per orchestrator invocation.
type SuggestionRequest struct {
	Prompt       string
	DesiredCount int
	Schema       ResponseSchema
	Platform     PlatformContext
}

// Suggestion is one candidate command. Ordinal starts at 1.
type Suggestion struct {
	Command string `json:"command"`
	Ordinal int    `json:"-"`
}

// Commands returns the command texts in order.
func Commands(suggestions []Suggestion) []string {
	out := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, s.Command)
	}
	return out
}

// RevisePrompt appends a user correction to the prompt that produced the
// current suggestions.
func RevisePrompt(original, correction string) string {
	correction = strings.TrimSpace(correction)
	if correction == "" {
		return original
	}
	return fmt.Sprintf("%s\n\nAdjust the command as follows: %s", strings.TrimSpace(original), correction)
}

// ExecutionResult wraps details from the command executor.
type ExecutionResult struct {
	ExitCode int
	Duration time.Duration
}
