package suggest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/doeshing/shell-ai/internal/domain"
)

const schemaName = "shell_command_suggestion"

var suggestionSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "command": {
      "type": "string",
      "description": "A single-line shell command that can be executed directly."
    }
  },
  "required": ["command"],
  "additionalProperties": false
}`)

const systemPrompt = "You are an expert at using shell commands. Respond with a JSON object only, " +
	"matching the provided JSON schema. The command will be directly executed " +
	"in a shell as a single executable line of code."

// NewRequest builds the request for one round of suggestions.
func NewRequest(prompt string, platform domain.PlatformContext, count int) domain.SuggestionRequest {
	if count < 1 {
		count = 1
	}
	return domain.SuggestionRequest{
		Prompt:       strings.TrimSpace(prompt),
		DesiredCount: count,
		Schema:       domain.ResponseSchema{Name: schemaName, Schema: suggestionSchema},
		Platform:     platform,
	}
}

func completionRequest(req domain.SuggestionRequest) domain.CompletionRequest {
	var system strings.Builder
	system.WriteString(systemPrompt)
	if req.Platform.OS != "" {
		fmt.Fprintf(&system, " The system the shell command will be executed on is %s %s.", req.Platform.OS, req.Platform.Arch)
	}
	if req.Platform.Shell != "" {
		fmt.Fprintf(&system, " The shell is %s.", req.Platform.Shell)
	}

	return domain.CompletionRequest{
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: system.String()},
			{Role: domain.RoleUser, Content: "Generate a shell command that satisfies this user request: " + req.Prompt},
		},
		Schema: req.Schema,
	}
}

type suggestionPayload struct {
	Command string `json:"command"`
}

func (p *suggestionPayload) Validate() error {
	if strings.TrimSpace(p.Command) == "" {
		return errors.New("command is empty")
	}
	return nil
}
