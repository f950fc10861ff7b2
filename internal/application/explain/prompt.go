package explain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/doeshing/shell-ai/internal/domain"
)

const schemaName = "command_explanation"

func explanationSchema(withCitations bool) json.RawMessage {
	segment := map[string]interface{}{
		"fragment": map[string]interface{}{
			"type":        "string",
			"description": "An exact substring of the command.",
		},
		"description": map[string]interface{}{
			"type":        "string",
			"description": "What the fragment does, in one concise sentence.",
		},
	}
	required := []string{"fragment", "description"}
	if withCitations {
		segment["citation"] = map[string]interface{}{
			"type":        []string{"string", "null"},
			"description": "Verbatim quote from the provided documentation, or null.",
		}
		required = append(required, "citation")
	}

	schema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"synopsis": map[string]interface{}{
				"type":        "string",
				"description": "One sentence summarising what the whole command does.",
			},
			"segments": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type":                 "object",
					"properties":           segment,
					"required":             required,
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"synopsis", "segments"},
		"additionalProperties": false,
	}
	// Marshalling a literal map cannot fail.
	out, _ := json.Marshal(schema)
	return out
}

func systemPrompt(withCitations bool) string {
	var b strings.Builder
	b.WriteString("You are a shell command explainer. The user will provide a shell command, " +
		"and you will explain it by breaking it down into its components.\n\n")
	b.WriteString("Output format: JSON with \"synopsis\" and a \"segments\" array, in the order the fragments appear in the command.\n")
	b.WriteString("Each segment has these fields:\n")
	b.WriteString("- \"fragment\": the exact characters from the command (will be highlighted)\n")
	b.WriteString("- \"description\": what the fragment does\n")
	if withCitations {
		b.WriteString("- \"citation\": verbatim quote from the provided documentation, or null if unavailable\n")
	}
	b.WriteString("\nRules:\n")
	b.WriteString("1. \"fragment\" MUST be an exact substring of the command, no escaping changes\n")
	b.WriteString("2. Break combined flags (e.g. \"-abc\") into one segment per flag\n")
	b.WriteString("3. Keep descriptions concise\n")
	if withCitations {
		b.WriteString("4. \"citation\" must be copied from the documentation, not paraphrased. " +
			"Base the description on the citation rather than prior knowledge\n")
	}
	return b.String()
}

func completionRequest(command string, refs []domain.Reference) domain.CompletionRequest {
	withCitations := len(refs) > 0
	messages := make([]domain.Message, 0, len(refs)+2)
	messages = append(messages, domain.Message{Role: domain.RoleSystem, Content: systemPrompt(withCitations)})
	for _, ref := range refs {
		messages = append(messages, domain.Message{Role: domain.RoleSystem, Content: ref.Content})
	}
	messages = append(messages, domain.Message{Role: domain.RoleUser, Content: command})

	return domain.CompletionRequest{
		Messages: messages,
		Schema:   domain.ResponseSchema{Name: schemaName, Schema: explanationSchema(withCitations)},
	}
}

type segmentPayload struct {
	Fragment    string  `json:"fragment"`
	Description string  `json:"description"`
	Citation    *string `json:"citation"`
}

type explanationPayload struct {
	Synopsis string           `json:"synopsis"`
	Segments []segmentPayload `json:"segments"`
}

func (p *explanationPayload) Validate() error {
	if len(p.Segments) == 0 {
		return errors.New("no segments")
	}
	for i, s := range p.Segments {
		if strings.TrimSpace(s.Fragment) == "" {
			return fmt.Errorf("segment %d has an empty fragment", i)
		}
	}
	return nil
}

func (p *explanationPayload) result(command string) domain.ExplanationResult {
	out := domain.ExplanationResult{
		Command:  command,
		Synopsis: strings.TrimSpace(p.Synopsis),
		Segments: make([]domain.ExplanationSegment, 0, len(p.Segments)),
	}
	for _, s := range p.Segments {
		seg := domain.ExplanationSegment{
			Fragment:    s.Fragment,
			Description: strings.TrimSpace(s.Description),
		}
		if s.Citation != nil && strings.TrimSpace(*s.Citation) != "" {
			citation := strings.TrimSpace(*s.Citation)
			seg.ManCitation = &citation
		}
		out.Segments = append(out.Segments, seg)
	}
	return out
}
