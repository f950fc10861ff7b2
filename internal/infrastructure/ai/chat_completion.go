package ai

import (
	"encoding/json"
	"strings"

	"github.com/doeshing/shell-ai/internal/domain"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model,omitempty"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *jsonSchema `json:"json_schema,omitempty"`
}

type jsonSchema struct {
	Name   string          `json:"name"`
	Strict bool            `json:"strict"`
	Schema json.RawMessage `json:"schema"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message      *chatMessage `json:"message"`
		FinishReason string       `json:"finish_reason"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// buildChatCompletion renders a backend-neutral request. With structured
// output the schema travels in response_format; otherwise JSON mode is
// requested and the schema is spelled out in the system message.
func buildChatCompletion(profile domain.ProviderProfile, req domain.CompletionRequest, structured bool) chatCompletionRequest {
	messages := make([]chatMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, chatMessage{Role: strings.ToLower(msg.Role), Content: msg.Content})
	}

	out := chatCompletionRequest{
		Model:       profile.Model,
		Messages:    messages,
		MaxTokens:   profile.MaxTokens,
		Temperature: profile.Temperature,
	}
	if len(req.Schema.Schema) == 0 {
		return out
	}

	if structured {
		out.ResponseFormat = &responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchema{
				Name:   req.Schema.Name,
				Strict: true,
				Schema: req.Schema.Schema,
			},
		}
		return out
	}

	out.ResponseFormat = &responseFormat{Type: "json_object"}
	hint := "Respond with a JSON object conforming to this JSON schema:\n" + string(req.Schema.Schema)
	for i := range out.Messages {
		if out.Messages[i].Role == domain.RoleSystem {
			out.Messages[i].Content += "\n\n" + hint
			return out
		}
	}
	out.Messages = append([]chatMessage{{Role: domain.RoleSystem, Content: hint}}, out.Messages...)
	return out
}

// parseChatCompletion extracts the first choice from a 2xx body.
func parseChatCompletion(provider domain.ProviderID, body []byte) (domain.RawCompletion, error) {
	var decoded chatCompletionResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return domain.RawCompletion{}, &domain.ProviderError{
			Kind:     domain.SchemaViolation,
			Provider: provider,
			Message:  "response body is not valid JSON",
			Err:      err,
		}
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return domain.RawCompletion{}, &domain.ProviderError{
			Kind:     domain.RequestRejected,
			Provider: provider,
			Message:  decoded.Error.Message,
		}
	}
	if len(decoded.Choices) == 0 || decoded.Choices[0].Message == nil {
		return domain.RawCompletion{}, &domain.ProviderError{
			Kind:     domain.SchemaViolation,
			Provider: provider,
			Message:  "response missing choices[0].message.content",
		}
	}
	choice := decoded.Choices[0]
	return domain.RawCompletion{Content: choice.Message.Content, FinishReason: choice.FinishReason}, nil
}
