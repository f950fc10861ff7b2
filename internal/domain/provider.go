// Package domain defines core entities and value objects for shell-ai.
//
// This file contains provider profiles: the per-backend endpoint, auth and
// generation parameters selected by a resolved configuration.
package domain

import "strings"

// ProviderID names a supported backend.
type ProviderID string

const (
	ProviderOpenAI  ProviderID = "openai"
	ProviderAzure   ProviderID = "azure"
	ProviderGroq    ProviderID = "groq"
	ProviderOllama  ProviderID = "ollama"
	ProviderMistral ProviderID = "mistral"
)

// KnownProviders lists the backends in display order.
func KnownProviders() []ProviderID {
	return []ProviderID{ProviderOpenAI, ProviderAzure, ProviderGroq, ProviderOllama, ProviderMistral}
}

// AuthScheme describes how the API key is presented.
type AuthScheme string

const (
	AuthBearer AuthScheme = "bearer"
	AuthAPIKey AuthScheme = "api-key"
	AuthNone   AuthScheme = "none"
)

// ProviderProfile is everything an adapter needs to talk to one backend.
// MaxTokens is zero when unset.
type ProviderProfile struct {
	ID               ProviderID
	EndpointTemplate string
	AuthScheme       AuthScheme
	APIBase          string
	APIKey           string
	Model            string
	MaxTokens        int
	Temperature      float64
	Organization     string
	Deployment       string
	APIVersion       string
}

const chatCompletionsPath = "/chat/completions"

// Endpoint expands the endpoint template. An api_base that already points
// at a chat completions URL is used as is.
func (p ProviderProfile) Endpoint() string {
	base := strings.TrimRight(strings.TrimSpace(p.APIBase), "/")
	if strings.Contains(base, chatCompletionsPath) {
		return base
	}
	replacer := strings.NewReplacer(
		"{api_base}", base,
		"{deployment}", p.Deployment,
		"{api_version}", p.APIVersion,
	)
	return replacer.Replace(p.EndpointTemplate)
}

// ProviderSpec is a catalog entry describing a backend's defaults and
// required fields.
type ProviderSpec struct {
	ID          ProviderID  `yaml:"id"`
	DisplayName string      `yaml:"display_name"`
	Endpoint    string      `yaml:"endpoint"`
	Auth        AuthScheme  `yaml:"auth"`
	APIBase     string      `yaml:"api_base"`
	Model       string      `yaml:"model"`
	KeyRequired bool        `yaml:"key_required"`
	KeyFallback ProviderID  `yaml:"key_fallback,omitempty"`
	Required    []string    `yaml:"required,omitempty"`
	Fields      []FieldSpec `yaml:"fields,omitempty"`
	// Omit lists common fields this provider does not take.
	Omit []string `yaml:"omit,omitempty"`
}

// Takes reports whether the provider accepts the common field.
func (s ProviderSpec) Takes(field string) bool {
	for _, omitted := range s.Omit {
		if omitted == field {
			return false
		}
	}
	return true
}

// FieldSpec declares a provider-specific extra field such as
// organization or deployment_name.
type FieldSpec struct {
	Key         string   `yaml:"key"`
	Env         []string `yaml:"env"`
	Default     string   `yaml:"default,omitempty"`
	Description string   `yaml:"description"`
}
