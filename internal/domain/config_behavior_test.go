package domain_test

import (
	"errors"
	"math"
	"testing"

	"github.com/doeshing/shell-ai/internal/domain"
)

func newConfig(values map[string]domain.ResolvedValue, derived domain.Derived) *domain.Configuration {
	order := make([]string, 0, len(values))
	for k := range values {
		order = append(order, k)
	}
	return domain.NewConfiguration(order, values, derived, nil)
}

// TestConfiguration_EffectiveModel tests the global/provider model precedence
func TestConfiguration_EffectiveModel(t *testing.T) {
	tests := []struct {
		name       string
		values     map[string]domain.ResolvedValue
		wantModel  interface{}
		wantSource domain.Source
	}{
		{
			name: "provider model when no global model",
			values: map[string]domain.ResolvedValue{
				"model":        {Value: nil, Source: domain.SourceDefault},
				"openai.model": {Value: "gpt-5", Source: domain.SourceEnv, Origin: "OPENAI_MODEL"},
			},
			wantModel:  "gpt-5",
			wantSource: domain.SourceEnv,
		},
		{
			name: "global model wins",
			values: map[string]domain.ResolvedValue{
				"model":        {Value: "gpt-4.1", Source: domain.SourceCLI, Origin: "--model"},
				"openai.model": {Value: "gpt-5", Source: domain.SourceEnv, Origin: "OPENAI_MODEL"},
			},
			wantModel:  "gpt-4.1",
			wantSource: domain.SourceCLI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newConfig(tt.values, domain.Derived{Provider: domain.ProviderOpenAI})
			got := cfg.EffectiveModel()
			if got.Value != tt.wantModel {
				t.Errorf("got model %v, want %v", got.Value, tt.wantModel)
			}
			if got.Source != tt.wantSource {
				t.Errorf("got source %s, want %s", got.Source, tt.wantSource)
			}
		})
	}
}

// TestConfiguration_RequestCount tests the single-request shortcut
func TestConfiguration_RequestCount(t *testing.T) {
	values := map[string]domain.ResolvedValue{
		"suggestion_count": {Value: 3, Source: domain.SourceFile},
	}
	tests := []struct {
		name     string
		frontend domain.Frontend
		format   domain.OutputFormat
		want     int
	}{
		{"noninteractive human", domain.FrontendNoninteractive, domain.OutputHuman, 1},
		{"noninteractive json", domain.FrontendNoninteractive, domain.OutputJSON, 3},
		{"dialog", domain.FrontendDialog, domain.OutputHuman, 3},
		{"readline", domain.FrontendReadline, domain.OutputHuman, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newConfig(values, domain.Derived{Frontend: tt.frontend, OutputFormat: tt.format})
			if got := cfg.RequestCount(); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConfiguration_ValuesAreCopied(t *testing.T) {
	values := map[string]domain.ResolvedValue{"provider": {Value: "openai", Source: domain.SourceDefault}}
	cfg := newConfig(values, domain.Derived{})
	values["provider"] = domain.ResolvedValue{Value: "groq", Source: domain.SourceCLI}

	if got := cfg.String("provider"); got != "openai" {
		t.Errorf("got %s, want openai", got)
	}
}

// TestProviderProfile_Endpoint tests endpoint template expansion
func TestProviderProfile_Endpoint(t *testing.T) {
	tests := []struct {
		name    string
		profile domain.ProviderProfile
		want    string
	}{
		{
			name:    "openai default",
			profile: domain.ProviderProfile{EndpointTemplate: "{api_base}/v1/chat/completions", APIBase: "https://api.openai.com/"},
			want:    "https://api.openai.com/v1/chat/completions",
		},
		{
			name: "azure deployment",
			profile: domain.ProviderProfile{
				EndpointTemplate: "{api_base}/openai/deployments/{deployment}/chat/completions?api-version={api_version}",
				APIBase:          "https://example.openai.azure.com",
				Deployment:       "prod",
				APIVersion:       "2024-10-21",
			},
			want: "https://example.openai.azure.com/openai/deployments/prod/chat/completions?api-version=2024-10-21",
		},
		{
			name:    "full url kept",
			profile: domain.ProviderProfile{EndpointTemplate: "{api_base}/v1/chat/completions", APIBase: "http://proxy.local/custom/chat/completions"},
			want:    "http://proxy.local/custom/chat/completions",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profile.Endpoint(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

// TestSetting_Coerce tests per-kind coercion of native and string values
func TestSetting_Coerce(t *testing.T) {
	intSetting := domain.Setting{Key: "suggestion_count", Kind: domain.KindNumber, Integer: true}
	floatSetting := domain.Setting{Key: "temperature", Kind: domain.KindNumber}
	boolSetting := domain.Setting{Key: "skip_confirm", Kind: domain.KindBool}
	enumSetting := domain.Setting{
		Key:     "debug",
		Kind:    domain.KindEnum,
		Choices: []string{"off", "warn", "debug"},
		Aliases: map[string]string{"true": "debug"},
	}

	tests := []struct {
		name    string
		setting domain.Setting
		raw     interface{}
		want    interface{}
		wantErr bool
	}{
		{"int from string", intSetting, "5", 5, false},
		{"int from toml int64", intSetting, int64(4), 4, false},
		{"int from json float", intSetting, float64(2), 2, false},
		{"int rejects fraction", intSetting, 2.5, nil, true},
		{"int rejects garbage", intSetting, "many", nil, true},
		{"int rejects huge float", intSetting, 1e30, nil, true},
		{"int rejects negative huge float", intSetting, -1e30, nil, true},
		{"int rejects infinity", intSetting, math.Inf(1), nil, true},
		{"float from string", floatSetting, "0.7", 0.7, false},
		{"float from int64", floatSetting, int64(1), 1.0, false},
		{"bool from string", boolSetting, "yes", true, false},
		{"bool native", boolSetting, false, false, false},
		{"bool rejects number", boolSetting, int64(1), nil, true},
		{"enum normalized", enumSetting, " WARN ", "warn", false},
		{"enum alias", enumSetting, "true", "debug", false},
		{"enum unknown", enumSetting, "loud", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.setting.Coerce(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error but got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestMaskSecret(t *testing.T) {
	tests := map[string]string{
		"":                   "",
		"short":              "****",
		"sk-abcdefghijklmno": "****jklmno",
	}
	for in, want := range tests {
		if got := domain.MaskSecret(in); got != want {
			t.Errorf("MaskSecret(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAllFailedError_Cause(t *testing.T) {
	fatal := &domain.ProviderError{Kind: domain.AuthError, Provider: domain.ProviderOpenAI, StatusCode: 401}
	exhausted := &domain.RetryExhaustedError{Attempts: 4, Last: &domain.ProviderError{Kind: domain.ServerError}}

	err := &domain.AllFailedError{Errors: []error{exhausted, fatal}}
	if got := err.Cause(); got != fatal {
		t.Errorf("got cause %v, want the fatal error", got)
	}

	onlyExhausted := &domain.AllFailedError{Errors: []error{exhausted}}
	if got := onlyExhausted.Cause(); got != exhausted {
		t.Errorf("got cause %v, want the exhausted error", got)
	}

	var pe *domain.ProviderError
	if !errors.As(err, &pe) {
		t.Error("expected errors.As to reach a ProviderError")
	}
}

func TestConfigErrorsMatchErrConfig(t *testing.T) {
	errs := []error{
		&domain.TypeError{Field: domain.FieldRef{Key: "temperature"}},
		&domain.ValidationError{Message: "conflict"},
		&domain.MissingRequiredError{Key: "openai.api_key"},
	}
	for _, err := range errs {
		if !errors.Is(err, domain.ErrConfig) {
			t.Errorf("%T does not match ErrConfig", err)
		}
	}
}

func TestMissingRequiredError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *domain.MissingRequiredError
		want string
	}{
		{"no provider", &domain.MissingRequiredError{Key: "provider", Hint: "set SHAI_API_PROVIDER"},
			"missing required setting provider (set SHAI_API_PROVIDER)"},
		{"with provider", &domain.MissingRequiredError{Key: "openai.api_key", Provider: domain.ProviderOpenAI},
			"missing required setting openai.api_key for provider openai"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

type commandsPayload struct {
	Commands []string `json:"commands"`
}

func (p *commandsPayload) Validate() error {
	if len(p.Commands) == 0 {
		return errors.New("no commands")
	}
	return nil
}

func TestRawCompletion_Decode(t *testing.T) {
	var ok commandsPayload
	if err := (domain.RawCompletion{Content: `{"commands":["ls -la"]}`}).Decode(domain.ProviderGroq, &ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ok.Commands) != 1 || ok.Commands[0] != "ls -la" {
		t.Errorf("got %v, want [ls -la]", ok.Commands)
	}

	var extra commandsPayload
	err := (domain.RawCompletion{Content: `{"commands":["ls"],"note":"x"}`}).Decode(domain.ProviderGroq, &extra)
	var pe *domain.ProviderError
	if !errors.As(err, &pe) || pe.Kind != domain.SchemaViolation {
		t.Fatalf("got %v, want SchemaViolation", err)
	}

	var truncated commandsPayload
	err = (domain.RawCompletion{Content: `{"commands":["ls`, FinishReason: "length"}).Decode(domain.ProviderGroq, &truncated)
	if !errors.As(err, &pe) || pe.Hint == "" {
		t.Fatalf("expected a truncation hint, got %v", err)
	}
}
