package config

import (
	"fmt"
	"strings"

	"github.com/doeshing/shell-ai/internal/domain"
)

// Schema enumerates every setting in display order.
type Schema struct {
	settings []domain.Setting
	index    map[string]int
	catalog  Catalog
}

// DefaultSchema builds the schema from the embedded provider catalog.
func DefaultSchema() (*Schema, error) {
	cat, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	return NewSchema(cat), nil
}

// NewSchema assembles global settings followed by one group per provider.
func NewSchema(cat Catalog) *Schema {
	s := &Schema{index: map[string]int{}, catalog: cat}
	for _, setting := range globalSettings() {
		s.add(setting)
	}
	for _, spec := range cat.Providers {
		for _, setting := range providerSettings(spec) {
			s.add(setting)
		}
	}
	return s
}

func (s *Schema) add(setting domain.Setting) {
	s.index[setting.Key] = len(s.settings)
	s.settings = append(s.settings, setting)
}

// Settings returns all settings in order.
func (s *Schema) Settings() []domain.Setting {
	return append([]domain.Setting(nil), s.settings...)
}

// Lookup finds a setting by key.
func (s *Schema) Lookup(key string) (domain.Setting, bool) {
	i, ok := s.index[key]
	if !ok {
		return domain.Setting{}, false
	}
	return s.settings[i], true
}

// ByFlag finds the setting bound to a CLI flag.
func (s *Schema) ByFlag(flag string) (domain.Setting, bool) {
	for _, setting := range s.settings {
		if setting.Flag != "" && setting.Flag == flag {
			return setting, true
		}
	}
	return domain.Setting{}, false
}

// Catalog returns the provider catalog the schema was built from.
func (s *Schema) Catalog() Catalog {
	return s.catalog
}

func providerNames() []string {
	ids := domain.KnownProviders()
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, string(id))
	}
	return names
}

func globalSettings() []domain.Setting {
	return []domain.Setting{
		{
			Key:         domain.KeyProvider,
			Kind:        domain.KindEnum,
			Choices:     providerNames(),
			EnvVars:     []string{"SHAI_API_PROVIDER", "SHAI_PROVIDER"},
			Flag:        "provider",
			Description: "AI provider to use",
		},
		{
			Key:         domain.KeyModel,
			Kind:        domain.KindString,
			EnvVars:     []string{"SHAI_MODEL"},
			Flag:        "model",
			Description: "Model override for the active provider",
		},
		{
			Key:         domain.KeyFrontend,
			Kind:        domain.KindEnum,
			Default:     string(domain.FrontendAutomatic),
			Choices:     []string{"automatic", "dialog", "readline", "noninteractive"},
			EnvVars:     []string{"SHAI_FRONTEND"},
			Flag:        "frontend",
			Description: "Interaction mode",
		},
		{
			Key:         domain.KeyOutputFormat,
			Kind:        domain.KindEnum,
			Default:     string(domain.OutputHuman),
			Choices:     []string{"human", "json"},
			EnvVars:     []string{"SHAI_OUTPUT_FORMAT"},
			Flag:        "output-format",
			Description: "Output format: human or json",
		},
		{
			Key:     domain.KeyDebug,
			Kind:    domain.KindEnum,
			Default: string(domain.DebugWarn),
			Choices: []string{"off", "error", "warn", "info", "debug", "trace"},
			Aliases: map[string]string{
				"true": "debug", "1": "debug", "yes": "debug", "on": "debug",
				"false": "warn", "0": "warn", "no": "warn",
			},
			EnvVars:     []string{"SHAI_DEBUG"},
			Flag:        "debug",
			Description: "Log level: off, error, warn, info, debug, trace",
		},
		{
			Key:         domain.KeyMaxTokens,
			Kind:        domain.KindNumber,
			Integer:     true,
			EnvVars:     []string{"SHAI_MAX_TOKENS"},
			Flag:        "max-tokens",
			Description: "Maximum tokens in the response (unset lets the provider decide)",
			Validator:   positive,
		},
		{
			Key:         domain.KeyTemperature,
			Kind:        domain.KindNumber,
			Default:     domain.DefaultTemperature,
			EnvVars:     []string{"SHAI_TEMPERATURE"},
			Flag:        "temperature",
			Description: "Sampling temperature",
			Validator:   inRange(0, 2),
		},
		{
			Key:         domain.KeySuggestionCount,
			Kind:        domain.KindNumber,
			Integer:     true,
			Default:     domain.DefaultSuggestionCount,
			EnvVars:     []string{"SHAI_SUGGESTION_COUNT"},
			Flag:        "suggestion-count",
			Description: "Number of parallel suggestion requests",
			Validator:   inRange(1, domain.MaxSuggestionCount),
		},
		{
			Key:         domain.KeyMaxReferenceChars,
			Kind:        domain.KindNumber,
			Integer:     true,
			Default:     domain.DefaultMaxReferenceChars,
			EnvVars:     []string{"SHAI_MAX_REFERENCE_CHARS"},
			Description: "Character budget for man page references sent with explain",
			Validator:   positive,
		},
		{
			Key:         domain.KeySkipConfirm,
			Kind:        domain.KindBool,
			Default:     false,
			EnvVars:     []string{"SHAI_SKIP_CONFIRM"},
			Description: "Legacy: true selects the noninteractive frontend",
			EnvOnly:     true,
		},
		{
			Key:         domain.KeyRetryMaxAttempts,
			Kind:        domain.KindNumber,
			Integer:     true,
			Default:     domain.DefaultRetryMaxAttempts,
			EnvVars:     []string{"SHAI_RETRY_MAX_ATTEMPTS"},
			Description: "Attempts per request, including the first",
			Validator:   positive,
		},
		{
			Key:         domain.KeyRetryBaseDelay,
			Kind:        domain.KindNumber,
			Integer:     true,
			Default:     int(domain.DefaultRetryBaseDelay.Milliseconds()),
			EnvVars:     []string{"SHAI_RETRY_BASE_DELAY_MS"},
			Description: "First retry delay in milliseconds",
			Validator:   positive,
		},
		{
			Key:         domain.KeyRetryMaxDelay,
			Kind:        domain.KindNumber,
			Integer:     true,
			Default:     int(domain.DefaultRetryMaxDelay.Milliseconds()),
			EnvVars:     []string{"SHAI_RETRY_MAX_DELAY_MS"},
			Description: "Upper bound for a single retry delay in milliseconds",
			Validator:   positive,
		},
		{
			Key:         domain.KeyRetryJitter,
			Kind:        domain.KindNumber,
			Default:     domain.DefaultRetryJitter,
			EnvVars:     []string{"SHAI_RETRY_JITTER"},
			Description: "Random spread applied to each delay, as a fraction (0 disables)",
			Validator:   inRangeOpen(0, 1),
		},
	}
}

func providerSettings(spec domain.ProviderSpec) []domain.Setting {
	prefix := strings.ToUpper(string(spec.ID))
	name := spec.DisplayName
	if name == "" {
		name = string(spec.ID)
	}
	settings := []domain.Setting{
		{
			Key:         domain.ProviderKey(spec.ID, domain.FieldAPIKey),
			Kind:        domain.KindString,
			EnvVars:     []string{prefix + "_API_KEY"},
			Description: name + " API key",
			Secret:      true,
		},
		{
			Key:         domain.ProviderKey(spec.ID, domain.FieldAPIBase),
			Kind:        domain.KindString,
			Default:     optionalString(spec.APIBase),
			EnvVars:     []string{prefix + "_API_BASE"},
			Description: name + " API base URL",
		},
		{
			Key:         domain.ProviderKey(spec.ID, domain.FieldModel),
			Kind:        domain.KindString,
			Default:     optionalString(spec.Model),
			EnvVars:     []string{prefix + "_MODEL"},
			Description: name + " model",
		},
		{
			Key:         domain.ProviderKey(spec.ID, domain.FieldMaxTokens),
			Kind:        domain.KindNumber,
			Integer:     true,
			EnvVars:     []string{prefix + "_MAX_TOKENS"},
			Description: name + " maximum response tokens",
			Validator:   positive,
		},
	}
	common := settings[:0]
	for _, setting := range settings {
		if spec.Takes(strings.TrimPrefix(setting.Key, string(spec.ID)+".")) {
			common = append(common, setting)
		}
	}
	settings = common
	for _, field := range spec.Fields {
		settings = append(settings, domain.Setting{
			Key:         domain.ProviderKey(spec.ID, field.Key),
			Kind:        domain.KindString,
			Default:     optionalString(field.Default),
			EnvVars:     field.Env,
			Description: field.Description,
		})
	}
	return settings
}

func optionalString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func positive(v interface{}) error {
	switch n := v.(type) {
	case int:
		if n <= 0 {
			return fmt.Errorf("must be > 0, got %d", n)
		}
	case float64:
		if n <= 0 {
			return fmt.Errorf("must be > 0, got %v", n)
		}
	}
	return nil
}

func inRange(lo, hi float64) func(interface{}) error {
	return func(v interface{}) error {
		var f float64
		switch n := v.(type) {
		case int:
			f = float64(n)
		case float64:
			f = n
		default:
			return nil
		}
		if f < lo || f > hi {
			return fmt.Errorf("must be between %v and %v, got %v", lo, hi, v)
		}
		return nil
	}
}

func inRangeOpen(lo, hi float64) func(interface{}) error {
	return func(v interface{}) error {
		f, ok := v.(float64)
		if !ok {
			return nil
		}
		if f < lo || f >= hi {
			return fmt.Errorf("must be >= %v and < %v, got %v", lo, hi, f)
		}
		return nil
	}
}
