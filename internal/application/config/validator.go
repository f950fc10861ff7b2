package config

import (
	"fmt"
	"strings"

	"github.com/doeshing/shell-ai/internal/domain"
)

// Validate runs the cross-field rules on a fully resolved configuration.
func Validate(cfg *domain.Configuration, schema *Schema) error {
	spec, err := validateProvider(cfg, schema)
	if err != nil {
		return err
	}
	if err := validateFrontendFormat(cfg); err != nil {
		return err
	}
	if err := validateLegacySkipConfirm(cfg); err != nil {
		return err
	}
	if err := validateRanges(cfg, schema); err != nil {
		return err
	}
	return validateProviderFields(cfg, schema, spec)
}

func validateProvider(cfg *domain.Configuration, schema *Schema) (domain.ProviderSpec, error) {
	if cfg.Provider() == "" {
		return domain.ProviderSpec{}, &domain.MissingRequiredError{
			Key:  domain.KeyProvider,
			Hint: fmt.Sprintf("set SHAI_API_PROVIDER, --provider or provider in config.toml to one of %s", strings.Join(providerNames(), ", ")),
		}
	}
	spec, ok := schema.Catalog().Lookup(cfg.Provider())
	if !ok {
		return domain.ProviderSpec{}, &domain.ValidationError{
			Fields:  []domain.FieldRef{cfg.Ref(domain.KeyProvider)},
			Message: fmt.Sprintf("unknown provider %q", cfg.Provider()),
		}
	}
	return spec, nil
}

// validateFrontendFormat rejects interactive frontends combined with JSON
// output. The check uses the requested frontend, before automatic
// resolution.
func validateFrontendFormat(cfg *domain.Configuration) error {
	requested := domain.Frontend(cfg.String(domain.KeyFrontend))
	if cfg.OutputFormat() != domain.OutputJSON {
		return nil
	}
	if requested != domain.FrontendDialog && requested != domain.FrontendReadline {
		return nil
	}
	return &domain.ValidationError{
		Fields: []domain.FieldRef{cfg.Ref(domain.KeyFrontend), cfg.Ref(domain.KeyOutputFormat)},
		Message: fmt.Sprintf("frontend %q cannot be combined with output_format \"json\"; use automatic or noninteractive",
			requested),
	}
}

func validateLegacySkipConfirm(cfg *domain.Configuration) error {
	if !cfg.Bool(domain.KeySkipConfirm) {
		return nil
	}
	frontend := cfg.Ref(domain.KeyFrontend)
	if frontend.Source != domain.SourceEnv {
		return nil
	}
	if domain.Frontend(cfg.String(domain.KeyFrontend)) == domain.FrontendNoninteractive {
		return nil
	}
	return &domain.ValidationError{
		Fields:  []domain.FieldRef{cfg.Ref(domain.KeySkipConfirm), frontend},
		Message: "skip_confirm=true requires frontend \"noninteractive\"; drop SHAI_SKIP_CONFIRM",
	}
}

func validateRanges(cfg *domain.Configuration, schema *Schema) error {
	for _, setting := range schema.Settings() {
		if setting.Validator == nil {
			continue
		}
		v, ok := cfg.Get(setting.Key)
		if !ok || !v.IsSet() {
			continue
		}
		if err := setting.Validator(v.Value); err != nil {
			return &domain.ValidationError{
				Fields:  []domain.FieldRef{cfg.Ref(setting.Key)},
				Message: err.Error(),
			}
		}
	}
	if cfg.Int(domain.KeyRetryBaseDelay) > cfg.Int(domain.KeyRetryMaxDelay) {
		return &domain.ValidationError{
			Fields:  []domain.FieldRef{cfg.Ref(domain.KeyRetryBaseDelay), cfg.Ref(domain.KeyRetryMaxDelay)},
			Message: "base delay must not exceed max delay",
		}
	}
	return nil
}

func validateProviderFields(cfg *domain.Configuration, schema *Schema, spec domain.ProviderSpec) error {
	profile := cfg.Profile()
	if spec.KeyRequired && profile.APIKey == "" {
		return missing(schema, spec, domain.FieldAPIKey, spec.KeyFallback)
	}
	for _, field := range spec.Required {
		if cfg.String(domain.ProviderKey(spec.ID, field)) == "" {
			return missing(schema, spec, field, "")
		}
	}
	return nil
}

func missing(schema *Schema, spec domain.ProviderSpec, field string, fallback domain.ProviderID) error {
	key := domain.ProviderKey(spec.ID, field)
	var options []string
	if setting, ok := schema.Lookup(key); ok {
		options = append(options, setting.EnvVars...)
	}
	options = append(options, fmt.Sprintf("[%s] %s in config.toml", spec.ID, field))
	if fallback != "" {
		options = append(options, domain.ProviderKey(fallback, field))
	}
	return &domain.MissingRequiredError{
		Key:      key,
		Provider: spec.ID,
		Hint:     "set " + strings.Join(options, " or "),
	}
}
