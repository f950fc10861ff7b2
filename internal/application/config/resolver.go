package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/doeshing/shell-ai/internal/domain"
)

// Sources carries the raw inputs of one resolution. CLI holds only the
// flags the user actually set, keyed by setting key. Terminal reports
// whether standard output is a terminal.
type Sources struct {
	CLI      map[string]interface{}
	Env      map[string]string
	File     domain.FileContents
	Terminal bool
}

// EnvFromList turns an os.Environ style list into a map.
func EnvFromList(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// Resolve merges every source into a validated configuration. Precedence,
// per setting: CLI flag, then environment, then config file, then default.
func Resolve(src Sources, schema *Schema) (*domain.Configuration, error) {
	cfg, err := ResolveValues(src, schema)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg, schema); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolveValues resolves and coerces every setting without running the
// cross-field rules. It backs `config show`, which must work on an
// incomplete configuration.
func ResolveValues(src Sources, schema *Schema) (*domain.Configuration, error) {
	settings := schema.Settings()
	order := make([]string, 0, len(settings))
	values := make(map[string]domain.ResolvedValue, len(settings))

	for _, setting := range settings {
		v, err := resolveSetting(setting, src)
		if err != nil {
			return nil, err
		}
		order = append(order, setting.Key)
		values[setting.Key] = v
	}

	applyLegacySkipConfirm(values)

	derived := derive(values, schema, src.Terminal)
	return domain.NewConfiguration(order, values, derived, unknownFileKeys(src.File, schema)), nil
}

func resolveSetting(setting domain.Setting, src Sources) (domain.ResolvedValue, error) {
	if raw, ok := src.CLI[setting.Key]; ok && raw != nil {
		origin := ""
		if setting.Flag != "" {
			origin = "--" + setting.Flag
		}
		return coerce(setting, raw, domain.SourceCLI, origin)
	}
	for _, name := range setting.EnvVars {
		if raw := strings.TrimSpace(src.Env[name]); raw != "" {
			return coerce(setting, raw, domain.SourceEnv, name)
		}
	}
	if raw, ok := src.File.Values[setting.Key]; ok && raw != nil && !setting.EnvOnly {
		return coerce(setting, raw, domain.SourceFile, src.File.OriginOf(setting.Key).Path)
	}
	return domain.ResolvedValue{Value: setting.Default, Source: domain.SourceDefault}, nil
}

func coerce(setting domain.Setting, raw interface{}, source domain.Source, origin string) (domain.ResolvedValue, error) {
	ref := domain.FieldRef{Key: setting.Key, Source: source, Origin: origin}
	value, err := setting.Coerce(raw)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidChoice) {
			return domain.ResolvedValue{}, &domain.ValidationError{Fields: []domain.FieldRef{ref}, Message: err.Error()}
		}
		return domain.ResolvedValue{}, &domain.TypeError{Field: ref, Kind: setting.Kind, Value: raw, Err: err}
	}
	return domain.ResolvedValue{Value: value, Source: source, Origin: origin}, nil
}

// applyLegacySkipConfirm maps SHAI_SKIP_CONFIRM=true onto the
// noninteractive frontend. It sits in the env layer, so it replaces a
// default or file frontend but not one from SHAI_FRONTEND or a flag.
func applyLegacySkipConfirm(values map[string]domain.ResolvedValue) {
	skip := values[domain.KeySkipConfirm]
	if on, _ := skip.Value.(bool); !on {
		return
	}
	switch values[domain.KeyFrontend].Source {
	case domain.SourceDefault, domain.SourceFile:
	default:
		return
	}
	values[domain.KeyFrontend] = domain.ResolvedValue{
		Value:  string(domain.FrontendNoninteractive),
		Source: skip.Source,
		Origin: skip.Origin,
	}
}

func derive(values map[string]domain.ResolvedValue, schema *Schema, terminal bool) domain.Derived {
	provider, _ := values[domain.KeyProvider].Value.(string)
	format, _ := values[domain.KeyOutputFormat].Value.(string)
	frontend, _ := values[domain.KeyFrontend].Value.(string)

	d := domain.Derived{
		Provider:     domain.ProviderID(provider),
		OutputFormat: domain.OutputFormat(format),
		Frontend:     domain.Frontend(frontend),
	}
	if d.Frontend == domain.FrontendAutomatic {
		d.Frontend = ResolveAutomaticFrontend(terminal, d.OutputFormat)
	}
	if spec, ok := schema.Catalog().Lookup(d.Provider); ok {
		d.Profile = buildProfile(values, spec)
	}
	return d
}

// ResolveAutomaticFrontend picks a concrete frontend from terminal and
// format signals.
func ResolveAutomaticFrontend(terminal bool, format domain.OutputFormat) domain.Frontend {
	if format == domain.OutputJSON {
		return domain.FrontendNoninteractive
	}
	if terminal {
		return domain.FrontendDialog
	}
	return domain.FrontendNoninteractive
}

func buildProfile(values map[string]domain.ResolvedValue, spec domain.ProviderSpec) domain.ProviderProfile {
	field := func(name string) domain.ResolvedValue {
		return values[domain.ProviderKey(spec.ID, name)]
	}
	str := func(v domain.ResolvedValue) string {
		s, _ := v.Value.(string)
		return s
	}

	profile := domain.ProviderProfile{
		ID:               spec.ID,
		EndpointTemplate: spec.Endpoint,
		AuthScheme:       spec.Auth,
		APIBase:          str(field(domain.FieldAPIBase)),
		APIKey:           str(field(domain.FieldAPIKey)),
		Model:            str(field(domain.FieldModel)),
		Organization:     str(field(domain.FieldOrganization)),
		Deployment:       str(field(domain.FieldDeploymentName)),
		APIVersion:       str(field(domain.FieldAPIVersion)),
	}
	if profile.APIKey == "" && spec.KeyFallback != "" {
		profile.APIKey = str(values[domain.ProviderKey(spec.KeyFallback, domain.FieldAPIKey)])
	}
	if global := str(values[domain.KeyModel]); global != "" {
		profile.Model = global
	}
	if n, ok := values[domain.KeyMaxTokens].Value.(int); ok {
		profile.MaxTokens = n
	} else if n, ok := field(domain.FieldMaxTokens).Value.(int); ok {
		profile.MaxTokens = n
	}
	if t, ok := values[domain.KeyTemperature].Value.(float64); ok {
		profile.Temperature = t
	}
	return profile
}

func unknownFileKeys(file domain.FileContents, schema *Schema) []string {
	var unknown []string
	for key := range file.Values {
		if setting, ok := schema.Lookup(key); !ok || setting.EnvOnly {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	warnings := make([]string, 0, len(unknown))
	for _, key := range unknown {
		warnings = append(warnings, fmt.Sprintf("unknown key %q in %s", key, file.OriginOf(key).Path))
	}
	return warnings
}
