package config

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/shell-ai/internal/domain"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()
	schema, err := DefaultSchema()
	require.NoError(t, err)
	return schema
}

func fileWith(values map[string]interface{}) domain.FileContents {
	return domain.FileContents{Path: "/home/u/.config/shell-ai/config.toml", Format: domain.FileFormatTOML, Values: values}
}

func TestResolvePrecedence(t *testing.T) {
	schema := testSchema(t)

	// Every combination of cli/env/file presence for one setting.
	for mask := 0; mask < 8; mask++ {
		withCLI, withEnv, withFile := mask&4 != 0, mask&2 != 0, mask&1 != 0
		t.Run(fmt.Sprintf("cli=%v env=%v file=%v", withCLI, withEnv, withFile), func(t *testing.T) {
			src := Sources{
				CLI:  map[string]interface{}{},
				Env:  map[string]string{},
				File: fileWith(map[string]interface{}{"provider": "ollama"}),
			}
			if withCLI {
				src.CLI[domain.KeyTemperature] = "0.9"
			}
			if withEnv {
				src.Env["SHAI_TEMPERATURE"] = "0.5"
			}
			if withFile {
				src.File.Values[domain.KeyTemperature] = 0.3
			}

			cfg, err := Resolve(src, schema)
			require.NoError(t, err)
			got, _ := cfg.Get(domain.KeyTemperature)

			switch {
			case withCLI:
				assert.Equal(t, 0.9, got.Value)
				assert.Equal(t, domain.SourceCLI, got.Source)
				assert.Equal(t, "--temperature", got.Origin)
			case withEnv:
				assert.Equal(t, 0.5, got.Value)
				assert.Equal(t, domain.SourceEnv, got.Source)
				assert.Equal(t, "SHAI_TEMPERATURE", got.Origin)
			case withFile:
				assert.Equal(t, 0.3, got.Value)
				assert.Equal(t, domain.SourceFile, got.Source)
			default:
				assert.Equal(t, domain.DefaultTemperature, got.Value)
				assert.Equal(t, domain.SourceDefault, got.Source)
			}
		})
	}
}

func TestResolveEnvModelOverridesFileModel(t *testing.T) {
	src := Sources{
		Env: map[string]string{"OPENAI_MODEL": "gpt-5"},
		File: fileWith(map[string]interface{}{
			"provider":       "openai",
			"openai.api_key": "k",
			"openai.model":   "gpt-4o-mini",
		}),
	}

	cfg, err := Resolve(src, testSchema(t))
	require.NoError(t, err)

	model := cfg.EffectiveModel()
	assert.Equal(t, "gpt-5", model.Value)
	assert.Equal(t, domain.SourceEnv, model.Source)
	assert.Equal(t, "gpt-5", cfg.Profile().Model)
	assert.Equal(t, "k", cfg.Profile().APIKey)
}

func TestResolveTypeErrorNamesKeyAndSource(t *testing.T) {
	src := Sources{
		Env:  map[string]string{"SHAI_SUGGESTION_COUNT": "lots"},
		File: fileWith(map[string]interface{}{"provider": "ollama"}),
	}

	_, err := Resolve(src, testSchema(t))
	require.Error(t, err)

	var typeErr *domain.TypeError
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, domain.KeySuggestionCount, typeErr.Field.Key)
	assert.Equal(t, domain.SourceEnv, typeErr.Field.Source)
	assert.Equal(t, "SHAI_SUGGESTION_COUNT", typeErr.Field.Origin)
	assert.True(t, errors.Is(err, domain.ErrConfig))
}

func TestResolveAcceptsStringNumbersFromFile(t *testing.T) {
	src := Sources{File: fileWith(map[string]interface{}{
		"provider":          "ollama",
		"suggestion_count":  "5",
		"ollama.max_tokens": int64(256),
	})}

	cfg, err := Resolve(src, testSchema(t))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Int(domain.KeySuggestionCount))
	assert.Equal(t, 256, cfg.Profile().MaxTokens)
}

func TestResolveUnknownProviderIsValidationError(t *testing.T) {
	src := Sources{CLI: map[string]interface{}{domain.KeyProvider: "anthropic"}}

	_, err := Resolve(src, testSchema(t))
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr), "got %v", err)
	assert.Equal(t, domain.SourceCLI, vErr.Fields[0].Source)
}

func TestResolveMissingProvider(t *testing.T) {
	_, err := Resolve(Sources{}, testSchema(t))
	var missing *domain.MissingRequiredError
	require.True(t, errors.As(err, &missing), "got %v", err)
	assert.Equal(t, domain.KeyProvider, missing.Key)
}

func TestResolveJSONConflictsWithInteractiveFrontends(t *testing.T) {
	schema := testSchema(t)
	frontends := []string{"automatic", "dialog", "readline", "noninteractive"}
	formats := []string{"human", "json"}

	for _, frontend := range frontends {
		for _, format := range formats {
			t.Run(frontend+"/"+format, func(t *testing.T) {
				src := Sources{
					Env:  map[string]string{"SHAI_OUTPUT_FORMAT": format},
					CLI:  map[string]interface{}{domain.KeyFrontend: frontend},
					File: fileWith(map[string]interface{}{"provider": "ollama"}),
				}
				_, err := Resolve(src, schema)

				conflict := format == "json" && (frontend == "dialog" || frontend == "readline")
				if !conflict {
					assert.NoError(t, err)
					return
				}
				var vErr *domain.ValidationError
				require.True(t, errors.As(err, &vErr), "got %v", err)
				require.Len(t, vErr.Fields, 2)
				assert.Equal(t, domain.KeyFrontend, vErr.Fields[0].Key)
				assert.Equal(t, domain.SourceCLI, vErr.Fields[0].Source)
				assert.Equal(t, domain.KeyOutputFormat, vErr.Fields[1].Key)
				assert.Equal(t, domain.SourceEnv, vErr.Fields[1].Source)
			})
		}
	}
}

func TestResolveAutomaticFrontendTruthTable(t *testing.T) {
	tests := []struct {
		terminal bool
		format   domain.OutputFormat
		want     domain.Frontend
	}{
		{true, domain.OutputHuman, domain.FrontendDialog},
		{false, domain.OutputHuman, domain.FrontendNoninteractive},
		{true, domain.OutputJSON, domain.FrontendNoninteractive},
		{false, domain.OutputJSON, domain.FrontendNoninteractive},
	}
	schema := testSchema(t)
	for _, tt := range tests {
		t.Run(fmt.Sprintf("tty=%v/%s", tt.terminal, tt.format), func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveAutomaticFrontend(tt.terminal, tt.format))

			cfg, err := Resolve(Sources{
				Terminal: tt.terminal,
				Env:      map[string]string{"SHAI_OUTPUT_FORMAT": string(tt.format), "SHAI_API_PROVIDER": "ollama"},
			}, schema)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Frontend())
		})
	}
}

func TestResolveLegacySkipConfirm(t *testing.T) {
	schema := testSchema(t)

	cfg, err := Resolve(Sources{Env: map[string]string{
		"SHAI_API_PROVIDER": "ollama",
		"SHAI_SKIP_CONFIRM": "true",
	}, Terminal: true}, schema)
	require.NoError(t, err)
	assert.Equal(t, domain.FrontendNoninteractive, cfg.Frontend())
	frontend, _ := cfg.Get(domain.KeyFrontend)
	assert.Equal(t, "SHAI_SKIP_CONFIRM", frontend.Origin)

	_, err = Resolve(Sources{Env: map[string]string{
		"SHAI_API_PROVIDER": "ollama",
		"SHAI_SKIP_CONFIRM": "true",
		"SHAI_FRONTEND":     "dialog",
	}}, schema)
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr), "got %v", err)
}

func TestResolveSkipConfirmOverridesFileFrontend(t *testing.T) {
	schema := testSchema(t)

	cfg, err := Resolve(Sources{
		Env:      map[string]string{"SHAI_API_PROVIDER": "ollama", "SHAI_SKIP_CONFIRM": "true"},
		File:     fileWith(map[string]interface{}{"frontend": "dialog"}),
		Terminal: true,
	}, schema)
	require.NoError(t, err)
	assert.Equal(t, domain.FrontendNoninteractive, cfg.Frontend())
	frontend, _ := cfg.Get(domain.KeyFrontend)
	assert.Equal(t, domain.SourceEnv, frontend.Source)

	cfg, err = Resolve(Sources{
		Env:      map[string]string{"SHAI_API_PROVIDER": "ollama", "SHAI_SKIP_CONFIRM": "true"},
		CLI:      map[string]interface{}{domain.KeyFrontend: "readline"},
		Terminal: true,
	}, schema)
	require.NoError(t, err)
	assert.Equal(t, domain.FrontendReadline, cfg.Frontend())
}

func TestResolveIgnoresSkipConfirmInFile(t *testing.T) {
	schema := testSchema(t)

	cfg, err := Resolve(Sources{
		File:     fileWith(map[string]interface{}{"provider": "ollama", "skip_confirm": true}),
		Terminal: true,
	}, schema)
	require.NoError(t, err)
	assert.Equal(t, domain.FrontendDialog, cfg.Frontend())
	assert.False(t, cfg.Bool(domain.KeySkipConfirm))
	assert.Contains(t, cfg.Warnings(), `unknown key "skip_confirm" in /home/u/.config/shell-ai/config.toml`)
}

func TestResolveRecordsFileOfEachValue(t *testing.T) {
	schema := testSchema(t)
	jsonLayer := domain.FileLayer{Path: "/home/u/.config/shell-ai/config.json", Format: domain.FileFormatJSON}
	file := fileWith(map[string]interface{}{"provider": "ollama", "temperature": 0.4})
	file.Origins = map[string]domain.FileLayer{"temperature": jsonLayer}

	cfg, err := Resolve(Sources{File: file}, schema)
	require.NoError(t, err)
	temperature, _ := cfg.Get(domain.KeyTemperature)
	assert.Equal(t, jsonLayer.Path, temperature.Origin)
	provider, _ := cfg.Get(domain.KeyProvider)
	assert.Equal(t, file.Path, provider.Origin)
}

func TestResolveRejectsOutOfRangeInteger(t *testing.T) {
	_, err := Resolve(Sources{File: fileWith(map[string]interface{}{
		"provider":          "ollama",
		"ollama.max_tokens": 1e30,
	})}, testSchema(t))
	var typeErr *domain.TypeError
	require.True(t, errors.As(err, &typeErr), "got %v", err)
	assert.Equal(t, "ollama.max_tokens", typeErr.Field.Key)
	assert.NotContains(t, err.Error(), "-9223372036854775808")
}

func TestResolveAzureRequirements(t *testing.T) {
	schema := testSchema(t)
	base := map[string]interface{}{
		"provider":       "azure",
		"openai.api_key": "shared-key",
		"azure.api_base": "https://example.openai.azure.com",
	}

	_, err := Resolve(Sources{File: fileWith(base)}, schema)
	var missing *domain.MissingRequiredError
	require.True(t, errors.As(err, &missing), "got %v", err)
	assert.Equal(t, "azure.deployment_name", missing.Key)
	assert.Contains(t, missing.Hint, "AZURE_DEPLOYMENT_NAME")

	cfg, err := Resolve(Sources{
		File: fileWith(base),
		Env:  map[string]string{"AZURE_DEPLOYMENT_NAME": "prod"},
	}, schema)
	require.NoError(t, err)
	profile := cfg.Profile()
	assert.Equal(t, "shared-key", profile.APIKey, "azure falls back to the openai key")
	assert.Equal(t, "2024-10-21", profile.APIVersion)
	assert.Equal(t, domain.AuthAPIKey, profile.AuthScheme)
}

func TestResolveMissingAPIKey(t *testing.T) {
	_, err := Resolve(Sources{Env: map[string]string{"SHAI_API_PROVIDER": "groq"}}, testSchema(t))
	var missing *domain.MissingRequiredError
	require.True(t, errors.As(err, &missing), "got %v", err)
	assert.Equal(t, "groq.api_key", missing.Key)
	assert.Contains(t, missing.Hint, "GROQ_API_KEY")
}

func TestResolveRangeValidation(t *testing.T) {
	_, err := Resolve(Sources{Env: map[string]string{
		"SHAI_API_PROVIDER":     "ollama",
		"SHAI_SUGGESTION_COUNT": "12",
	}}, testSchema(t))
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr), "got %v", err)
	assert.Equal(t, domain.KeySuggestionCount, vErr.Fields[0].Key)
}

func TestResolveIsDeterministic(t *testing.T) {
	schema := testSchema(t)
	src := Sources{
		Env:  map[string]string{"SHAI_API_PROVIDER": "mistral", "MISTRAL_API_KEY": "m-key"},
		File: fileWith(map[string]interface{}{"temperature": 0.2}),
	}
	first, err := Resolve(src, schema)
	require.NoError(t, err)
	second, err := Resolve(src, schema)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second, cmp.AllowUnexported(domain.Configuration{})); diff != "" {
		t.Errorf("resolution is not repeatable (-first +second):\n%s", diff)
	}
}

func TestResolveWarnsAboutUnknownFileKeys(t *testing.T) {
	cfg, err := ResolveValues(Sources{File: fileWith(map[string]interface{}{
		"provider":    "ollama",
		"temprature":  0.4,
		"ollama.host": "x",
	})}, testSchema(t))
	require.NoError(t, err)
	assert.Len(t, cfg.Warnings(), 2)
	assert.Contains(t, cfg.Warnings()[0], "ollama.host")
}

func TestEnvFromList(t *testing.T) {
	env := EnvFromList([]string{"A=1", "B=x=y", "broken"})
	assert.Equal(t, map[string]string{"A": "1", "B": "x=y"}, env)
}
