package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/shell-ai/internal/app"
	configapp "github.com/doeshing/shell-ai/internal/application/config"
	"github.com/doeshing/shell-ai/internal/domain"
	"github.com/doeshing/shell-ai/internal/infrastructure/cli/helpers"
)

const (
	msgConfigurationValid       = "Configuration valid"
	msgNoDifferencesFromDefault = "No differences from default configuration."
)

// NewConfigCommand creates the config command with all subcommands
func NewConfigCommand(rt *helpers.Runtime) *cobra.Command {
	var format string

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect shell-ai configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd, rt, format)
		},
	}
	configCmd.Flags().StringVar(&format, "format", formatHuman, "Output format: human|json|yaml")

	configCmd.AddCommand(
		newConfigShowCommand(rt),
		newConfigSchemaCommand(rt),
		newConfigValidateCommand(rt),
		newConfigDiffCommand(rt),
		newConfigInitCommand(rt),
	)

	return configCmd
}

// newConfigShowCommand creates the 'config show' subcommand
func newConfigShowCommand(rt *helpers.Runtime) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show every resolved setting and where it came from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd, rt, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", formatHuman, "Output format: human|json|yaml")
	return cmd
}

// newConfigSchemaCommand creates the 'config schema' subcommand
func newConfigSchemaCommand(rt *helpers.Runtime) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "List every setting with its type, default, env vars and flag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showSchema(cmd.OutOrStdout(), rt.Schema, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", formatHuman, "Output format: human|json|yaml")
	return cmd
}

// newConfigValidateCommand creates the 'config validate' subcommand
func newConfigValidateCommand(rt *helpers.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration without contacting a provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := rt.Settings(cmd)
			if err != nil {
				return err
			}
			if err := configapp.Validate(settings.Values, settings.Schema); err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			helpers.PrintWarnings(cmd.ErrOrStderr(), settings.Values.Warnings())
			fmt.Fprintln(cmd.OutOrStdout(), msgConfigurationValid)
			return nil
		},
	}
}

// newConfigDiffCommand creates the 'config diff' subcommand
func newConfigDiffCommand(rt *helpers.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show settings that differ from their defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := rt.Settings(cmd)
			if err != nil {
				return err
			}
			return showConfigurationDiff(cmd.OutOrStdout(), settings)
		},
	}
}

// settingView is one row of `config show`.
type settingView struct {
	Key    string `json:"key" yaml:"key"`
	Value  string `json:"value" yaml:"value"`
	Source string `json:"source" yaml:"source"`
	Origin string `json:"origin,omitempty" yaml:"origin,omitempty"`
}

type configView struct {
	File     string        `json:"file,omitempty" yaml:"file,omitempty"`
	Files    []string      `json:"files,omitempty" yaml:"files,omitempty"`
	Provider string        `json:"provider" yaml:"provider"`
	Frontend string        `json:"frontend" yaml:"frontend"`
	Format   string        `json:"output_format" yaml:"output_format"`
	Settings []settingView `json:"settings" yaml:"settings"`
	Warnings []string      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func showConfiguration(cmd *cobra.Command, rt *helpers.Runtime, format string) error {
	settings, err := rt.Settings(cmd)
	if err != nil {
		return err
	}
	return writeConfigView(cmd.OutOrStdout(), buildConfigView(settings), format)
}

func buildConfigView(settings *app.Settings) configView {
	cfg := settings.Values
	view := configView{
		File:     settings.File.Path,
		Provider: string(cfg.Provider()),
		Frontend: string(cfg.Frontend()),
		Format:   string(cfg.OutputFormat()),
		Warnings: cfg.Warnings(),
	}
	for _, layer := range settings.File.Layers {
		view.Files = append(view.Files, layer.Path)
	}
	for _, key := range cfg.Keys() {
		setting, ok := settings.Schema.Lookup(key)
		if !ok {
			continue
		}
		value, _ := cfg.Get(key)
		view.Settings = append(view.Settings, settingView{
			Key:    key,
			Value:  setting.FormatValue(value.Value),
			Source: sourceTag(value, settings.File.OriginOf(key).Format),
			Origin: value.Origin,
		})
	}
	return view
}

// sourceTag names the layer a value came from. File values are tagged
// with their file's format so legacy JSON values stand out.
func sourceTag(value domain.ResolvedValue, format domain.FileFormat) string {
	if value.Source == domain.SourceFile && format != "" {
		return string(format)
	}
	return string(value.Source)
}

func writeConfigView(out io.Writer, view configView, format string) error {
	switch strings.ToLower(format) {
	case formatJSON:
		return writeJSON(out, view)
	case formatYAML:
		return writeYAML(out, view)
	case formatHuman, "":
	default:
		return fmt.Errorf("unsupported format %q (want human, json or yaml)", format)
	}

	switch {
	case len(view.Files) > 1:
		fmt.Fprintf(out, "Config files: %s\n", strings.Join(view.Files, ", "))
	case view.File != "":
		fmt.Fprintf(out, "Config file: %s\n", view.File)
	default:
		fmt.Fprintln(out, "Config file: (none)")
	}
	fmt.Fprintf(out, "Provider: %s  Frontend: %s  Output: %s\n\n", view.Provider, view.Frontend, view.Format)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE\tORIGIN")
	for _, s := range view.Settings {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Key, s.Value, s.Source, s.Origin)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	helpers.PrintWarnings(out, view.Warnings)
	return nil
}

type schemaView struct {
	Key         string   `json:"key" yaml:"key"`
	Kind        string   `json:"kind" yaml:"kind"`
	Default     string   `json:"default" yaml:"default"`
	Choices     []string `json:"choices,omitempty" yaml:"choices,omitempty"`
	EnvVars     []string `json:"env,omitempty" yaml:"env,omitempty"`
	Flag        string   `json:"flag,omitempty" yaml:"flag,omitempty"`
	Description string   `json:"description" yaml:"description"`
}

func showSchema(out io.Writer, schema *configapp.Schema, format string) error {
	var rows []schemaView
	for _, s := range schema.Settings() {
		kind := string(s.Kind)
		if s.Kind == domain.KindNumber && s.Integer {
			kind = "integer"
		}
		row := schemaView{
			Key:         s.Key,
			Kind:        kind,
			Default:     s.FormatValue(s.Default),
			Choices:     s.Choices,
			EnvVars:     s.EnvVars,
			Description: s.Description,
		}
		if s.Flag != "" {
			row.Flag = "--" + s.Flag
		}
		rows = append(rows, row)
	}

	switch strings.ToLower(format) {
	case formatJSON:
		return writeJSON(out, rows)
	case formatYAML:
		return writeYAML(out, rows)
	case formatHuman, "":
	default:
		return fmt.Errorf("unsupported format %q (want human, json or yaml)", format)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tKIND\tDEFAULT\tENV\tFLAG")
	for _, r := range rows {
		kind := r.Kind
		if len(r.Choices) > 0 {
			kind = strings.Join(r.Choices, "|")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Key, kind, r.Default, strings.Join(r.EnvVars, ","), r.Flag)
	}
	return tw.Flush()
}

func showConfigurationDiff(out io.Writer, settings *app.Settings) error {
	defaults := map[string]string{}
	current := map[string]string{}
	for _, key := range settings.Values.Keys() {
		setting, ok := settings.Schema.Lookup(key)
		if !ok {
			continue
		}
		value, _ := settings.Values.Get(key)
		if value.Source == domain.SourceDefault {
			continue
		}
		defaults[key] = setting.FormatValue(setting.Default)
		current[key] = setting.FormatValue(value.Value)
	}

	diff := cmp.Diff(defaults, current)
	if diff == "" {
		fmt.Fprintln(out, msgNoDifferencesFromDefault)
		return nil
	}
	fmt.Fprintln(out, "Differences from default configuration (-default +current):")
	fmt.Fprint(out, diff)
	return nil
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(out io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
