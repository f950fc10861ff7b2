package helpers

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/doeshing/shell-ai/internal/app"
	configapp "github.com/doeshing/shell-ai/internal/application/config"
	"github.com/doeshing/shell-ai/internal/domain"
	"github.com/doeshing/shell-ai/internal/ports"
)

const (
	flagConfig = "config"
	envConfig  = "SHAI_CONFIG"
)

// Runtime is the process environment shared by every command.
type Runtime struct {
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Environ []string
	// Terminal reports whether stdin and stdout are terminals.
	Terminal bool
	// PipedInput reports whether stdin is a pipe or file rather than a
	// terminal.
	PipedInput bool

	Progress  ports.ProgressReporter
	Clipboard ports.Clipboard

	Schema *configapp.Schema
}

// BindFlags registers one persistent flag per setting that has a flag name,
// plus --config.
func (rt *Runtime) BindFlags(flags *pflag.FlagSet) {
	flags.String(flagConfig, "", "Config file path (env: "+envConfig+")")
	for _, setting := range rt.Schema.Settings() {
		if setting.Flag == "" {
			continue
		}
		flags.String(setting.Flag, "", setting.Description)
		if setting.Key == domain.KeyDebug {
			flags.Lookup(setting.Flag).NoOptDefVal = string(domain.DebugDebug)
		}
	}
}

// Options collects the flags the user set into container options.
func (rt *Runtime) Options(cmd *cobra.Command) app.Options {
	env := configapp.EnvFromList(rt.Environ)
	cli := map[string]interface{}{}
	configPath := env[envConfig]

	cmd.Flags().Visit(func(f *pflag.Flag) {
		if f.Name == flagConfig {
			configPath = f.Value.String()
			return
		}
		if setting, ok := rt.Schema.ByFlag(f.Name); ok {
			cli[setting.Key] = f.Value.String()
		}
	})

	return app.Options{
		CLI:        cli,
		Env:        env,
		ConfigPath: configPath,
		Terminal:   rt.Terminal,
		Stdin:      rt.Stdin,
		Stdout:     rt.Stdout,
		Stderr:     rt.Stderr,
		Progress:   rt.Progress,
		Clipboard:  rt.Clipboard,
	}
}

// Container builds the validated dependency graph for cmd.
func (rt *Runtime) Container(cmd *cobra.Command) (*app.Container, error) {
	container, err := app.BuildContainer(cmd.Context(), rt.Options(cmd))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return container, nil
}

// Settings resolves the configuration without validating it.
func (rt *Runtime) Settings(cmd *cobra.Command) (*app.Settings, error) {
	settings, err := app.LoadSettings(cmd.Context(), rt.Options(cmd))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return settings, nil
}
