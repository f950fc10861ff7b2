package app

import (
	"context"
	"fmt"
	"io"

	configapp "github.com/doeshing/shell-ai/internal/application/config"
	"github.com/doeshing/shell-ai/internal/application/explain"
	"github.com/doeshing/shell-ai/internal/application/retry"
	"github.com/doeshing/shell-ai/internal/application/suggest"
	"github.com/doeshing/shell-ai/internal/domain"
	"github.com/doeshing/shell-ai/internal/infrastructure/ai"
	"github.com/doeshing/shell-ai/internal/infrastructure/cli/frontend"
	"github.com/doeshing/shell-ai/internal/infrastructure/config"
	contextcollector "github.com/doeshing/shell-ai/internal/infrastructure/context"
	"github.com/doeshing/shell-ai/internal/infrastructure/executor"
	"github.com/doeshing/shell-ai/internal/infrastructure/manpage"
	"github.com/doeshing/shell-ai/internal/infrastructure/security"
	"github.com/doeshing/shell-ai/internal/pkg/logger"
	"github.com/doeshing/shell-ai/internal/ports"
)

// Options carries what the CLI layer knows before configuration is
// resolved.
type Options struct {
	// CLI holds the flags the user set, keyed by setting key.
	CLI map[string]interface{}
	Env map[string]string
	// ConfigPath overrides the config file location.
	ConfigPath string
	// Terminal reports whether stdin and stdout are terminals.
	Terminal bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Progress  ports.ProgressReporter
	Clipboard ports.Clipboard
}

// Settings is the unvalidated view of the configuration sources.
type Settings struct {
	Schema *configapp.Schema
	Loader *config.FileLoader
	File   domain.FileContents
	Values *domain.Configuration
}

// LoadSettings reads the config file and resolves every setting without
// cross-field validation.
func LoadSettings(ctx context.Context, opts Options) (*Settings, error) {
	schema, err := configapp.DefaultSchema()
	if err != nil {
		return nil, fmt.Errorf("load provider catalog: %w", err)
	}
	loader := config.NewFileLoader(opts.ConfigPath, "")
	file, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	values, err := configapp.ResolveValues(sources(opts, file), schema)
	if err != nil {
		return nil, err
	}
	return &Settings{Schema: schema, Loader: loader, File: file, Values: values}, nil
}

func sources(opts Options, file domain.FileContents) configapp.Sources {
	return configapp.Sources{CLI: opts.CLI, Env: opts.Env, File: file, Terminal: opts.Terminal}
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config         *domain.Configuration
	ConfigProvider ports.ConfigProvider
	Logger         ports.Logger
	Provider       ports.Provider
	Suggest        *suggest.Service
	Explain        *explain.Service
}

// BuildContainer resolves and validates the configuration, then constructs
// the dependency graph. No network call happens here.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	settings, err := LoadSettings(ctx, opts)
	if err != nil {
		return nil, err
	}
	cfg := settings.Values
	if err := configapp.Validate(cfg, settings.Schema); err != nil {
		return nil, err
	}

	log := logger.New(opts.Stderr, cfg.DebugLevel())
	for _, warning := range cfg.Warnings() {
		log.Warn(warning, nil)
	}
	log.Debug("configuration resolved", map[string]interface{}{
		"provider": cfg.Provider(),
		"frontend": cfg.Frontend(),
		"format":   cfg.OutputFormat(),
		"file":     settings.File.Path,
	})

	provider, err := ai.NewFactory(log).ForProfile(cfg.Profile())
	if err != nil {
		return nil, err
	}
	policy := retry.PolicyFromConfig(cfg)

	explainer := &explain.Service{
		Provider:          provider,
		References:        manpage.NewSource(nil, log),
		Policy:            policy,
		Logger:            log,
		MaxReferenceChars: cfg.Int(domain.KeyMaxReferenceChars),
	}

	guardrail, err := security.DefaultGuardrail()
	if err != nil {
		return nil, err
	}

	fe, err := frontend.New(cfg.Frontend(), frontend.Deps{
		In:        opts.Stdin,
		Out:       opts.Stdout,
		TUIOut:    opts.Stderr,
		Format:    cfg.OutputFormat(),
		Clipboard: opts.Clipboard,
		Explainer: explainer,
		Executor:  executor.NewLocalExecutor(""),
		Risk:      guardrail,
		Logger:    log,
	})
	if err != nil {
		return nil, err
	}

	suggestService := &suggest.Service{
		Orchestrator: &suggest.Orchestrator{
			Provider: provider,
			Policy:   policy,
			Logger:   log,
			Progress: opts.Progress,
		},
		Frontend: fe,
		Platform: contextcollector.NewPlatformCollector().Collect(ctx),
		Count:    cfg.RequestCount(),
		Logger:   log,
	}

	// The dialog draws its own spinner while explaining.
	standalone := *explainer
	standalone.Progress = opts.Progress

	return &Container{
		Config:         cfg,
		ConfigProvider: settings.Loader,
		Logger:         log,
		Provider:       provider,
		Suggest:        suggestService,
		Explain:        &standalone,
	}, nil
}
