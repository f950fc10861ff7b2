package app

import (
	"os/exec"

	configapp "github.com/doeshing/shell-ai/internal/application/config"
	"github.com/doeshing/shell-ai/internal/application/doctor"
	"github.com/doeshing/shell-ai/internal/domain"
	"github.com/doeshing/shell-ai/internal/infrastructure/config"
	contextcollector "github.com/doeshing/shell-ai/internal/infrastructure/context"
	"github.com/doeshing/shell-ai/internal/infrastructure/security"
)

// NewDoctor wires the diagnostics service. Unlike BuildContainer it never
// fails on a bad configuration; that is what it reports.
func NewDoctor(opts Options) (*doctor.Service, error) {
	schema, err := configapp.DefaultSchema()
	if err != nil {
		return nil, err
	}
	guardrail, err := security.DefaultGuardrail()
	if err != nil {
		return nil, err
	}

	return &doctor.Service{
		ConfigProvider: config.NewFileLoader(opts.ConfigPath, ""),
		Resolve: func(file domain.FileContents) (*domain.Configuration, error) {
			cfg, err := configapp.ResolveValues(sources(opts, file), schema)
			if err != nil {
				return nil, err
			}
			if err := configapp.Validate(cfg, schema); err != nil {
				return nil, err
			}
			return cfg, nil
		},
		Platform:  contextcollector.NewPlatformCollector(),
		Clipboard: opts.Clipboard,
		Risk:      guardrail,
		LookPath:  exec.LookPath,
	}, nil
}
