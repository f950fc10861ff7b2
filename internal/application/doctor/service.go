// Package doctor runs offline diagnostics: nothing here contacts a
// provider.
package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/doeshing/shell-ai/internal/domain"
	"github.com/doeshing/shell-ai/internal/ports"
)

// probeCommand must trip at least one risk rule.
const probeCommand = "rm -rf /"

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	// Resolve resolves and validates the configuration against file.
	Resolve   func(domain.FileContents) (*domain.Configuration, error)
	Platform  ports.PlatformCollector
	Clipboard ports.Clipboard
	Risk      ports.RiskAssessor
	LookPath  func(string) (string, error)
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	if s.ConfigProvider == nil || s.Resolve == nil {
		return domain.HealthReport{}, errors.New("doctor.Service dependencies not satisfied")
	}
	var checks []domain.HealthCheck

	file, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", err.Error()))
		return domain.HealthReport{Checks: checks}, nil
	}
	if file.Found() {
		layers := file.Layers
		if len(layers) == 0 {
			layers = []domain.FileLayer{{Path: file.Path, Format: file.Format}}
		}
		for _, layer := range layers {
			checks = append(checks, ok("Config file", fmt.Sprintf("loaded %s (%s)", layer.Path, layer.Format)))
		}
	} else {
		checks = append(checks, ok("Config file", "none found, using defaults"))
	}

	cfg, err := s.Resolve(file)
	if err != nil {
		checks = append(checks, fail("Configuration", err.Error()))
	} else {
		checks = append(checks, configChecks(cfg)...)
	}

	if s.Platform != nil {
		platform := s.Platform.Collect(ctx)
		if platform.Shell == "" {
			checks = append(checks, warn("Platform", fmt.Sprintf("%s %s, shell unknown (set SHELL)", platform.OS, platform.Arch)))
		} else {
			checks = append(checks, ok("Platform", fmt.Sprintf("%s %s, shell %s", platform.OS, platform.Arch, platform.Shell)))
		}
	}

	if s.LookPath != nil {
		if path, err := s.LookPath("man"); err == nil {
			checks = append(checks, ok("Man pages", path))
		} else {
			checks = append(checks, warn("Man pages", "man not found; explanations will not cite documentation"))
		}
	}

	if s.Clipboard != nil {
		if s.Clipboard.Enabled() {
			checks = append(checks, ok("Clipboard", "available"))
		} else {
			checks = append(checks, warn("Clipboard", "no clipboard utility found (install xclip, xsel or wl-clipboard)"))
		}
	}

	if s.Risk != nil {
		if len(s.Risk.Assess(probeCommand)) > 0 {
			checks = append(checks, ok("Risk rules", "loaded"))
		} else {
			checks = append(checks, warn("Risk rules", "no rule matched "+probeCommand))
		}
	}

	return domain.HealthReport{Checks: checks}, nil
}

func configChecks(cfg *domain.Configuration) []domain.HealthCheck {
	profile := cfg.Profile()
	checks := []domain.HealthCheck{
		ok("Configuration", fmt.Sprintf("provider %s, model %s, frontend %s", profile.ID, profile.Model, cfg.Frontend())),
		ok("Endpoint", profile.Endpoint()),
	}
	for _, w := range cfg.Warnings() {
		checks = append(checks, warn("Configuration", w))
	}
	return checks
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
