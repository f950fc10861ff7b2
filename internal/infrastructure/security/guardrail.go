// Package security flags suggested commands that look destructive.
package security

import (
	"fmt"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/shell-ai/assets"
	"github.com/doeshing/shell-ai/internal/domain"
	"github.com/doeshing/shell-ai/internal/ports"
)

// Guardrail implements ports.RiskAssessor with regex rules.
type Guardrail struct {
	rules []rule
}

type rule struct {
	re      *regexp.Regexp
	level   domain.RiskLevel
	message string
}

// DangerPattern describes a regex-based guardrail rule.
type DangerPattern struct {
	Pattern string `yaml:"pattern"`
	Level   string `yaml:"level"`
	Message string `yaml:"message"`
}

// RulesFile is the YAML schema root.
type RulesFile struct {
	DangerPatterns []DangerPattern `yaml:"danger_patterns"`
}

// DefaultGuardrail loads the embedded rule set.
func DefaultGuardrail() (*Guardrail, error) {
	return NewGuardrail(assets.RiskRulesYAML)
}

// NewGuardrail compiles rules from YAML.
func NewGuardrail(data []byte) (*Guardrail, error) {
	var file RulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse risk rules: %w", err)
	}

	g := &Guardrail{}
	for i, p := range file.DangerPatterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("risk rule %d: %w", i+1, err)
		}
		level := domain.RiskLevel(p.Level)
		if level.Severity() == 0 {
			return nil, fmt.Errorf("risk rule %d: unknown level %q", i+1, p.Level)
		}
		g.rules = append(g.rules, rule{re: re, level: level, message: p.Message})
	}
	return g, nil
}

// Assess returns one warning per matching rule, most severe first.
func (g *Guardrail) Assess(command string) []domain.RiskWarning {
	if g == nil {
		return nil
	}
	var warnings []domain.RiskWarning
	for _, r := range g.rules {
		if r.re.MatchString(command) {
			warnings = append(warnings, domain.RiskWarning{Level: r.level, Message: r.message})
		}
	}
	sort.SliceStable(warnings, func(i, j int) bool {
		return warnings[i].Level.Severity() > warnings[j].Level.Severity()
	})
	return warnings
}

var _ ports.RiskAssessor = (*Guardrail)(nil)
