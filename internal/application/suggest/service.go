package suggest

import (
	"context"
	"errors"
	"strings"

	"github.com/doeshing/shell-ai/internal/domain"
	"github.com/doeshing/shell-ai/internal/ports"
)

// ErrEmptyPrompt is returned when there is nothing to suggest for.
var ErrEmptyPrompt = errors.New("describe what you want to do as a single sentence")

// Service runs the generate, present, revise loop.
type Service struct {
	Orchestrator *Orchestrator
	Frontend     ports.Frontend
	Platform     domain.PlatformContext
	// Count is the number of parallel requests per round.
	Count  int
	Logger ports.Logger
}

// Run generates suggestions for prompt and hands them to the frontend
// until the frontend reports anything other than a revision.
func (s *Service) Run(ctx context.Context, prompt string) (domain.Outcome, error) {
	if s.Orchestrator == nil || s.Frontend == nil || s.Logger == nil {
		return domain.Outcome{}, errors.New("suggest.Service dependencies not satisfied")
	}
	if strings.TrimSpace(prompt) == "" {
		return domain.Outcome{}, ErrEmptyPrompt
	}

	for round := 1; ; round++ {
		req := NewRequest(prompt, s.Platform, s.Count)
		s.Logger.Info("generating suggestions", map[string]interface{}{
			"round": round,
			"count": req.DesiredCount,
		})

		suggestions, err := s.Orchestrator.Generate(ctx, req, req.DesiredCount)
		if err != nil {
			return domain.Outcome{}, err
		}

		outcome, err := s.Frontend.Present(ctx, req.Prompt, suggestions)
		if err != nil {
			return outcome, err
		}
		if outcome.Kind != domain.OutcomeRevised {
			return outcome, nil
		}
		if strings.TrimSpace(outcome.Prompt) != "" {
			prompt = outcome.Prompt
		}
	}
}
