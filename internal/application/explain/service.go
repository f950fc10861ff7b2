// Package explain breaks shell commands into described fragments, backed by
// man page excerpts when they are available.
package explain

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/doeshing/shell-ai/internal/application/retry"
	"github.com/doeshing/shell-ai/internal/domain"
	"github.com/doeshing/shell-ai/internal/ports"
)

// ErrEmptyCommand is returned when there is nothing to explain.
var ErrEmptyCommand = errors.New("no command to explain")

// Service implements ports.Explainer.
type Service struct {
	Provider   ports.Provider
	References ports.ReferenceSource
	Policy     retry.Policy
	Logger     ports.Logger
	// Progress is optional. Frontends that draw their own spinner leave
	// it nil.
	Progress ports.ProgressReporter
	// MaxReferenceChars is the total documentation budget. Zero disables
	// references.
	MaxReferenceChars int
}

// Explain asks the provider for a breakdown of command. When the backend
// rejects the request as too large, the smallest reference is dropped and
// the request is sent again.
func (s *Service) Explain(ctx context.Context, command string) (domain.ExplanationResult, error) {
	if s.Provider == nil || s.Logger == nil {
		return domain.ExplanationResult{}, errors.New("explain.Service dependencies not satisfied")
	}
	command = strings.TrimSpace(command)
	if command == "" {
		return domain.ExplanationResult{}, ErrEmptyCommand
	}

	if s.Progress != nil {
		s.Progress.Start("Explaining command")
		defer s.Progress.Stop()
	}

	refs := s.gather(ctx, command)
	log := map[string]interface{}{
		"request_id": uuid.NewString(),
		"provider":   s.Provider.Name(),
	}
	policy := s.Policy.WithLogger(s.Logger, log)

	for {
		req := completionRequest(command, refs)
		s.Logger.Debug("explain request", map[string]interface{}{
			"request_id": log["request_id"],
			"references": len(refs),
		})

		raw, err := retry.Call(ctx, policy, func(ctx context.Context) (domain.RawCompletion, error) {
			return s.Provider.Complete(ctx, req)
		})
		if err != nil {
			if tooLarge(err) && len(refs) > 0 {
				s.Logger.Info("request too large, dropping reference", map[string]interface{}{
					"command": refs[0].Command,
					"chars":   len(refs[0].Content),
					"left":    len(refs) - 1,
				})
				refs = refs[1:]
				continue
			}
			return domain.ExplanationResult{}, err
		}

		var payload explanationPayload
		if err := raw.Decode(s.Provider.Name(), &payload); err != nil {
			return domain.ExplanationResult{}, err
		}
		return payload.result(command), nil
	}
}

// gather returns references sorted smallest first, keeping as many as fit
// the budget. Each page may use at most half of it.
func (s *Service) gather(ctx context.Context, command string) []domain.Reference {
	if s.References == nil || s.MaxReferenceChars <= 0 {
		return nil
	}
	refs := s.References.Gather(ctx, command, s.MaxReferenceChars/2)
	sort.SliceStable(refs, func(i, j int) bool {
		return len(refs[i].Content) < len(refs[j].Content)
	})

	total := 0
	kept := refs[:0]
	for _, ref := range refs {
		if total+len(ref.Content) > s.MaxReferenceChars {
			s.Logger.Debug("reference over budget", map[string]interface{}{"command": ref.Command})
			continue
		}
		total += len(ref.Content)
		kept = append(kept, ref)
	}
	return kept
}

func tooLarge(err error) bool {
	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		return pe.Kind == domain.RequestRejected && pe.StatusCode == http.StatusRequestEntityTooLarge
	}
	return false
}

var _ ports.Explainer = (*Service)(nil)
