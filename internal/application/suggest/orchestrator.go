package suggest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/doeshing/shell-ai/internal/application/retry"
	"github.com/doeshing/shell-ai/internal/domain"
	"github.com/doeshing/shell-ai/internal/ports"
)

// Orchestrator fans a suggestion request out to parallel provider calls
// and merges the results.
type Orchestrator struct {
	Provider     ports.Provider
	Policy       retry.Policy
	Logger       ports.Logger
	Progress     ports.ProgressReporter
	TickInterval time.Duration
}

// Generate issues count calls and waits for all of them. Results keep the
// order in which distinct commands arrived. It fails only when every call
// failed.
func (o *Orchestrator) Generate(ctx context.Context, req domain.SuggestionRequest, count int) ([]domain.Suggestion, error) {
	if o.Provider == nil || o.Logger == nil {
		return nil, errors.New("suggest.Orchestrator dependencies not satisfied")
	}
	if count < 1 {
		count = 1
	}

	stopProgress := o.startProgress()
	defer stopProgress()

	completion := completionRequest(req)
	set := newSuggestionSet()
	errs := make([]error, count)

	var g errgroup.Group
	for i := 0; i < count; i++ {
		g.Go(func() error {
			command, err := o.suggestOnce(ctx, completion)
			if err != nil {
				errs[i] = err
				return nil
			}
			set.add(command)
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		return nil, domain.ErrCancelled
	}

	suggestions := set.suggestions()
	if len(suggestions) > 0 {
		o.Logger.Debug("suggestions ready", map[string]interface{}{
			"requested": count,
			"distinct":  len(suggestions),
		})
		return suggestions, nil
	}

	failed := make([]error, 0, count)
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}
	return nil, &domain.AllFailedError{Errors: failed}
}

func (o *Orchestrator) suggestOnce(ctx context.Context, req domain.CompletionRequest) (string, error) {
	requestID := uuid.NewString()
	log := map[string]interface{}{
		"request_id": requestID,
		"provider":   o.Provider.Name(),
	}
	o.Logger.Debug("suggestion request", log)

	policy := o.Policy.WithLogger(o.Logger, log)
	raw, err := retry.Call(ctx, policy, func(ctx context.Context) (domain.RawCompletion, error) {
		return o.Provider.Complete(ctx, req)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrCancelled) {
			o.Logger.Debug("suggestion attempt failed", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
		}
		return "", err
	}

	var payload suggestionPayload
	if err := raw.Decode(o.Provider.Name(), &payload); err != nil {
		return "", err
	}
	return payload.Command, nil
}

// startProgress drives the reporter until the returned func is called.
func (o *Orchestrator) startProgress() func() {
	if o.Progress == nil {
		return func() {}
	}
	interval := o.TickInterval
	if interval <= 0 {
		interval = domain.ProgressInterval
	}

	o.Progress.Start("Generating suggestions")
	start := time.Now()
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				o.Progress.Tick(time.Since(start))
			}
		}
	}()
	return func() {
		close(done)
		<-stopped
		o.Progress.Stop()
	}
}
