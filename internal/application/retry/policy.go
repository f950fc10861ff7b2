// Package retry re-runs provider calls that fail transiently, waiting an
// exponentially growing, jittered delay between attempts.
package retry

import (
	"fmt"
	"time"

	"github.com/doeshing/shell-ai/internal/domain"
	"github.com/doeshing/shell-ai/internal/ports"
)

// Policy bounds one retried call.
type Policy struct {
	MaxAttempts    int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	Jitter         float64
	AttemptTimeout time.Duration

	// OnRetry, when set, is called before each wait.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// DefaultPolicy returns the built-in limits.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    domain.DefaultRetryMaxAttempts,
		BaseDelay:      domain.DefaultRetryBaseDelay,
		MaxDelay:       domain.DefaultRetryMaxDelay,
		Jitter:         domain.DefaultRetryJitter,
		AttemptTimeout: domain.DefaultAttemptTimeout,
	}
}

// PolicyFromConfig reads the retry.* settings.
func PolicyFromConfig(cfg *domain.Configuration) Policy {
	p := DefaultPolicy()
	if n := cfg.Int(domain.KeyRetryMaxAttempts); n > 0 {
		p.MaxAttempts = n
	}
	if ms := cfg.Int(domain.KeyRetryBaseDelay); ms > 0 {
		p.BaseDelay = time.Duration(ms) * time.Millisecond
	}
	if ms := cfg.Int(domain.KeyRetryMaxDelay); ms > 0 {
		p.MaxDelay = time.Duration(ms) * time.Millisecond
	}
	if v, ok := cfg.Get(domain.KeyRetryJitter); ok && v.IsSet() {
		p.Jitter = cfg.Float(domain.KeyRetryJitter)
	}
	return p
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = domain.DefaultRetryBaseDelay
	}
	if p.MaxDelay < p.BaseDelay {
		p.MaxDelay = p.BaseDelay
	}
	if p.Jitter < 0 {
		p.Jitter = 0
	}
	return p
}

// WithLogger returns a copy of p whose OnRetry hook logs each retry as a
// warning, tagged with fields.
func (p Policy) WithLogger(log ports.Logger, fields map[string]interface{}) Policy {
	if log == nil {
		return p
	}
	limit := p.normalized().MaxAttempts
	p.OnRetry = func(attempt int, delay time.Duration, err error) {
		entry := map[string]interface{}{
			"attempt": fmt.Sprintf("%d/%d", attempt, limit),
			"delay":   delay.Round(time.Millisecond).String(),
			"error":   err.Error(),
		}
		for k, v := range fields {
			entry[k] = v
		}
		log.Warn("retrying provider request", entry)
	}
	return p
}
