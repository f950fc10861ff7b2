// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The application core (configuration resolution, retry, dispatch and the
// suggest/explain services) depends only on these interfaces. Concrete
// adapters live in the infrastructure layer: HTTP provider clients, the
// config file loader, the clipboard, the process executor and the
// terminal frontends.
package ports

import (
	"context"
	"time"

	"github.com/doeshing/shell-ai/internal/domain"
)

// ConfigProvider reads the config file layer. A missing file is not an
// error and yields empty contents.
type ConfigProvider interface {
	Load(context.Context) (domain.FileContents, error)
}

// PlatformCollector describes the machine suggested commands will run on.
type PlatformCollector interface {
	Collect(context.Context) domain.PlatformContext
}

// ProviderFactory builds the adapter for a resolved provider profile.
type ProviderFactory interface {
	ForProfile(domain.ProviderProfile) (Provider, error)
}

// Provider is one AI backend behind a uniform chat-completion contract.
// Implementations are stateless and safe for concurrent use.
type Provider interface {
	Name() domain.ProviderID
	Profile() domain.ProviderProfile
	// SupportsStructuredOutput reports whether the backend enforces a JSON
	// schema on the response body.
	SupportsStructuredOutput() bool
	Complete(context.Context, domain.CompletionRequest) (domain.RawCompletion, error)
}

// Explainer breaks a command into explained segments.
type Explainer interface {
	Explain(ctx context.Context, command string) (domain.ExplanationResult, error)
}

// ReferenceSource gathers documentation for the programs used in a command.
type ReferenceSource interface {
	Gather(ctx context.Context, command string, perReferenceLimit int) []domain.Reference
}

// CommandExecutor runs a shell command attached to the user's terminal.
type CommandExecutor interface {
	Execute(ctx context.Context, command string) (domain.ExecutionResult, error)
}

// RiskAssessor flags suggestions that look destructive. It only warns;
// the user still decides whether to run the command.
type RiskAssessor interface {
	Assess(command string) []domain.RiskWarning
}

// Clipboard provides cross-platform clipboard integration for copying commands.
type Clipboard interface {
	Copy(text string) error
	Enabled() bool
}

// ProgressReporter displays progress while suggestions are generated.
// Tick must not block.
type ProgressReporter interface {
	Start(label string)
	Tick(elapsed time.Duration)
	Stop()
}

// Frontend presents suggestions and reports how the interaction ended.
type Frontend interface {
	Present(ctx context.Context, prompt string, suggestions []domain.Suggestion) (domain.Outcome, error)
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Trace(msg string, fields map[string]interface{})
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
