// Package frontend presents suggestions to the user: a full dialog, a
// single editable line, or plain output for scripts.
package frontend

import (
	"fmt"
	"io"

	"github.com/doeshing/shell-ai/internal/domain"
	"github.com/doeshing/shell-ai/internal/ports"
)

// Deps are the collaborators a frontend may need.
type Deps struct {
	In        io.Reader
	Out       io.Writer
	TUIOut    io.Writer
	Format    domain.OutputFormat
	Clipboard ports.Clipboard
	Explainer ports.Explainer
	Executor  ports.CommandExecutor
	Risk      ports.RiskAssessor
	Logger    ports.Logger
}

// New builds the frontend for an effective (never automatic) kind.
func New(kind domain.Frontend, deps Deps) (ports.Frontend, error) {
	switch kind {
	case domain.FrontendNoninteractive:
		return NewNoninteractive(deps.Out, deps.Format), nil
	case domain.FrontendReadline:
		return &Readline{in: deps.In, out: deps.TUIOut, executor: deps.Executor, risk: deps.Risk, logger: deps.Logger}, nil
	case domain.FrontendDialog:
		return &Dialog{
			in:        deps.In,
			out:       deps.TUIOut,
			clipboard: deps.Clipboard,
			explainer: deps.Explainer,
			executor:  deps.Executor,
			risk:      deps.Risk,
			logger:    deps.Logger,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported frontend %q", kind)
	}
}
