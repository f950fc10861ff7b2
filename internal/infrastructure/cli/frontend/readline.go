package frontend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/doeshing/shell-ai/internal/domain"
	"github.com/doeshing/shell-ai/internal/ports"
)

// Readline offers the top suggestion on an editable line. Enter runs the
// edited line.
type Readline struct {
	in       io.Reader
	out      io.Writer
	executor ports.CommandExecutor
	risk     ports.RiskAssessor
	logger   ports.Logger
}

func (r *Readline) Present(ctx context.Context, _ string, suggestions []domain.Suggestion) (domain.Outcome, error) {
	seed := ""
	if len(suggestions) > 0 {
		seed = suggestions[0].Command
	}

	model := newReadlineModel(seed)
	model.risk = r.risk
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(r.in),
		tea.WithOutput(r.out),
	)
	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || ctx.Err() != nil {
			return domain.Cancelled(), nil
		}
		return domain.Outcome{}, fmt.Errorf("run readline: %w", err)
	}

	m, ok := final.(*readlineModel)
	if !ok {
		return domain.Cancelled(), nil
	}
	return completeOutcome(ctx, m.outcome, r.executor, r.logger)
}

type readlineModel struct {
	editor  *LineEditor
	risk    ports.RiskAssessor
	outcome domain.Outcome
	done    bool
}

func newReadlineModel(seed string) *readlineModel {
	return &readlineModel{editor: NewLineEditor(seed), outcome: domain.Cancelled()}
}

func (m *readlineModel) Init() tea.Cmd { return nil }

func (m *readlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.done {
		return m, nil
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.done = true
		m.outcome = domain.Cancelled()
		return m, tea.Quit
	case tea.KeyEnter:
		line := strings.TrimSpace(m.editor.Value())
		if line == "" {
			return m, nil
		}
		m.done = true
		m.outcome = domain.Executed(line, 0)
		return m, tea.Quit
	}
	m.editor.Apply(key)
	return m, nil
}

func (m *readlineModel) View() string {
	if m.done {
		return ""
	}
	return renderWarnings(m.risk, m.editor.Value()) +
		"$ " + m.editor.View(renderCursor) + "\n" +
		helpStyle.Render("enter run • esc cancel") + "\n"
}
