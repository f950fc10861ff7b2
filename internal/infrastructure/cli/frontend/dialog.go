package frontend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/doeshing/shell-ai/internal/domain"
	"github.com/doeshing/shell-ai/internal/ports"
)

var (
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
)

// Dialog is the full interactive frontend: a suggestion list with an
// action menu per command.
type Dialog struct {
	in        io.Reader
	out       io.Writer
	clipboard ports.Clipboard
	explainer ports.Explainer
	executor  ports.CommandExecutor
	risk      ports.RiskAssessor
	logger    ports.Logger
}

// Present runs the dialog until the user acts. An execute request is
// carried out after the dialog has released the terminal.
func (d *Dialog) Present(ctx context.Context, prompt string, suggestions []domain.Suggestion) (domain.Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := newDialogModel(ctx, newDialogMachine(prompt, suggestions), d.clipboard, d.explainer)
	model.risk = d.risk
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(d.in),
		tea.WithOutput(d.out),
	)
	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || ctx.Err() != nil {
			return domain.Cancelled(), nil
		}
		return domain.Outcome{}, fmt.Errorf("run dialog: %w", err)
	}

	m, ok := final.(*dialogModel)
	if !ok || !m.machine.done() {
		return domain.Cancelled(), nil
	}
	return completeOutcome(ctx, m.machine.outcome, d.executor, d.logger)
}

// completeOutcome runs the command of an Executed outcome and records the
// child's exit code.
func completeOutcome(ctx context.Context, outcome domain.Outcome, executor ports.CommandExecutor, logger ports.Logger) (domain.Outcome, error) {
	if outcome.Kind != domain.OutcomeExecuted {
		return outcome, nil
	}
	if executor == nil {
		return domain.Outcome{}, errors.New("command executor unavailable")
	}
	logger.Debug("executing command", map[string]interface{}{"command": outcome.Command})
	result, err := executor.Execute(ctx, outcome.Command)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("execute command: %w", err)
	}
	return domain.Executed(outcome.Command, result.ExitCode), nil
}

type explainResultMsg struct {
	command string
	result  domain.ExplanationResult
	err     error
}

type dialogModel struct {
	ctx          context.Context
	machine      *dialogMachine
	clipboard    ports.Clipboard
	explainer    ports.Explainer
	risk         ports.RiskAssessor
	spinner      spinner.Model
	explanations map[string]string
	width        int
}

func newDialogModel(ctx context.Context, machine *dialogMachine, clipboard ports.Clipboard, explainer ports.Explainer) *dialogModel {
	return &dialogModel{
		ctx:          ctx,
		machine:      machine,
		clipboard:    clipboard,
		explainer:    explainer,
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		explanations: map[string]string{},
	}
}

func (m *dialogModel) Init() tea.Cmd { return nil }

func (m *dialogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m, m.perform(m.machine.handle(msg))

	case explainResultMsg:
		if !m.machine.explainDone(msg.command, msg.err) || msg.err != nil {
			return m, nil
		}
		var b strings.Builder
		RenderExplanation(&b, msg.result, true)
		m.explanations[msg.command] = b.String()
		return m, nil

	case spinner.TickMsg:
		if !m.machine.explaining {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *dialogModel) perform(e effect) tea.Cmd {
	switch e.kind {
	case effectQuit:
		return tea.Quit
	case effectCopy:
		m.machine.copyDone(e.command, m.copy(e.command))
	case effectExplain:
		if _, ok := m.explanations[e.command]; ok {
			m.machine.explainDone(e.command, nil)
			return nil
		}
		return tea.Batch(m.spinner.Tick, m.explain(e.command))
	}
	return nil
}

func (m *dialogModel) copy(command string) error {
	if m.clipboard == nil || !m.clipboard.Enabled() {
		return errors.New("clipboard unavailable")
	}
	return m.clipboard.Copy(command)
}

func (m *dialogModel) explain(command string) tea.Cmd {
	explainer := m.explainer
	ctx := m.ctx
	return func() tea.Msg {
		if explainer == nil {
			return explainResultMsg{command: command, err: errors.New("explain unavailable")}
		}
		result, err := explainer.Explain(ctx, command)
		return explainResultMsg{command: command, result: result, err: err}
	}
}

func (m *dialogModel) View() string {
	mc := m.machine
	if mc.done() {
		return ""
	}

	var b strings.Builder
	b.WriteString(promptStyle.Render("Prompt: "+firstLine(mc.prompt)) + "\n\n")

	for i, s := range mc.suggestions {
		line := fmt.Sprintf("%d. %s", s.Ordinal, s.Command)
		if i == mc.selected {
			b.WriteString(selectedStyle.Render("› "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("\n")

	switch mc.state {
	case stateBrowsing:
		b.WriteString(helpStyle.Render("↑/↓ select • 1-9 pick • enter actions • g regenerate • n new prompt • q quit"))
	case stateActionMenu:
		b.WriteString(renderWarnings(m.risk, mc.current()))
		for i, item := range menuActions {
			label := fmt.Sprintf("[%s] %s", item.key, item.label)
			if i == mc.menuCursor {
				b.WriteString(selectedStyle.Render("› "+label) + "\n")
			} else {
				b.WriteString("  " + label + "\n")
			}
		}
		if mc.explaining {
			b.WriteString("\n" + m.spinner.View() + " Explaining...")
		} else if text, ok := m.explanations[mc.current()]; ok {
			b.WriteString("\n" + text)
		}
	case stateRevising:
		label := "Revise: "
		if mc.replacePrompt {
			label = "New prompt: "
		}
		b.WriteString(label + mc.editor.View(renderCursor) + "\n")
		b.WriteString(helpStyle.Render("enter submit • esc back"))
	}

	if mc.notice != "" {
		b.WriteString("\n" + noticeStyle.Render(mc.notice))
	}
	if mc.failure != "" {
		b.WriteString("\n" + errorStyle.Render(mc.failure))
	}
	return b.String() + "\n"
}

func renderCursor(cell string) string { return cursorStyle.Render(cell) }

// renderWarnings lists the risk warnings for command, one per line.
func renderWarnings(risk ports.RiskAssessor, command string) string {
	if risk == nil {
		return ""
	}
	var b strings.Builder
	for _, w := range risk.Assess(command) {
		b.WriteString(warnStyle.Render(fmt.Sprintf("⚠ %s: %s", w.Level, w.Message)) + "\n")
	}
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
