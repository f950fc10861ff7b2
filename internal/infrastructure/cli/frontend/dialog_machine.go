package frontend

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/doeshing/shell-ai/internal/domain"
)

type dialogState int

const (
	stateBrowsing dialogState = iota
	stateActionMenu
	stateRevising
	stateTerminal
)

func (s dialogState) String() string {
	switch s {
	case stateBrowsing:
		return "browsing"
	case stateActionMenu:
		return "action-menu"
	case stateRevising:
		return "revising"
	default:
		return "terminal"
	}
}

type menuAction int

const (
	actionExecute menuAction = iota
	actionCopy
	actionExplain
	actionRevise
	actionBack
)

var menuActions = []struct {
	action menuAction
	key    string
	label  string
}{
	{actionExecute, "x", "Execute"},
	{actionCopy, "c", "Copy to clipboard"},
	{actionExplain, "e", "Explain"},
	{actionRevise, "r", "Revise"},
	{actionBack, "b", "Back"},
}

type effectKind int

const (
	effectNone effectKind = iota
	effectCopy
	effectExplain
	effectQuit
)

// effect is a side effect the machine asks its host to perform.
type effect struct {
	kind    effectKind
	command string
}

// dialogMachine holds the dialog state and its transitions. It performs no
// I/O: copying and explaining are requested through effects and their
// results reported back.
type dialogMachine struct {
	state       dialogState
	prompt      string
	suggestions []domain.Suggestion
	selected    int
	menuCursor  int

	editor *LineEditor
	// replacePrompt is set when revising from the suggestion list: the
	// line replaces the prompt instead of amending it.
	replacePrompt bool

	// last is the outcome reported when the user quits.
	last       domain.Outcome
	outcome    domain.Outcome
	explaining bool
	notice     string
	failure    string
}

func newDialogMachine(prompt string, suggestions []domain.Suggestion) *dialogMachine {
	return &dialogMachine{
		prompt:      prompt,
		suggestions: suggestions,
		last:        domain.Cancelled(),
	}
}

func (m *dialogMachine) current() string {
	if len(m.suggestions) == 0 {
		return ""
	}
	return m.suggestions[m.selected].Command
}

func (m *dialogMachine) done() bool { return m.state == stateTerminal }

func (m *dialogMachine) finish(outcome domain.Outcome) effect {
	m.state = stateTerminal
	m.outcome = outcome
	return effect{kind: effectQuit}
}

// handle applies one key press.
func (m *dialogMachine) handle(key tea.KeyMsg) effect {
	if key.Type == tea.KeyCtrlC {
		m.explaining = false
		return m.finish(domain.Cancelled())
	}
	if m.done() {
		return effect{}
	}
	m.notice, m.failure = "", ""

	switch m.state {
	case stateBrowsing:
		return m.browse(key)
	case stateActionMenu:
		return m.menu(key)
	case stateRevising:
		return m.revise(key)
	}
	return effect{}
}

func (m *dialogMachine) browse(key tea.KeyMsg) effect {
	switch s := key.String(); s {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.suggestions)-1 {
			m.selected++
		}
	case "enter":
		m.openMenu()
	case "g":
		return m.finish(domain.Revised(m.prompt))
	case "n":
		m.startRevising(true)
	case "q", "esc":
		return m.finish(m.last)
	default:
		if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if n := int(s[0] - '0'); n <= len(m.suggestions) {
				m.selected = n - 1
				m.openMenu()
			}
		}
	}
	return effect{}
}

func (m *dialogMachine) openMenu() {
	if len(m.suggestions) == 0 {
		return
	}
	m.state = stateActionMenu
	m.menuCursor = 0
}

func (m *dialogMachine) menu(key tea.KeyMsg) effect {
	if m.explaining {
		if key.String() == "q" {
			m.explaining = false
			return m.finish(m.last)
		}
		return effect{}
	}

	switch s := key.String(); s {
	case "up", "k":
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case "down", "j":
		if m.menuCursor < len(menuActions)-1 {
			m.menuCursor++
		}
	case "enter":
		return m.act(menuActions[m.menuCursor].action)
	case "esc":
		return m.act(actionBack)
	case "q":
		return m.finish(m.last)
	default:
		for _, item := range menuActions {
			if item.key == s {
				return m.act(item.action)
			}
		}
	}
	return effect{}
}

func (m *dialogMachine) act(action menuAction) effect {
	command := m.current()
	switch action {
	case actionExecute:
		return m.finish(domain.Executed(command, 0))
	case actionCopy:
		return effect{kind: effectCopy, command: command}
	case actionExplain:
		m.explaining = true
		return effect{kind: effectExplain, command: command}
	case actionRevise:
		m.startRevising(false)
	case actionBack:
		m.state = stateBrowsing
	}
	return effect{}
}

func (m *dialogMachine) startRevising(replacePrompt bool) {
	m.state = stateRevising
	m.replacePrompt = replacePrompt
	m.editor = NewLineEditor("")
}

func (m *dialogMachine) revise(key tea.KeyMsg) effect {
	switch key.Type {
	case tea.KeyEnter:
		text := strings.TrimSpace(m.editor.Value())
		if m.replacePrompt {
			if text == "" {
				return effect{}
			}
			return m.finish(domain.Revised(text))
		}
		return m.finish(domain.Revised(domain.RevisePrompt(m.prompt, text)))
	case tea.KeyEsc:
		if m.replacePrompt {
			m.state = stateBrowsing
		} else {
			m.state = stateActionMenu
		}
		m.editor = nil
		return effect{}
	}
	m.editor.Apply(key)
	return effect{}
}

// copyDone records the result of a requested copy.
func (m *dialogMachine) copyDone(command string, err error) {
	if err != nil {
		m.failure = "Copy failed: " + err.Error()
		return
	}
	m.last = domain.Copied(command)
	m.notice = "Copied to clipboard"
}

// explainDone records the result of a requested explanation. It reports
// false when the result arrived after the user moved on.
func (m *dialogMachine) explainDone(command string, err error) bool {
	if !m.explaining || m.done() {
		return false
	}
	m.explaining = false
	if err != nil {
		m.failure = "Explain failed: " + err.Error()
		return true
	}
	m.last = domain.Explained(command)
	return true
}
