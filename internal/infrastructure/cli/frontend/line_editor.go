package frontend

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
)

// LineEditor is a single-line text buffer with a cursor. It backs both the
// readline frontend and the dialog's revise prompt.
type LineEditor struct {
	buf    []rune
	cursor int
}

// NewLineEditor returns an editor holding text with the cursor at the end.
func NewLineEditor(text string) *LineEditor {
	buf := []rune(text)
	return &LineEditor{buf: buf, cursor: len(buf)}
}

func (e *LineEditor) Value() string { return string(e.buf) }
func (e *LineEditor) Cursor() int   { return e.cursor }

// Apply performs the edit bound to key. It reports false for keys that
// are not editing keys.
func (e *LineEditor) Apply(key tea.KeyMsg) bool {
	switch key.Type {
	case tea.KeyRunes:
		if key.Alt {
			return e.applyAlt(key.Runes)
		}
		e.Insert(key.Runes...)
		return true
	case tea.KeySpace:
		e.Insert(' ')
		return true
	}

	switch key.String() {
	case "left", "ctrl+b":
		e.Left()
	case "right", "ctrl+f":
		e.Right()
	case "ctrl+left":
		e.WordLeft()
	case "ctrl+right":
		e.WordRight()
	case "home", "ctrl+a":
		e.Home()
	case "end", "ctrl+e":
		e.End()
	case "ctrl+u":
		e.DeleteToStart()
	case "ctrl+k":
		e.DeleteToEnd()
	case "backspace", "ctrl+h":
		e.Backspace()
	case "delete", "ctrl+d":
		e.Delete()
	case "ctrl+w", "alt+backspace":
		e.DeleteWordBack()
	default:
		return false
	}
	return true
}

func (e *LineEditor) applyAlt(runes []rune) bool {
	if len(runes) != 1 {
		return false
	}
	switch runes[0] {
	case 'b':
		e.WordLeft()
	case 'f':
		e.WordRight()
	default:
		return false
	}
	return true
}

func (e *LineEditor) Insert(runes ...rune) {
	filtered := make([]rune, 0, len(runes))
	for _, r := range runes {
		if r == '\n' || r == '\r' {
			r = ' '
		}
		if unicode.IsPrint(r) {
			filtered = append(filtered, r)
		}
	}
	tail := append(filtered, e.buf[e.cursor:]...)
	e.buf = append(e.buf[:e.cursor], tail...)
	e.cursor += len(filtered)
}

func (e *LineEditor) Left() {
	if e.cursor > 0 {
		e.cursor--
	}
}

func (e *LineEditor) Right() {
	if e.cursor < len(e.buf) {
		e.cursor++
	}
}

func (e *LineEditor) Home() { e.cursor = 0 }
func (e *LineEditor) End()  { e.cursor = len(e.buf) }

// WordLeft moves to the start of the previous word.
func (e *LineEditor) WordLeft() {
	i := e.cursor
	for i > 0 && unicode.IsSpace(e.buf[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(e.buf[i-1]) {
		i--
	}
	e.cursor = i
}

// WordRight moves past the end of the next word.
func (e *LineEditor) WordRight() {
	i := e.cursor
	for i < len(e.buf) && unicode.IsSpace(e.buf[i]) {
		i++
	}
	for i < len(e.buf) && !unicode.IsSpace(e.buf[i]) {
		i++
	}
	e.cursor = i
}

func (e *LineEditor) DeleteToStart() {
	e.buf = append([]rune{}, e.buf[e.cursor:]...)
	e.cursor = 0
}

func (e *LineEditor) DeleteToEnd() {
	e.buf = e.buf[:e.cursor]
}

func (e *LineEditor) Backspace() {
	if e.cursor == 0 {
		return
	}
	e.buf = append(e.buf[:e.cursor-1], e.buf[e.cursor:]...)
	e.cursor--
}

func (e *LineEditor) Delete() {
	if e.cursor >= len(e.buf) {
		return
	}
	e.buf = append(e.buf[:e.cursor], e.buf[e.cursor+1:]...)
}

// DeleteWordBack removes the word before the cursor.
func (e *LineEditor) DeleteWordBack() {
	end := e.cursor
	e.WordLeft()
	e.buf = append(e.buf[:e.cursor], e.buf[end:]...)
}

// View renders the line with the cursor shown in reverse video.
func (e *LineEditor) View(cursorStyle func(string) string) string {
	before := string(e.buf[:e.cursor])
	if e.cursor >= len(e.buf) {
		return before + cursorStyle(" ")
	}
	return before + cursorStyle(string(e.buf[e.cursor])) + string(e.buf[e.cursor+1:])
}
