// Package manpage pulls option documentation out of the local man pages so
// explanations can quote it.
package manpage

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"unicode"

	"github.com/doeshing/shell-ai/internal/domain"
	"github.com/doeshing/shell-ai/internal/ports"
)

// Runner executes a program and returns its standard output. A non-zero
// exit status is reported as an error.
type Runner func(ctx context.Context, env []string, name string, args ...string) ([]byte, error)

// Source implements ports.ReferenceSource on top of man(1).
type Source struct {
	run    Runner
	logger ports.Logger
}

// NewSource builds a Source. A nil runner uses os/exec.
func NewSource(run Runner, logger ports.Logger) *Source {
	if run == nil {
		run = execRunner
	}
	return &Source{run: run, logger: logger}
}

func execRunner(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), env...)
	return cmd.Output()
}

// Gather returns one reference per program in command that has a man page,
// each capped at perReferenceLimit characters.
func (s *Source) Gather(ctx context.Context, command string, perReferenceLimit int) []domain.Reference {
	names := ExtractCommandNames(command)
	s.logger.Debug("extracted commands", map[string]interface{}{"commands": strings.Join(names, ",")})

	var refs []domain.Reference
	for _, name := range names {
		if ctx.Err() != nil {
			return refs
		}
		content, ok := s.page(ctx, name, perReferenceLimit)
		if !ok {
			continue
		}
		refs = append(refs, domain.Reference{Command: name, Content: content})
	}
	return refs
}

func (s *Source) page(ctx context.Context, name string, limit int) (string, bool) {
	if _, err := s.run(ctx, nil, "man", "-w", name); err != nil {
		return "", false
	}
	out, err := s.run(ctx, []string{"MANWIDTH=100000", "LANG=C", "LC_ALL=C"}, "man", name)
	if err != nil {
		s.logger.Debug("man failed", map[string]interface{}{"command": name, "error": err.Error()})
		return "", false
	}

	raw := stripOverstrike(string(out))
	content, ok := extractSection(raw, "OPTIONS")
	if !ok {
		content, ok = extractSection(raw, "DESCRIPTION")
	}
	if !ok {
		content = raw
	}
	content = strings.TrimSpace(truncate(content, limit))
	if content == "" {
		return "", false
	}
	return fmt.Sprintf("# %s(1)\n\n%s", name, content), true
}

// ExtractCommandNames lists the program invoked by each segment of a shell
// command, in order and without repeats. Assignments, redirections and
// flags are skipped.
func ExtractCommandNames(command string) []string {
	segments := strings.FieldsFunc(command, func(r rune) bool {
		return strings.ContainsRune("|&;()`\n", r)
	})

	seen := map[string]bool{}
	var names []string
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" || strings.HasPrefix(segment, "$") {
			continue
		}
		skipTarget := false
		for _, word := range strings.Fields(segment) {
			if skipTarget {
				skipTarget = false
				continue
			}
			if op := strings.TrimLeft(word, "0123456789"); strings.HasPrefix(op, "<") || strings.HasPrefix(op, ">") {
				// A bare operator takes the next word as its target.
				skipTarget = strings.Trim(op, "<>") == ""
				continue
			}
			if strings.Contains(word, "=") && !strings.HasPrefix(word, "-") {
				continue
			}
			if isDigits(word) {
				continue
			}
			name := strings.TrimPrefix(word, "./")
			if name == "" || strings.HasPrefix(name, "-") {
				continue
			}
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
			break
		}
	}
	return names
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// extractSection returns the named section, header included. Headers are
// unindented lines starting with an upper-case letter.
func extractSection(page, section string) (string, bool) {
	var out []string
	inSection := false
	for _, line := range strings.Split(page, "\n") {
		trimmed := strings.TrimSpace(line)
		isHeader := trimmed != "" &&
			!strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") &&
			unicode.IsUpper([]rune(trimmed)[0])
		switch {
		case isHeader && strings.HasPrefix(trimmed, section):
			inSection = true
			out = append(out, line)
		case isHeader && inSection:
			return strings.Join(out, "\n"), true
		case inSection:
			out = append(out, line)
		}
	}
	if len(out) == 0 {
		return "", false
	}
	return strings.Join(out, "\n"), true
}

// truncate cuts text to at most limit bytes at a line boundary and marks
// the cut.
func truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	cut := text[:limit]
	if i := strings.LastIndexByte(cut, '\n'); i >= 0 {
		cut = text[:i]
	}
	return strings.ToValidUTF8(cut, "") + "...\n[truncated]"
}

// stripOverstrike removes the "c\bc" bold and "_\bc" underline sequences
// some man implementations emit even when piped.
func stripOverstrike(s string) string {
	if !strings.ContainsRune(s, '\b') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if i+1 < len(runes) && runes[i+1] == '\b' {
			i++
			continue
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}

var _ ports.ReferenceSource = (*Source)(nil)
