package helpers

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Confirm asks a yes/no question on out and reads one line from in. An
// empty answer or a closed input selects def.
func Confirm(out io.Writer, in io.Reader, question string, def bool) bool {
	choices := "y/N"
	if def {
		choices = "Y/n"
	}
	fmt.Fprintf(out, "%s [%s]: ", question, choices)

	line, err := bufio.NewReader(in).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	if answer == "" {
		if err != nil {
			fmt.Fprintln(out)
		}
		return def
	}
	return answer == "y" || answer == "yes"
}

// PrintWarnings writes each non-blank warning on its own line.
func PrintWarnings(out io.Writer, warnings []string) {
	tag := color.New(color.FgYellow).Sprint("warning:")
	for _, w := range warnings {
		if w = strings.TrimSpace(w); w != "" {
			fmt.Fprintf(out, "%s %s\n", tag, w)
		}
	}
}
