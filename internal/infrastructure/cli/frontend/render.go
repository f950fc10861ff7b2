package frontend

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/doeshing/shell-ai/internal/domain"
)

// RenderExplanation writes a human-readable explanation: the synopsis, then
// one bullet per fragment with its citation dimmed underneath.
func RenderExplanation(w io.Writer, result domain.ExplanationResult, colored bool) {
	fragment := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)
	if colored {
		fragment.EnableColor()
		dim.EnableColor()
	} else {
		fragment.DisableColor()
		dim.DisableColor()
	}

	if result.Synopsis != "" {
		fmt.Fprintln(w, result.Synopsis)
		fmt.Fprintln(w)
	}
	for _, seg := range result.Segments {
		fmt.Fprintf(w, "• %s %s\n", fragment.Sprint(seg.Fragment), seg.Description)
		if seg.ManCitation != nil {
			for _, line := range strings.Split(*seg.ManCitation, "\n") {
				fmt.Fprintf(w, "    %s\n", dim.Sprint(line))
			}
		}
	}
}

// WriteExplanationJSON writes the explanation as indented JSON.
func WriteExplanationJSON(w io.Writer, result domain.ExplanationResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// writeSuggestionsJSON writes suggestions as an array of {"command": ...}.
func writeSuggestionsJSON(w io.Writer, suggestions []domain.Suggestion) error {
	if suggestions == nil {
		suggestions = []domain.Suggestion{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(suggestions)
}
