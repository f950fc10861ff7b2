package frontend

import (
	"context"
	"fmt"
	"io"

	"github.com/doeshing/shell-ai/internal/domain"
)

// Noninteractive prints suggestions and returns without reading input.
type Noninteractive struct {
	out    io.Writer
	format domain.OutputFormat
}

func NewNoninteractive(out io.Writer, format domain.OutputFormat) *Noninteractive {
	return &Noninteractive{out: out, format: format}
}

// Present writes the first suggestion, or every suggestion as JSON.
func (n *Noninteractive) Present(_ context.Context, _ string, suggestions []domain.Suggestion) (domain.Outcome, error) {
	if n.format == domain.OutputJSON {
		if err := writeSuggestionsJSON(n.out, suggestions); err != nil {
			return domain.Outcome{}, fmt.Errorf("write suggestions: %w", err)
		}
		return domain.Printed(), nil
	}
	if len(suggestions) > 0 {
		if _, err := fmt.Fprintln(n.out, suggestions[0].Command); err != nil {
			return domain.Outcome{}, fmt.Errorf("write suggestion: %w", err)
		}
	}
	return domain.Printed(), nil
}
