package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/shell-ai/internal/domain"
	"github.com/doeshing/shell-ai/internal/infrastructure/cli/helpers"
)

// maxPipedPrompt bounds how much of stdin is read as a prompt.
const maxPipedPrompt = 64 * 1024

// NewSuggestCommand creates the suggest command. The root command runs the
// same flow when invoked with a bare prompt.
func NewSuggestCommand(rt *helpers.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest [prompt...]",
		Short: "Suggest shell commands for a natural-language request",
		Example: `  shai suggest "find files larger than 100MB"
  echo "show disk usage per directory" | shai suggest --output-format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunSuggest(rt, cmd, args)
		},
	}
}

// RunSuggest resolves the prompt, runs the suggest loop and maps the final
// outcome onto the process exit status.
func RunSuggest(rt *helpers.Runtime, cmd *cobra.Command, args []string) error {
	prompt, err := readPrompt(rt, args)
	if err != nil {
		return err
	}
	if prompt == "" {
		return cmd.Help()
	}

	container, err := rt.Container(cmd)
	if err != nil {
		return err
	}

	outcome, err := container.Suggest.Run(cmd.Context(), prompt)
	if err != nil {
		return err
	}
	container.Logger.Debug("suggest finished", map[string]interface{}{
		"outcome": string(outcome.Kind),
		"command": outcome.Command,
	})

	switch outcome.Kind {
	case domain.OutcomeCancelled:
		return domain.ErrCancelled
	case domain.OutcomeExecuted:
		if outcome.ExitCode != 0 {
			return &helpers.ExitError{Code: outcome.ExitCode}
		}
	}
	return nil
}

// readPrompt joins the arguments, or reads the prompt from piped stdin when
// there are none.
func readPrompt(rt *helpers.Runtime, args []string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}
	if !rt.PipedInput || rt.Stdin == nil {
		return "", nil
	}
	data, err := io.ReadAll(io.LimitReader(rt.Stdin, maxPipedPrompt))
	if err != nil {
		return "", fmt.Errorf("read prompt from stdin: %w", err)
	}
	prompt := strings.Join(strings.Fields(string(data)), " ")
	if prompt == "" {
		return "", errors.New("empty prompt on stdin")
	}
	return prompt, nil
}
