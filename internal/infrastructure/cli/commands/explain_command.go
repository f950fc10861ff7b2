package commands

import (
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/doeshing/shell-ai/internal/domain"
	"github.com/doeshing/shell-ai/internal/infrastructure/cli/frontend"
	"github.com/doeshing/shell-ai/internal/infrastructure/cli/helpers"
)

// NewExplainCommand creates the explain command
func NewExplainCommand(rt *helpers.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <command...>",
		Short: "Explain what a shell command does, piece by piece",
		Long: `Explain breaks a shell command into fragments and describes each one.

When man pages are installed for the programs in the command, the relevant
sections are sent along and the explanation cites them.`,
		Example: `  shai explain "tar -xzvf archive.tar.gz -C /tmp"
  shai explain --output-format json -- ls -la`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := rt.Container(cmd)
			if err != nil {
				return err
			}

			result, err := container.Explain.Explain(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			if container.Config.OutputFormat() == domain.OutputJSON {
				return frontend.WriteExplanationJSON(cmd.OutOrStdout(), result)
			}
			frontend.RenderExplanation(cmd.OutOrStdout(), result, !color.NoColor)
			return nil
		},
	}
}
