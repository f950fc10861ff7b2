package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/shell-ai/internal/infrastructure/cli/helpers"
	configinfra "github.com/doeshing/shell-ai/internal/infrastructure/config"
	"github.com/doeshing/shell-ai/internal/pkg/filesystem"
)

// newConfigInitCommand creates the 'config init' subcommand, which writes a
// commented config.toml listing every setting.
func newConfigInitCommand(rt *helpers.Runtime) *cobra.Command {
	var (
		force    bool
		toStdout bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented config.toml template",
		Long: `Write a config.toml template listing every setting with its default,
the accepted values and the environment variables that override it.

Every assignment is commented out, so the new file changes nothing until
you edit it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := configinfra.RenderTemplate(rt.Schema.Settings())
			if err != nil {
				return fmt.Errorf("render config template: %w", err)
			}
			if toStdout {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			return runInit(cmd, rt, data, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing config without prompting")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Print the template instead of writing it")
	return cmd
}

func runInit(cmd *cobra.Command, rt *helpers.Runtime, data []byte, force bool) error {
	path := configinfra.NewFileLoader(rt.Options(cmd).ConfigPath, "").Path()

	if !force && filesystem.Exists(path) {
		if !rt.Terminal {
			return fmt.Errorf("%w: %s (use --force to overwrite)", configinfra.ErrConfigExists, path)
		}
		if !helpers.Confirm(cmd.ErrOrStderr(), rt.Stdin, fmt.Sprintf("%s exists. Overwrite?", path), false) {
			fmt.Fprintln(cmd.ErrOrStderr(), MsgInitCancelled)
			return nil
		}
		force = true
	}

	if err := configinfra.WriteTemplate(path, data, force); err != nil {
		if errors.Is(err, configinfra.ErrConfigExists) {
			return err
		}
		return fmt.Errorf("write config template: %w", err)
	}
	displayCompletionInstructions(cmd.OutOrStdout(), path)
	return nil
}

// displayCompletionInstructions displays instructions after successful initialization
func displayCompletionInstructions(out io.Writer, configPath string) {
	fmt.Fprintf(out, "✓ Configuration template written: %s\n\n", configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Uncomment and set the provider and its API key, or export it:")
	fmt.Fprintln(out, "     export OPENAI_API_KEY=your-key-here")
	fmt.Fprintln(out, "  2. Check the resolved settings:")
	fmt.Fprintln(out, "     shai config")
	fmt.Fprintln(out, "  3. Try a suggestion:")
	fmt.Fprintln(out, "     shai \"list files by size\"")
}
