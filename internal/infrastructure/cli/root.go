package cli

import (
	"context"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	configapp "github.com/doeshing/shell-ai/internal/application/config"
	"github.com/doeshing/shell-ai/internal/infrastructure/cli/commands"
	"github.com/doeshing/shell-ai/internal/infrastructure/cli/helpers"
)

// Options holds process-level inputs for the CLI.
type Options struct {
	Version string
	Args    []string
	Environ []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(opts Options) (*cobra.Command, error) {
	schema, err := configapp.DefaultSchema()
	if err != nil {
		return nil, err
	}

	stdin, stdout, stderr := opts.Stdin, opts.Stdout, opts.Stderr
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	if !isTerminal(stdout) {
		color.NoColor = true
	}

	rt := &helpers.Runtime{
		Stdin:      stdin,
		Stdout:     stdout,
		Stderr:     stderr,
		Environ:    opts.Environ,
		Terminal:   interactive(stdin, stdout),
		PipedInput: !isTerminal(stdin),
		Progress:   NewSpinner(stderr, isTerminal(stderr)),
		Clipboard:  NewClipboard(),
		Schema:     schema,
	}

	root := &cobra.Command{
		Use:   "shai [prompt...]",
		Short: "shell-ai - natural language to shell commands",
		Long: `shai turns a natural-language request into shell command suggestions,
lets you run, copy, explain or revise them, and explains existing commands.

Settings come from flags, SHAI_* and provider environment variables, and
config.toml, in that order. Run "shai config" to see the resolved values.`,
		Example: `  shai "find files modified in the last day"
  shai explain "find . -mtime -1"
  shai config init`,
		Args:    cobra.ArbitraryArgs,
		Version: opts.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunSuggest(rt, cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	args := opts.Args
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	rt.BindFlags(root.PersistentFlags())

	root.AddCommand(commands.NewSuggestCommand(rt))
	root.AddCommand(commands.NewExplainCommand(rt))
	root.AddCommand(commands.NewConfigCommand(rt))
	root.AddCommand(commands.NewDoctorCommand(rt))
	return root, nil
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, opts Options) int {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	root, err := NewRootCmd(opts)
	if err != nil {
		return Report(stderr, err)
	}
	return Report(stderr, root.ExecuteContext(ctx))
}
