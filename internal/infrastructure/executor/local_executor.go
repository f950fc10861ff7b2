package executor

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/doeshing/shell-ai/internal/domain"
	"github.com/doeshing/shell-ai/internal/ports"
)

// LocalExecutor runs commands on the host shell with the user's terminal
// attached.
type LocalExecutor struct {
	shell  string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewLocalExecutor builds a new executor, shell defaults to $SHELL and then
// /bin/sh.
func NewLocalExecutor(shell string) *LocalExecutor {
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	return &LocalExecutor{shell: shell, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
}

// Execute implements ports.CommandExecutor. A non-zero exit status is
// reported through the result, not as an error.
func (e *LocalExecutor) Execute(ctx context.Context, command string) (domain.ExecutionResult, error) {
	c := e.command(ctx, command)
	c.Stdin = e.stdin
	c.Stdout = e.stdout
	c.Stderr = e.stderr

	start := time.Now()
	err := c.Run()
	result := domain.ExecutionResult{Duration: time.Since(start)}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	return result, err
}

func (e *LocalExecutor) command(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", command)
	}
	return exec.CommandContext(ctx, e.shell, "-c", command)
}

var _ ports.CommandExecutor = (*LocalExecutor)(nil)
