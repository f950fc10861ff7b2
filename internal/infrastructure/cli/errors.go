package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/doeshing/shell-ai/internal/domain"
	"github.com/doeshing/shell-ai/internal/infrastructure/cli/helpers"
)

const (
	exitOK        = 0
	exitFailure   = 1
	exitCancelled = 130
)

const configHint = "run `shai config` to see where each setting comes from"

// Report prints err as a one-line diagnostic and returns the process exit
// code for it.
func Report(w io.Writer, err error) int {
	msg, code := describeError(err)
	if msg != "" {
		fmt.Fprintln(w, msg)
	}
	return code
}

func describeError(err error) (string, int) {
	if err == nil {
		return "", exitOK
	}

	var exit *helpers.ExitError
	if errors.As(err, &exit) {
		return "", exit.Code
	}
	if errors.Is(err, domain.ErrCancelled) || errors.Is(err, context.Canceled) {
		return "", exitCancelled
	}

	var all *domain.AllFailedError
	if errors.As(err, &all) {
		if cause := all.Cause(); cause != nil {
			err = cause
		}
	}

	if errors.Is(err, domain.ErrConfig) {
		return fmt.Sprintf("error: %v\nhint: %s", err, configHint), exitFailure
	}
	return fmt.Sprintf("error: %v", err), exitFailure
}
