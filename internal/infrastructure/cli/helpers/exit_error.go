package helpers

import "fmt"

// ExitError makes the process exit with Code without printing anything.
// It carries the exit status of a command the user chose to run.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.Code)
}
