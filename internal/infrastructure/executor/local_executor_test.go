//go:build !windows

package executor

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func newTestExecutor(stdout *bytes.Buffer) *LocalExecutor {
	e := NewLocalExecutor("/bin/sh")
	e.stdin = strings.NewReader("")
	e.stdout = stdout
	e.stderr = stdout
	return e
}

func TestExecuteAttachesOutput(t *testing.T) {
	var out bytes.Buffer
	res, err := newTestExecutor(&out).Execute(context.Background(), "echo hello && echo there")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if res.ExitCode != 0 {
		t.Fatalf("expected exit 0, got %d", res.ExitCode)
	}
	if out.String() != "hello\nthere\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestExecuteReportsExitCode(t *testing.T) {
	var out bytes.Buffer
	res, err := newTestExecutor(&out).Execute(context.Background(), "exit 7")
	if err != nil {
		t.Fatalf("non-zero exit must not be an error: %v", err)
	}
	if res.ExitCode != 7 {
		t.Fatalf("expected exit 7, got %d", res.ExitCode)
	}
}

func TestExecuteMissingShell(t *testing.T) {
	var out bytes.Buffer
	e := newTestExecutor(&out)
	e.shell = "/nonexistent/shell"
	if _, err := e.Execute(context.Background(), "true"); err == nil {
		t.Fatal("expected an error for a missing shell")
	}
}
