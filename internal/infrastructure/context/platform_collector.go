package contextcollector

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/doeshing/shell-ai/internal/domain"
	"github.com/doeshing/shell-ai/internal/ports"
)

// PlatformCollector implements ports.PlatformCollector from the process
// environment.
type PlatformCollector struct {
	goos   string
	goarch string
	getenv func(string) string
	getwd  func() (string, error)
}

func NewPlatformCollector() *PlatformCollector {
	return &PlatformCollector{
		goos:   runtime.GOOS,
		goarch: runtime.GOARCH,
		getenv: os.Getenv,
		getwd:  os.Getwd,
	}
}

// Collect gathers context data.
func (c *PlatformCollector) Collect(ctx context.Context) domain.PlatformContext {
	wd, _ := c.getwd()
	return domain.PlatformContext{
		OS:         osName(c.goos),
		Arch:       c.goarch,
		Shell:      c.detectShell(),
		WorkingDir: wd,
	}
}

func (c *PlatformCollector) detectShell() string {
	if shell := c.getenv("SHELL"); shell != "" {
		return strings.TrimSuffix(filepath.Base(shell), ".exe")
	}
	if c.goos == "windows" {
		if c.getenv("PSModulePath") != "" {
			return "powershell"
		}
		return "cmd"
	}
	return ""
}

func osName(goos string) string {
	switch goos {
	case "darwin":
		return "macOS"
	case "linux":
		return "Linux"
	case "windows":
		return "Windows"
	case "freebsd":
		return "FreeBSD"
	default:
		return goos
	}
}

var _ ports.PlatformCollector = (*PlatformCollector)(nil)
