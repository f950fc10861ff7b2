// Package filesystem resolves user paths.
package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// UserHomeDir returns the home directory, or "." when it is unknown.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// ExpandHome replaces a leading "~" or "~/" with the home directory and
// cleans the result.
func ExpandHome(path string) string {
	switch {
	case path == "~":
		return UserHomeDir()
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

// ConfigDir returns $XDG_CONFIG_HOME/app, falling back to ~/.config/app on
// every platform.
func ConfigDir(app string) string {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" && filepath.IsAbs(xdg) {
		return filepath.Join(xdg, app)
	}
	return filepath.Join(UserHomeDir(), ".config", app)
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
