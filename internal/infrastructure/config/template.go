package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/doeshing/shell-ai/internal/domain"
)

// ErrConfigExists is returned by WriteTemplate when the target file is
// already present and force is not set.
var ErrConfigExists = errors.New("config file already exists")

// RenderTemplate produces a commented config.toml listing every setting
// with its default. Every assignment is commented out so the file is inert
// until edited.
func RenderTemplate(settings []domain.Setting) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# shell-ai configuration\n")
	buf.WriteString("# Values here are overridden by environment variables and command-line flags.\n")

	table := ""
	for _, setting := range settings {
		if setting.EnvOnly {
			continue
		}
		group, field := splitKey(setting.Key)
		if group != table {
			table = group
			fmt.Fprintf(&buf, "\n[%s]\n", table)
		}
		line, err := assignment(field, setting)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", setting.Key, err)
		}
		buf.WriteString("\n")
		if setting.Description != "" {
			fmt.Fprintf(&buf, "# %s\n", setting.Description)
		}
		if len(setting.Choices) > 0 {
			fmt.Fprintf(&buf, "# one of: %s\n", strings.Join(setting.Choices, ", "))
		}
		if len(setting.EnvVars) > 0 {
			fmt.Fprintf(&buf, "# env: %s\n", strings.Join(setting.EnvVars, ", "))
		}
		fmt.Fprintf(&buf, "# %s", line)
	}
	return buf.Bytes(), nil
}

func splitKey(key string) (string, string) {
	if group, field, ok := strings.Cut(key, "."); ok {
		return group, field
	}
	return "", key
}

func assignment(field string, setting domain.Setting) (string, error) {
	value := setting.Default
	if value == nil {
		switch setting.Kind {
		case domain.KindNumber:
			value = 0
		case domain.KindBool:
			value = false
		default:
			value = ""
		}
	}
	out, err := toml.Marshal(map[string]interface{}{field: value})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// WriteTemplate stores data at path, creating the directory. An existing
// file is only replaced when force is set.
func WriteTemplate(path string, data []byte, force bool) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return err
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, domain.SecureFilePermissions)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
		}
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
