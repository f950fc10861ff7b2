package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/doeshing/shell-ai/internal/domain"
	"github.com/doeshing/shell-ai/internal/pkg/filesystem"
	"github.com/doeshing/shell-ai/internal/ports"
)

const (
	appDir         = "shell-ai"
	tomlFileName   = "config.toml"
	legacyFileName = "config.json"
)

// FileLoader reads config.toml from the user config directory and layers
// the legacy config.json on top of it. SHAI_CONFIG names a single file
// instead.
type FileLoader struct {
	overridePath string
	configDir    string
}

// NewFileLoader builds a loader. An empty overridePath uses the default
// location; an empty configDir uses the platform config directory.
func NewFileLoader(overridePath, configDir string) *FileLoader {
	return &FileLoader{overridePath: overridePath, configDir: configDir}
}

// Load implements ports.ConfigProvider. Missing files yield empty contents
// and no error. When both files exist, JSON values win key by key.
func (l *FileLoader) Load(context.Context) (domain.FileContents, error) {
	merged := domain.FileContents{Values: map[string]interface{}{}, Origins: map[string]domain.FileLayer{}}
	for _, path := range l.candidates() {
		contents, err := readFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return domain.FileContents{}, err
		}
		layer := domain.FileLayer{Path: contents.Path, Format: contents.Format}
		if !merged.Found() {
			merged.Path, merged.Format = layer.Path, layer.Format
		}
		merged.Layers = append(merged.Layers, layer)
		for key, value := range contents.Values {
			merged.Values[key] = value
			merged.Origins[key] = layer
		}
	}
	return merged, nil
}

// Path is where `config init` writes the TOML template.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandHome(l.overridePath)
	}
	return filepath.Join(l.dir(), tomlFileName)
}

func (l *FileLoader) candidates() []string {
	if l.overridePath != "" {
		return []string{filesystem.ExpandHome(l.overridePath)}
	}
	dir := l.dir()
	return []string{filepath.Join(dir, tomlFileName), filepath.Join(dir, legacyFileName)}
}

func (l *FileLoader) dir() string {
	if l.configDir != "" {
		return l.configDir
	}
	return filesystem.ConfigDir(appDir)
}

func readFile(path string) (domain.FileContents, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.FileContents{}, err
	}

	format := domain.FileFormatTOML
	raw := map[string]interface{}{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = domain.FileFormatJSON
		err = json.Unmarshal(data, &raw)
	} else {
		_, err = toml.Decode(string(data), &raw)
	}
	if err != nil {
		return domain.FileContents{}, fmt.Errorf("%w: failed to parse %s: %v (fix the syntax error, or delete the file to use defaults)",
			domain.ErrConfig, path, err)
	}

	values := map[string]interface{}{}
	flatten("", raw, values)
	return domain.FileContents{Path: path, Format: format, Values: values}, nil
}

// flatten turns nested tables into dotted keys: [openai] api_key becomes
// "openai.api_key".
func flatten(prefix string, in map[string]interface{}, out map[string]interface{}) {
	for key, value := range in {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]interface{}:
			flatten(full, v, out)
		case time.Time:
			out[full] = v.Format(time.RFC3339)
		default:
			out[full] = v
		}
	}
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
