package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Loader loads manifests from the filesystem.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadManifest loads a manifest from the given path. The format follows the
// file extension.
func (l *Loader) LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, NewConfigNotFoundError(path)
		case errors.Is(err, fs.ErrPermission):
			return nil, NewFilePermissionError(path, err)
		}
		return nil, err
	}

	format := FormatFromPath(path)
	manifest, err := ParseManifest(data, format)
	if err != nil {
		if format == FormatTOML {
			return nil, NewTOMLParseError(path, err)
		}
		// Check if it's a YAML parsing error and translate to user-friendly message
		if strings.Contains(err.Error(), "yaml:") || strings.Contains(err.Error(), "unmarshal") {
			return nil, NewYAMLParseError(path, err)
		}
		return nil, NewConfigParseError(path, err)
	}

	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		abs = filepath.Dir(path)
	}
	manifest.dir = abs
	return manifest, nil
}
