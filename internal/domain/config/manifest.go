// Package config loads and validates shipit manifests and turns them into
// runnable pipelines.
package config

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultPipelineName is run when neither the caller nor the manifest names
// a pipeline.
const DefaultPipelineName = "release"

// Format identifies a manifest encoding.
type Format string

const (
	// FormatYAML is shipit.yaml.
	FormatYAML Format = "yaml"
	// FormatTOML is shipit.toml.
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from the file extension. Anything other
// than .toml is treated as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// EnvironmentSpec is an inline environment definition.
type EnvironmentSpec struct {
	Kind   string            `yaml:"kind,omitempty" toml:"kind,omitempty"`
	Prefix string            `yaml:"prefix,omitempty" toml:"prefix,omitempty"`
	Path   []string          `yaml:"path,omitempty" toml:"path,omitempty"`
	Vars   map[string]string `yaml:"vars,omitempty" toml:"vars,omitempty"`
}

// StepSpec is one step as written in the manifest, before substitution.
type StepSpec struct {
	Name  string   `yaml:"name,omitempty" toml:"name,omitempty"`
	Env   string   `yaml:"env,omitempty" toml:"env,omitempty"`
	Dir   string   `yaml:"dir,omitempty" toml:"dir,omitempty"`
	Run   []string `yaml:"run" toml:"run"`
	Globs bool     `yaml:"globs,omitempty" toml:"globs,omitempty"`
}

// Manifest is the root configuration (shipit.yaml or shipit.toml).
type Manifest struct {
	Project          string                     `yaml:"project,omitempty" toml:"project,omitempty"`
	Version          string                     `yaml:"version,omitempty" toml:"version,omitempty"`
	DefaultPipeline  string                     `yaml:"default_pipeline,omitempty" toml:"default_pipeline,omitempty"`
	Vars             map[string]string          `yaml:"vars,omitempty" toml:"vars,omitempty"`
	EnvironmentsFile string                     `yaml:"environments_file,omitempty" toml:"environments_file,omitempty"`
	Environments     map[string]EnvironmentSpec `yaml:"environments,omitempty" toml:"environments,omitempty"`
	Pipelines        map[string][]StepSpec      `yaml:"pipelines" toml:"pipelines"`

	dir string
}

// ParseManifest parses a Manifest. Unknown keys are rejected so that typos
// such as "enviroment" do not silently drop configuration.
func ParseManifest(data []byte, format Format) (*Manifest, error) {
	var m Manifest

	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return nil, err
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	}

	return &m, nil
}

// Dir returns the directory the manifest was loaded from, or "".
func (m *Manifest) Dir() string {
	return m.dir
}

// PipelineNames returns the defined pipeline names sorted alphabetically.
func (m *Manifest) PipelineNames() []string {
	names := make([]string, 0, len(m.Pipelines))
	for name := range m.Pipelines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolvePipelineName returns name, or the manifest default when name is
// empty, or DefaultPipelineName.
func (m *Manifest) ResolvePipelineName(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	if m.DefaultPipeline != "" {
		return m.DefaultPipeline
	}
	return DefaultPipelineName
}

// Steps returns the step specs of the named pipeline.
func (m *Manifest) Steps(name string) ([]StepSpec, error) {
	steps, ok := m.Pipelines[name]
	if !ok {
		return nil, NewPipelineNotFoundError(name, m.PipelineNames())
	}
	out := make([]StepSpec, len(steps))
	copy(out, steps)
	return out, nil
}
