package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestManifest mirrors the on-disk shipit.yaml layout.
type TestManifest struct {
	Project          string                     `yaml:"project,omitempty"`
	Version          string                     `yaml:"version,omitempty"`
	DefaultPipeline  string                     `yaml:"default_pipeline,omitempty"`
	Vars             map[string]string          `yaml:"vars,omitempty"`
	EnvironmentsFile string                     `yaml:"environments_file,omitempty"`
	Environments     map[string]TestEnvironment `yaml:"environments,omitempty"`
	Pipelines        map[string][]TestStep      `yaml:"pipelines,omitempty"`
}

// TestEnvironment is an inline environment definition.
type TestEnvironment struct {
	Kind   string            `yaml:"kind,omitempty"`
	Prefix string            `yaml:"prefix,omitempty"`
	Path   []string          `yaml:"path,omitempty"`
	Vars   map[string]string `yaml:"vars,omitempty"`
}

// TestStep is a pipeline step entry.
type TestStep struct {
	Name  string   `yaml:"name,omitempty"`
	Env   string   `yaml:"env,omitempty"`
	Dir   string   `yaml:"dir,omitempty"`
	Run   []string `yaml:"run"`
	Globs bool     `yaml:"globs,omitempty"`
}

// ManifestBuilder builds test manifests.
type ManifestBuilder struct {
	manifest TestManifest
}

// NewManifestBuilder creates a manifest builder for project.
func NewManifestBuilder(project string) *ManifestBuilder {
	return &ManifestBuilder{
		manifest: TestManifest{
			Project:      project,
			Vars:         make(map[string]string),
			Environments: make(map[string]TestEnvironment),
			Pipelines:    make(map[string][]TestStep),
		},
	}
}

// WithVersion sets the release version.
func (b *ManifestBuilder) WithVersion(version string) *ManifestBuilder {
	b.manifest.Version = version
	return b
}

// WithDefaultPipeline sets the pipeline run when none is named.
func (b *ManifestBuilder) WithDefaultPipeline(name string) *ManifestBuilder {
	b.manifest.DefaultPipeline = name
	return b
}

// WithVar sets a substitution variable.
func (b *ManifestBuilder) WithVar(key, value string) *ManifestBuilder {
	b.manifest.Vars[key] = value
	return b
}

// WithEnvironment adds an inline environment.
func (b *ManifestBuilder) WithEnvironment(name string, env TestEnvironment) *ManifestBuilder {
	b.manifest.Environments[name] = env
	return b
}

// WithEnvironmentsFile points the manifest at an INI environments file.
func (b *ManifestBuilder) WithEnvironmentsFile(path string) *ManifestBuilder {
	b.manifest.EnvironmentsFile = path
	return b
}

// WithStep appends a step to the named pipeline.
func (b *ManifestBuilder) WithStep(pipeline string, step TestStep) *ManifestBuilder {
	b.manifest.Pipelines[pipeline] = append(b.manifest.Pipelines[pipeline], step)
	return b
}

// Build returns the constructed manifest.
func (b *ManifestBuilder) Build() TestManifest {
	return b.manifest
}

// YAML renders the manifest.
func (b *ManifestBuilder) YAML(t testing.TB) string {
	t.Helper()
	out, err := yaml.Marshal(b.manifest)
	require.NoError(t, err)
	return string(out)
}
