package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"text/template"
)

var starterTemplate = template.Must(template.New("shipit.yaml").Parse(`# shipit release manifest
project: {{ .Project }}
version: {{ .Version }}
default_pipeline: release

vars:
  repository: https://upload.pypi.org/legacy/

# Environments may also live in an INI file:
# environments_file: environments.ini
environments:
  py27:
    kind: conda
    prefix: {{ .CondaRoot }}/envs/py27
  py36:
    kind: conda
    prefix: {{ .CondaRoot }}/envs/py36

pipelines:
  release:
    - name: sdist
      env: py27
      run: [python, setup.py, sdist]
    - name: wheel
      env: py36
      run: [python, setup.py, bdist_wheel]
    - name: docs
      dir: doc
      run: [make, clean, html]
    - name: upload
      run: [twine, upload, --repository-url, "${repository}", "dist/*"]
      globs: true
`))

// StarterOptions parameterize the starter manifest.
type StarterOptions struct {
	Project   string
	Version   string
	CondaRoot string
}

// StarterManifest renders a starter shipit.yaml modeled on a Python release:
// sdist and wheel under two conda environments, Sphinx docs, twine upload.
func StarterManifest(opts StarterOptions) ([]byte, error) {
	if opts.Project == "" {
		opts.Project = "my-project"
	}
	if opts.Version == "" {
		opts.Version = "0.1.0"
	}
	if opts.CondaRoot == "" {
		opts.CondaRoot = "/opt/conda"
	}
	opts.CondaRoot = strings.TrimRight(opts.CondaRoot, "/")

	var b strings.Builder
	if err := starterTemplate.Execute(&b, opts); err != nil {
		return nil, fmt.Errorf("render starter manifest: %w", err)
	}
	return []byte(b.String()), nil
}

// WriteStarter writes the starter manifest to path. An existing file is only
// replaced when force is set.
func WriteStarter(path string, opts StarterOptions, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return &UserError{
				Code:       ErrCodeFileExists,
				Message:    fmt.Sprintf("%s already exists", path),
				Context:    path,
				Suggestion: "Use --force to overwrite it.",
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	data, err := StarterManifest(opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
