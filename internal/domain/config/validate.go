package config

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/felixgeelhaar/shipit/internal/domain/environment"
)

// CanonicalVersion returns v in canonical semver form ("v1.2.3"). A leading
// "v" is optional on input.
func CanonicalVersion(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", false
	}
	return semver.Canonical(v), true
}

// Validate checks the whole manifest against reg and collects every problem
// in an ErrorList. reg may be nil when environments could not be loaded;
// environment references are then not checked.
func (m *Manifest) Validate(reg *environment.Registry, o Overrides) error {
	errs := NewErrorList()

	version := m.Version
	if o.Version != "" {
		version = o.Version
	}
	if version != "" {
		if _, ok := CanonicalVersion(version); !ok {
			errs.AddValidation("version", fmt.Sprintf("%q is not a semantic version", version),
				"Use MAJOR.MINOR.PATCH, e.g. 0.1.0 or v1.2.0-rc.1.")
		}
	}

	for key := range m.Vars {
		if !varNamePattern.MatchString(key) {
			errs.AddValidation("vars."+key, "invalid variable name",
				"Use letters, digits, '_', '.' or '-', starting with a letter or '_'.")
		}
	}

	if len(m.Pipelines) == 0 {
		errs.AddValidation("pipelines", "at least one pipeline is required",
			"Add a 'pipelines:' section, or run 'shipit init' for an example.")
	}
	if m.DefaultPipeline != "" {
		if _, ok := m.Pipelines[m.DefaultPipeline]; !ok {
			errs.Add(NewPipelineNotFoundError(m.DefaultPipeline, m.PipelineNames()).WithContext("default_pipeline"))
		}
	}

	var envNames []string
	if reg != nil {
		envNames = reg.Names()
	}

	for _, name := range m.PipelineNames() {
		vars := m.Variables(name, o)
		seen := make(map[string]bool)
		for i, spec := range m.Pipelines[name] {
			field := stepField(name, i, spec)

			if len(spec.Run) == 0 || strings.TrimSpace(spec.Run[0]) == "" {
				errs.AddValidation(field+".run", "command is empty", "Give the step a command, e.g. run: [make, html].")
			}
			if spec.Name != "" {
				if seen[spec.Name] {
					errs.AddValidation(field+".name", fmt.Sprintf("duplicate step name %q", spec.Name),
						"Step names must be unique within a pipeline.")
				}
				seen[spec.Name] = true
			}
			if env := strings.TrimSpace(spec.Env); env != "" && reg != nil && !reg.Has(env) {
				errs.Add(NewEnvironmentNotFoundError(field, env, envNames))
			}
			for _, s := range append(append([]string{}, spec.Run...), spec.Dir) {
				if _, missing := expand(s, vars); len(missing) > 0 {
					for _, v := range missing {
						errs.Add(NewUnknownVariableError(field, v))
					}
				}
			}
		}
	}

	return errs.AsError()
}
