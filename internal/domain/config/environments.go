package config

import (
	"path/filepath"

	"github.com/felixgeelhaar/shipit/internal/domain/environment"
)

// Registry builds the environment registry: definitions from the
// environments file first, then inline definitions, which win on name
// clashes.
func (m *Manifest) Registry() (*environment.Registry, error) {
	reg := environment.NewRegistry()

	if m.EnvironmentsFile != "" {
		path := m.EnvironmentsFile
		if !filepath.IsAbs(path) && m.dir != "" {
			path = filepath.Join(m.dir, path)
		}
		defs, err := environment.LoadINI(path)
		if err != nil {
			return nil, NewEnvironmentsFileError(path, err)
		}
		for _, def := range defs {
			if err := reg.Register(def); err != nil {
				return nil, NewEnvironmentsFileError(path, err)
			}
		}
	}

	for _, name := range sortedKeys(m.Environments) {
		spec := m.Environments[name]
		kind, err := environment.ParseKind(spec.Kind)
		if err != nil {
			return nil, NewValidationFailedError("environments."+name+".kind", err.Error())
		}
		def := environment.Definition{
			Name:   name,
			Kind:   kind,
			Prefix: spec.Prefix,
			Path:   spec.Path,
			Vars:   spec.Vars,
		}
		if err := reg.Register(def); err != nil {
			return nil, NewValidationFailedError("environments."+name, err.Error())
		}
	}

	return reg, nil
}
