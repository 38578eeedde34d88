// Package environment models named execution contexts (conda environments,
// virtualenvs, plain PATH overlays) and activates them as explicit values
// instead of mutating process state.
package environment

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind identifies how an environment is activated.
type Kind string

const (
	// KindPath prepends the configured directories to PATH.
	KindPath Kind = "path"
	// KindConda activates a conda prefix.
	KindConda Kind = "conda"
	// KindVenv activates a Python virtualenv.
	KindVenv Kind = "venv"
)

// ParseKind parses a kind name. Empty means KindPath.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindPath:
		return KindPath, nil
	case KindConda:
		return KindConda, nil
	case KindVenv, "virtualenv":
		return KindVenv, nil
	default:
		return "", fmt.Errorf("%w: %q (expected path, conda or venv)", ErrInvalidKind, s)
	}
}

var (
	// ErrUnknownEnvironment is returned when a name is not registered.
	ErrUnknownEnvironment = errors.New("unknown environment")
	// ErrActivationUnavailable is returned when an environment's prefix or
	// path entries do not exist on this machine.
	ErrActivationUnavailable = errors.New("environment activation unavailable")
	// ErrInvalidKind is returned for an unsupported environment kind.
	ErrInvalidKind = errors.New("invalid environment kind")
	// ErrInvalidDefinition is returned for an incomplete definition.
	ErrInvalidDefinition = errors.New("invalid environment definition")
)

// Definition describes one named environment.
type Definition struct {
	Name   string
	Kind   Kind
	Prefix string
	Path   []string
	Vars   map[string]string
}

// Validate checks the definition is complete for its kind.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	switch d.Kind {
	case KindConda, KindVenv:
		if d.Prefix == "" {
			return fmt.Errorf("%w: %s environment %q requires a prefix", ErrInvalidDefinition, d.Kind, d.Name)
		}
	case KindPath, "":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidKind, d.Kind)
	}
	for key := range d.Vars {
		if key == "" || strings.ContainsAny(key, "= ") {
			return fmt.Errorf("%w: environment %q has invalid variable name %q", ErrInvalidDefinition, d.Name, key)
		}
	}
	return nil
}

// Registry holds environment definitions by name.
type Registry struct {
	defs map[string]Definition
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds or replaces a definition.
func (r *Registry) Register(def Definition) error {
	if def.Kind == "" {
		def.Kind = KindPath
	}
	if err := def.Validate(); err != nil {
		return err
	}
	def.Path = append([]string(nil), def.Path...)
	vars := make(map[string]string, len(def.Vars))
	for k, v := range def.Vars {
		vars[k] = v
	}
	def.Vars = vars
	r.defs[def.Name] = def
	return nil
}

// Lookup returns the definition for name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.defs[name]
	return ok
}

// Names returns registered names sorted alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns all definitions sorted by name.
func (r *Registry) Definitions() []Definition {
	names := r.Names()
	defs := make([]Definition, 0, len(names))
	for _, name := range names {
		defs = append(defs, r.defs[name])
	}
	return defs
}

// Len returns the number of registered environments.
func (r *Registry) Len() int {
	return len(r.defs)
}
