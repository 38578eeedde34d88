package environment

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/felixgeelhaar/shipit/internal/ports"
)

// Activator resolves environment names into ExecContexts. Every activation
// starts from the same base environment, so switching from one environment
// to another never stacks their PATH entries.
type Activator struct {
	registry *Registry
	base     []string
	isDir    func(path string) bool
}

// NewActivator creates an Activator over registry. base is the environment
// every activation derives from, usually os.Environ().
func NewActivator(registry *Registry, base []string) *Activator {
	return &Activator{
		registry: registry,
		base:     append([]string(nil), base...),
		isDir:    dirExists,
	}
}

// WithDirCheck replaces the directory existence check.
func (a *Activator) WithDirCheck(isDir func(path string) bool) *Activator {
	clone := *a
	clone.isDir = isDir
	return &clone
}

// Base returns the unactivated context.
func (a *Activator) Base() ports.ExecContext {
	return ports.ExecContext{Env: append([]string(nil), a.base...)}
}

// Activate returns the execution context for name.
func (a *Activator) Activate(ctx context.Context, name string) (ports.ExecContext, error) {
	if err := ctx.Err(); err != nil {
		return ports.ExecContext{}, err
	}

	def, ok := a.registry.Lookup(name)
	if !ok {
		return ports.ExecContext{}, fmt.Errorf("%w: %q", ErrUnknownEnvironment, name)
	}

	env := newEnvList(a.base)

	switch def.Kind {
	case KindConda:
		if !a.isDir(def.Prefix) {
			return ports.ExecContext{}, fmt.Errorf("%w: conda prefix %s does not exist", ErrActivationUnavailable, def.Prefix)
		}
		env.prependPath(filepath.Join(def.Prefix, "bin"))
		env.set("CONDA_PREFIX", def.Prefix)
		env.set("CONDA_DEFAULT_ENV", def.Name)
	case KindVenv:
		if !a.isDir(def.Prefix) {
			return ports.ExecContext{}, fmt.Errorf("%w: virtualenv %s does not exist", ErrActivationUnavailable, def.Prefix)
		}
		env.prependPath(filepath.Join(def.Prefix, "bin"))
		env.set("VIRTUAL_ENV", def.Prefix)
		env.unset("PYTHONHOME")
	}

	for i := len(def.Path) - 1; i >= 0; i-- {
		dir := def.Path[i]
		if !a.isDir(dir) {
			return ports.ExecContext{}, fmt.Errorf("%w: path entry %s does not exist", ErrActivationUnavailable, dir)
		}
		env.prependPath(dir)
	}

	for _, key := range sortedKeys(def.Vars) {
		env.set(key, def.Vars[key])
	}

	return ports.ExecContext{Name: def.Name, Env: env.slice()}, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// envList is an ordered KEY=VALUE list with last-write-wins semantics.
type envList struct {
	keys   []string
	values map[string]string
}

func newEnvList(base []string) *envList {
	l := &envList{values: make(map[string]string, len(base))}
	for _, kv := range base {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		l.set(key, value)
	}
	return l
}

func (l *envList) set(key, value string) {
	if _, ok := l.values[key]; !ok {
		l.keys = append(l.keys, key)
	}
	l.values[key] = value
}

func (l *envList) unset(key string) {
	if _, ok := l.values[key]; !ok {
		return
	}
	delete(l.values, key)
	for i, k := range l.keys {
		if k == key {
			l.keys = append(l.keys[:i], l.keys[i+1:]...)
			break
		}
	}
}

func (l *envList) prependPath(dir string) {
	current, ok := l.values["PATH"]
	if !ok || current == "" {
		l.set("PATH", dir)
		return
	}
	l.set("PATH", dir+string(os.PathListSeparator)+current)
}

func (l *envList) slice() []string {
	out := make([]string, 0, len(l.keys))
	for _, k := range l.keys {
		out = append(out, k+"="+l.values[k])
	}
	return out
}

var _ ports.Activator = (*Activator)(nil)
