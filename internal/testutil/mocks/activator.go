package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/shipit/internal/ports"
)

// Activator is a thread-safe test double for ports.Activator. Each
// registered environment yields an ExecContext whose Env contains
// SHIPIT_ENV=<name> plus any extra variables.
type Activator struct {
	mu     sync.Mutex
	envs   map[string][]string
	errors map[string]error
	calls  []string
}

// NewActivator creates an Activator that knows the given environment names.
func NewActivator(names ...string) *Activator {
	a := &Activator{
		envs:   make(map[string][]string),
		errors: make(map[string]error),
	}
	for _, n := range names {
		a.envs[n] = nil
	}
	return a
}

// AddEnvironment registers name with extra KEY=VALUE variables.
func (a *Activator) AddEnvironment(name string, vars ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.envs[name] = append([]string(nil), vars...)
}

// AddError makes activating name fail with err.
func (a *Activator) AddError(name string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errors[name] = err
}

// Activate records the activation and returns the registered context.
func (a *Activator) Activate(_ context.Context, name string) (ports.ExecContext, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.calls = append(a.calls, name)
	if err, ok := a.errors[name]; ok {
		return ports.ExecContext{}, err
	}
	vars, ok := a.envs[name]
	if !ok {
		return ports.ExecContext{}, fmt.Errorf("environment %q is not registered", name)
	}

	env := append([]string{"SHIPIT_ENV=" + name}, vars...)
	return ports.ExecContext{Name: name, Env: env}, nil
}

// Activations returns the names passed to Activate, in order.
func (a *Activator) Activations() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.calls...)
}

// Count returns how many times name was activated.
func (a *Activator) Count(name string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, c := range a.calls {
		if c == name {
			n++
		}
	}
	return n
}

var _ ports.Activator = (*Activator)(nil)
