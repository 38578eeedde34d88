package ports

import (
	"context"
	"strings"
)

// ExecContext is an activated execution context: the environment a command
// runs with. Name is empty for the base (process) context.
type ExecContext struct {
	Name string
	Env  []string
}

// Lookup returns the value of key in the context's environment.
func (c ExecContext) Lookup(key string) (string, bool) {
	prefix := key + "="
	for i := len(c.Env) - 1; i >= 0; i-- {
		if strings.HasPrefix(c.Env[i], prefix) {
			return c.Env[i][len(prefix):], true
		}
	}
	return "", false
}

// Activator switches to a named execution context.
type Activator interface {
	Activate(ctx context.Context, name string) (ExecContext, error)
}
