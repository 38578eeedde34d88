// Package mocks provides test doubles for testing.
package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/felixgeelhaar/shipit/internal/ports"
)

// CommandRunner is a thread-safe test double for ports.CommandRunner.
// Responses are keyed by the full argv of the request.
type CommandRunner struct {
	mu       sync.RWMutex
	results  map[string]ports.CommandResult
	errors   map[string]error
	hooks    map[string]func(ctx context.Context, req ports.CommandRequest)
	fallback *ports.CommandResult
	calls    []ports.CommandCall
}

// NewCommandRunner creates a new CommandRunner mock.
func NewCommandRunner() *CommandRunner {
	return &CommandRunner{
		results: make(map[string]ports.CommandResult),
		errors:  make(map[string]error),
		hooks:   make(map[string]func(context.Context, ports.CommandRequest)),
		calls:   make([]ports.CommandCall, 0),
	}
}

// AddResult registers an expected command and its result.
func (m *CommandRunner) AddResult(command string, args []string, result ports.CommandResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[buildKey(command, args)] = result
}

// AddError registers an expected command that should return an error.
func (m *CommandRunner) AddError(command string, args []string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[buildKey(command, args)] = err
}

// OnRun registers fn to be called when the command is run, before its
// response is returned.
func (m *CommandRunner) OnRun(command string, args []string, fn func(ctx context.Context, req ports.CommandRequest)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks[buildKey(command, args)] = fn
}

// SetFallback makes unregistered commands return result instead of an error.
func (m *CommandRunner) SetFallback(result ports.CommandResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = &result
}

// Run executes a mock command.
func (m *CommandRunner) Run(ctx context.Context, req ports.CommandRequest) (ports.CommandResult, error) {
	key := buildKey(req.Program, req.Args)

	m.mu.Lock()
	m.calls = append(m.calls, ports.CommandCall{
		Command: req.Program,
		Args:    append([]string(nil), req.Args...),
		Dir:     req.Dir,
		Env:     append([]string(nil), req.Env...),
	})
	hook := m.hooks[key]
	m.mu.Unlock()

	if hook != nil {
		hook(ctx, req)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	// Check for registered error first
	if err, ok := m.errors[key]; ok {
		return ports.CommandResult{ExitCode: -1}, err
	}
	if result, ok := m.results[key]; ok {
		return result, nil
	}
	if m.fallback != nil {
		return *m.fallback, nil
	}

	return ports.CommandResult{ExitCode: -1}, fmt.Errorf("no mock result for command: %s %v", req.Program, req.Args)
}

// Calls returns all recorded command invocations.
func (m *CommandRunner) Calls() []ports.CommandCall {
	m.mu.RLock()
	defer m.mu.RUnlock()

	calls := make([]ports.CommandCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CallCount returns how many times the given argv was run.
func (m *CommandRunner) CallCount(command string, args ...string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key := buildKey(command, args)
	n := 0
	for _, c := range m.calls {
		if buildKey(c.Command, c.Args) == key {
			n++
		}
	}
	return n
}

// Reset clears all registered results, errors, hooks, and recorded calls.
func (m *CommandRunner) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = make(map[string]ports.CommandResult)
	m.errors = make(map[string]error)
	m.hooks = make(map[string]func(context.Context, ports.CommandRequest))
	m.fallback = nil
	m.calls = make([]ports.CommandCall, 0)
}

func buildKey(command string, args []string) string {
	return command + "\x00" + strings.Join(args, "\x00")
}

// Ensure CommandRunner implements ports.CommandRunner.
var _ ports.CommandRunner = (*CommandRunner)(nil)
