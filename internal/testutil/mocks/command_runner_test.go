package mocks

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/felixgeelhaar/shipit/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandRunner_AddResult(t *testing.T) {
	runner := NewCommandRunner()
	runner.AddResult("python", []string{"--version"}, ports.CommandResult{
		ExitCode: 0,
		Stdout:   "Python 3.6.15",
	})

	result, err := runner.Run(context.Background(), ports.CommandRequest{Program: "python", Args: []string{"--version"}})
	require.NoError(t, err)
	assert.Equal(t, "Python 3.6.15", result.Stdout)
}

func TestCommandRunner_NotRegistered(t *testing.T) {
	runner := NewCommandRunner()

	_, err := runner.Run(context.Background(), ports.CommandRequest{Program: "unknown", Args: []string{"command"}})
	assert.Error(t, err)
}

func TestCommandRunner_Fallback(t *testing.T) {
	runner := NewCommandRunner()
	runner.SetFallback(ports.CommandResult{ExitCode: 0})

	result, err := runner.Run(context.Background(), ports.CommandRequest{Program: "anything"})
	require.NoError(t, err)
	assert.True(t, result.Success())
}

func TestCommandRunner_AddError(t *testing.T) {
	runner := NewCommandRunner()
	runner.AddError("twine", nil, ports.ErrCommandNotFound)

	_, err := runner.Run(context.Background(), ports.CommandRequest{Program: "twine"})
	assert.True(t, errors.Is(err, ports.ErrCommandNotFound))
}

func TestCommandRunner_RecordsCalls(t *testing.T) {
	runner := NewCommandRunner()
	runner.SetFallback(ports.CommandResult{})

	_, _ = runner.Run(context.Background(), ports.CommandRequest{
		Program: "python", Args: []string{"setup.py", "sdist"}, Dir: "/src", Env: []string{"A=1"},
	})
	_, _ = runner.Run(context.Background(), ports.CommandRequest{Program: "make", Args: []string{"html"}})

	calls := runner.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "python", calls[0].Command)
	assert.Equal(t, []string{"setup.py", "sdist"}, calls[0].Args)
	assert.Equal(t, "/src", calls[0].Dir)
	assert.Equal(t, []string{"A=1"}, calls[0].Env)
	assert.Equal(t, 1, runner.CallCount("make", "html"))
	assert.Equal(t, 0, runner.CallCount("make"))
}

func TestCommandRunner_OnRun(t *testing.T) {
	runner := NewCommandRunner()
	runner.SetFallback(ports.CommandResult{})
	hits := 0
	runner.OnRun("make", []string{"html"}, func(context.Context, ports.CommandRequest) { hits++ })

	_, _ = runner.Run(context.Background(), ports.CommandRequest{Program: "make", Args: []string{"html"}})
	_, _ = runner.Run(context.Background(), ports.CommandRequest{Program: "make"})

	assert.Equal(t, 1, hits)
}

func TestCommandRunner_KeyDistinguishesArgBoundaries(t *testing.T) {
	runner := NewCommandRunner()
	runner.AddResult("echo", []string{"a b"}, ports.CommandResult{Stdout: "joined"})

	_, err := runner.Run(context.Background(), ports.CommandRequest{Program: "echo", Args: []string{"a", "b"}})
	assert.Error(t, err)
}

func TestCommandRunner_Reset(t *testing.T) {
	runner := NewCommandRunner()
	runner.AddResult("git", []string{"--version"}, ports.CommandResult{ExitCode: 0})
	_, _ = runner.Run(context.Background(), ports.CommandRequest{Program: "git", Args: []string{"--version"}})

	runner.Reset()

	assert.Empty(t, runner.Calls())
	_, err := runner.Run(context.Background(), ports.CommandRequest{Program: "git", Args: []string{"--version"}})
	assert.Error(t, err, "Reset() should clear all results")
}

func TestCommandRunner_ThreadSafety(t *testing.T) {
	runner := NewCommandRunner()
	for i := 0; i < 100; i++ {
		runner.AddResult("cmd", []string{string(rune('a' + i%26))}, ports.CommandResult{ExitCode: 0})
	}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, _ = runner.Run(context.Background(), ports.CommandRequest{Program: "cmd", Args: []string{string(rune('a' + idx%26))}})
			_ = runner.Calls()
		}(i)
	}
	wg.Wait()

	assert.Len(t, runner.Calls(), 100)
}

func TestActivator(t *testing.T) {
	a := NewActivator("py27")
	a.AddEnvironment("py36", "PYTHON=3.6")
	a.AddError("broken", errors.New("no conda"))

	ec, err := a.Activate(context.Background(), "py36")
	require.NoError(t, err)
	assert.Equal(t, "py36", ec.Name)
	v, ok := ec.Lookup("PYTHON")
	assert.True(t, ok)
	assert.Equal(t, "3.6", v)

	_, err = a.Activate(context.Background(), "py27")
	require.NoError(t, err)
	_, err = a.Activate(context.Background(), "broken")
	assert.EqualError(t, err, "no conda")
	_, err = a.Activate(context.Background(), "missing")
	assert.Error(t, err)

	assert.Equal(t, []string{"py36", "py27", "broken", "missing"}, a.Activations())
	assert.Equal(t, 1, a.Count("py36"))
}
