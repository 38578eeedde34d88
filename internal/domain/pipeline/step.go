package pipeline

import (
	"fmt"
	"strings"
)

// Step is one environment+command unit of a Pipeline.
type Step struct {
	name        string
	environment string
	command     Command
	dir         string
	expandGlobs bool
}

// StepOption configures a Step.
type StepOption func(*Step)

// InEnvironment sets the execution context to activate before the command.
// Empty means "stay in the current context".
func InEnvironment(name string) StepOption {
	return func(s *Step) {
		s.environment = strings.TrimSpace(name)
	}
}

// InDir sets the working directory. Empty means the process directory.
func InDir(dir string) StepOption {
	return func(s *Step) {
		s.dir = dir
	}
}

// Named sets the display name.
func Named(name string) StepOption {
	return func(s *Step) {
		s.name = strings.TrimSpace(name)
	}
}

// WithGlobs enables shell-style glob expansion of arguments.
func WithGlobs(enabled bool) StepOption {
	return func(s *Step) {
		s.expandGlobs = enabled
	}
}

// NewStep creates a Step running cmd.
func NewStep(cmd Command, opts ...StepOption) (Step, error) {
	if cmd.IsZero() {
		return Step{}, ErrEmptyCommand
	}
	s := Step{command: cmd}
	for _, opt := range opts {
		opt(&s)
	}
	return s, nil
}

// MustNewStep is like NewStep but panics on error.
func MustNewStep(cmd Command, opts ...StepOption) Step {
	s, err := NewStep(cmd, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the step's display name. May be empty until the step is added
// to a Pipeline, which assigns "step-<n>".
func (s Step) Name() string {
	return s.name
}

// Environment returns the execution context name, or "" for the current one.
func (s Step) Environment() string {
	return s.environment
}

// Command returns the invocation.
func (s Step) Command() Command {
	return s.command
}

// WorkingDirectory returns the directory override, or "".
func (s Step) WorkingDirectory() string {
	return s.dir
}

// ExpandGlobs reports whether arguments are glob-expanded before execution.
func (s Step) ExpandGlobs() bool {
	return s.expandGlobs
}

// String renders the step for diagnostics.
func (s Step) String() string {
	env := s.environment
	if env == "" {
		env = "-"
	}
	return fmt.Sprintf("%s [%s] %s", s.name, env, s.command)
}

func (s Step) clone() Step {
	s.command = Command{program: s.command.program, args: cloneStrings(s.command.args)}
	return s
}
