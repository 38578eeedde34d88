// Package pipeline models an ordered release pipeline: named steps, each an
// environment plus a command, executed strictly in declaration order.
package pipeline

import (
	"strings"
)

// Command is a program name and its ordered arguments.
type Command struct {
	program string
	args    []string
}

// NewCommand creates a Command. The program must be non-empty.
func NewCommand(program string, args ...string) (Command, error) {
	if strings.TrimSpace(program) == "" {
		return Command{}, ErrEmptyCommand
	}
	return Command{program: program, args: cloneStrings(args)}, nil
}

// MustNewCommand is like NewCommand but panics on error. For tests and
// static pipelines.
func MustNewCommand(program string, args ...string) Command {
	c, err := NewCommand(program, args...)
	if err != nil {
		panic(err)
	}
	return c
}

// CommandFromArgv builds a Command from an argv slice.
func CommandFromArgv(argv []string) (Command, error) {
	if len(argv) == 0 {
		return Command{}, ErrEmptyCommand
	}
	return NewCommand(argv[0], argv[1:]...)
}

// Program returns the executable name or path.
func (c Command) Program() string {
	return c.program
}

// Args returns a copy of the arguments.
func (c Command) Args() []string {
	return cloneStrings(c.args)
}

// Argv returns program followed by its arguments.
func (c Command) Argv() []string {
	argv := make([]string, 0, len(c.args)+1)
	argv = append(argv, c.program)
	return append(argv, c.args...)
}

// IsZero reports whether the command was never set.
func (c Command) IsZero() bool {
	return c.program == ""
}

// String returns the argv joined by spaces.
func (c Command) String() string {
	return strings.Join(c.Argv(), " ")
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
