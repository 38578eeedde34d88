// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
	"errors"
	"strings"
)

// ErrCommandNotFound is returned by a CommandRunner when the program could not
// be located on the search path.
var ErrCommandNotFound = errors.New("command not found")

// CommandRequest describes a single process invocation.
type CommandRequest struct {
	Program string
	Args    []string
	// Dir is the working directory. Empty means the current process directory.
	Dir string
	// Env is the complete environment for the child, in KEY=VALUE form.
	// A nil Env inherits the current process environment.
	Env []string
}

// String returns the argv joined by spaces.
func (r CommandRequest) String() string {
	if len(r.Args) == 0 {
		return r.Program
	}
	return r.Program + " " + strings.Join(r.Args, " ")
}

// CommandResult represents the result of executing a command. Signal is the
// signal that terminated the process, or 0; a signalled process reports
// ExitCode 128+Signal, as a shell would.
type CommandResult struct {
	ExitCode int
	Signal   int
	Stdout   string
	Stderr   string
}

// Success returns true if the command exited with code 0.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// CommandCall records a command invocation.
type CommandCall struct {
	Command string
	Args    []string
	Dir     string
	Env     []string
}

// CommandRunner executes external commands.
//
// A non-zero exit status is reported through CommandResult.ExitCode with a nil
// error. An error is returned only when the process could not be started or
// was interrupted; ErrCommandNotFound is wrapped when the program is missing.
type CommandRunner interface {
	Run(ctx context.Context, req CommandRequest) (CommandResult, error)
}
