// Package command provides command execution adapters.
package command

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/felixgeelhaar/shipit/internal/ports"
)

// RealRunner executes commands as child processes.
type RealRunner struct{}

// NewRealRunner creates a new RealRunner.
func NewRealRunner() *RealRunner {
	return &RealRunner{}
}

// Run executes a command and returns the result.
func (r *RealRunner) Run(ctx context.Context, req ports.CommandRequest) (ports.CommandResult, error) {
	if req.Program == "" {
		return ports.CommandResult{}, fmt.Errorf("empty program: %w", ports.ErrCommandNotFound)
	}

	program := req.Program
	if req.Env != nil && !strings.ContainsRune(program, filepath.Separator) {
		// Resolve against the step's PATH, not ours.
		resolved, err := lookPath(program, envValue(req.Env, "PATH"))
		if err != nil {
			return ports.CommandResult{ExitCode: -1}, fmt.Errorf("%s: %w", req.Program, ports.ErrCommandNotFound)
		}
		program = resolved
	}

	cmd := exec.CommandContext(ctx, program, req.Args...)
	cmd.Args[0] = req.Program
	cmd.Dir = req.Dir
	if req.Env != nil {
		cmd.Env = req.Env
	}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := ports.CommandResult{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		result.ExitCode = -1
		return result, ctxErr
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
				result.Signal = int(ws.Signal())
				result.ExitCode = 128 + result.Signal
			}
			return result, nil
		}
		result.ExitCode = -1
		if isNotFound(err) {
			return result, fmt.Errorf("%s: %w", req.Program, ports.ErrCommandNotFound)
		}
		return result, err
	}

	return result, nil
}

// isNotFound reports whether a start error means the program itself is
// missing. A missing working directory also surfaces as ENOENT but with the
// "chdir" op, and is a launch failure instead.
func isNotFound(err error) bool {
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Op != "chdir" && errors.Is(pathErr.Err, syscall.ENOENT)
	}
	return false
}

// lookPath finds an executable named file in the absolute directories of
// path. Empty and relative entries are skipped: they would resolve against
// shipit's directory rather than the step's.
func lookPath(file, path string) (string, error) {
	for _, dir := range filepath.SplitList(path) {
		if !filepath.IsAbs(dir) {
			continue
		}
		candidate := filepath.Join(dir, file)
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() || info.Mode().Perm()&0o111 == 0 {
			continue
		}
		return candidate, nil
	}
	return "", exec.ErrNotFound
}

// envValue returns the last value of key in env.
func envValue(env []string, key string) string {
	prefix := key + "="
	for i := len(env) - 1; i >= 0; i-- {
		if strings.HasPrefix(env[i], prefix) {
			return env[i][len(prefix):]
		}
	}
	return ""
}

// Ensure RealRunner implements ports.CommandRunner.
var _ ports.CommandRunner = (*RealRunner)(nil)
