// Package steplog persists each step's captured output to disk so a failed
// release can be diagnosed after the terminal scrollback is gone.
package steplog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/felixgeelhaar/shipit/internal/adapters/logging"
	"github.com/felixgeelhaar/shipit/internal/domain/pipeline"
	"github.com/felixgeelhaar/shipit/internal/domain/runner"
	"github.com/felixgeelhaar/shipit/internal/ports"
)

// Store writes one file per finished step to <base>/<run-id>/<nn>-<name>.log.
// It implements runner.Observer. Write failures are logged as warnings and
// never reach the runner.
type Store struct {
	dir    string
	logger ports.Logger

	mu    sync.Mutex
	paths []string
}

// NewStore creates a Store for one run.
func NewStore(baseDir, runID string, logger ports.Logger) *Store {
	return &Store{
		dir:    filepath.Join(baseDir, sanitize(runID)),
		logger: logging.Or(logger),
	}
}

// Dir returns the run's log directory.
func (s *Store) Dir() string {
	return s.dir
}

// Paths returns the files written so far, in step order.
func (s *Store) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

// StepStarted does nothing; output is only known once the step finishes.
func (s *Store) StepStarted(int, pipeline.Step) {}

// StepFinished writes the step's log file.
func (s *Store) StepFinished(result runner.ExecutionResult) {
	path, err := s.save(result)
	if err != nil {
		s.logger.Warn(context.Background(), "failed to write step log",
			ports.F("step", result.Step), ports.Err(err))
		return
	}

	s.mu.Lock()
	s.paths = append(s.paths, path)
	s.mu.Unlock()
}

func (s *Store) save(result runner.ExecutionResult) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%02d-%s.log", result.Index+1, sanitize(result.Step))
	path := filepath.Join(s.dir, filename)

	if err := os.WriteFile(path, []byte(render(result)), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func render(r runner.ExecutionResult) string {
	var b strings.Builder

	env := r.Environment
	if env == "" {
		env = "-"
	}
	fmt.Fprintf(&b, "step:      %s\n", r.Step)
	fmt.Fprintf(&b, "env:       %s\n", env)
	if r.Dir != "" {
		fmt.Fprintf(&b, "dir:       %s\n", r.Dir)
	}
	fmt.Fprintf(&b, "command:   %s\n", strings.Join(r.Argv, " "))
	fmt.Fprintf(&b, "exit code: %d\n", r.ExitCode)
	fmt.Fprintf(&b, "duration:  %s\n", r.Duration)
	if r.Err != nil {
		fmt.Fprintf(&b, "error:     %s\n", r.Err.Error())
	}

	b.WriteString("\n--- stdout ---\n")
	b.WriteString(r.Stdout)
	if r.Stdout != "" && !strings.HasSuffix(r.Stdout, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString("--- stderr ---\n")
	b.WriteString(r.Stderr)
	if r.Stderr != "" && !strings.HasSuffix(r.Stderr, "\n") {
		b.WriteByte('\n')
	}
	return b.String()
}

// sanitize keeps characters that are safe in file names.
func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
		}
	}
	clean := strings.Trim(b.String(), ".")
	if clean == "" {
		return "step"
	}
	return clean
}

var _ runner.Observer = (*Store)(nil)
