// Package app provides the main application logic for shipit.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/shipit/internal/adapters/command"
	"github.com/felixgeelhaar/shipit/internal/adapters/logging"
	"github.com/felixgeelhaar/shipit/internal/adapters/steplog"
	"github.com/felixgeelhaar/shipit/internal/domain/config"
	"github.com/felixgeelhaar/shipit/internal/domain/environment"
	"github.com/felixgeelhaar/shipit/internal/domain/pipeline"
	"github.com/felixgeelhaar/shipit/internal/domain/runner"
	"github.com/felixgeelhaar/shipit/internal/ports"
	"github.com/felixgeelhaar/shipit/internal/tui/ui"
)

// Shipit is the main application orchestrator.
type Shipit struct {
	loader    *config.Loader
	commands  ports.CommandRunner
	activator ports.Activator
	logger    ports.Logger
	baseEnv   []string
	newRunID  func() string
	styles    ui.Styles
	out       io.Writer

	// runMu serializes pipeline runs.
	runMu sync.Mutex
}

// New creates a new Shipit application wired to the real command runner
// and the process environment.
func New(out io.Writer) *Shipit {
	return &Shipit{
		loader:   config.NewLoader(),
		commands: command.NewRealRunner(),
		logger:   logging.NewNopLogger(),
		baseEnv:  os.Environ(),
		newRunID: func() string { return uuid.New().String() },
		styles:   ui.DefaultStyles(),
		out:      out,
	}
}

// WithCommandRunner sets the runner used to execute step commands.
func (s *Shipit) WithCommandRunner(r ports.CommandRunner) *Shipit {
	s.commands = r
	return s
}

// WithActivator replaces the manifest's environment registry with a fixed
// activator.
func (s *Shipit) WithActivator(a ports.Activator) *Shipit {
	s.activator = a
	return s
}

// WithLogger sets the logger.
func (s *Shipit) WithLogger(logger ports.Logger) *Shipit {
	s.logger = logging.Or(logger)
	return s
}

// WithBaseEnv sets the environment steps start from (default: os.Environ()).
func (s *Shipit) WithBaseEnv(env []string) *Shipit {
	s.baseEnv = append([]string(nil), env...)
	return s
}

// WithRunIDGenerator overrides run id generation.
func (s *Shipit) WithRunIDGenerator(fn func() string) *Shipit {
	s.newRunID = fn
	return s
}

// Project is a loaded manifest together with its environment registry.
type Project struct {
	Path     string
	Manifest *config.Manifest
	Registry *environment.Registry
}

// Load reads the manifest at path and builds its environment registry.
func (s *Shipit) Load(path string) (*Project, error) {
	manifest, err := s.loader.LoadManifest(path)
	if err != nil {
		return nil, err
	}
	reg, err := manifest.Registry()
	if err != nil {
		return nil, err
	}
	return &Project{Path: path, Manifest: manifest, Registry: reg}, nil
}

// Options select and parameterize a pipeline.
type Options struct {
	// Pipeline is the pipeline name; empty uses the manifest default.
	Pipeline  string
	Overrides config.Overrides
}

// RunOptions configure Run.
type RunOptions struct {
	Options
	// LogDir receives per-step output files. Empty disables step logs.
	LogDir string
	// Observer receives step callbacks in addition to the step log store.
	Observer runner.Observer
}

// Plan loads and validates the manifest and resolves the pipeline without
// executing anything.
func (s *Shipit) Plan(_ context.Context, path string, opts Options) (*Plan, error) {
	project, p, err := s.prepare(path, opts)
	if err != nil {
		return nil, err
	}
	return newPlan(project.Manifest, p, opts.Overrides), nil
}

// Prepare is Plan without the plan projection: it returns the runnable
// pipeline.
func (s *Shipit) Prepare(path string, opts Options) (*pipeline.Pipeline, error) {
	_, p, err := s.prepare(path, opts)
	return p, err
}

func (s *Shipit) prepare(path string, opts Options) (*Project, *pipeline.Pipeline, error) {
	project, err := s.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if err := project.Manifest.Validate(project.Registry, opts.Overrides); err != nil {
		return nil, nil, err
	}
	p, err := project.Manifest.Pipeline(opts.Pipeline, opts.Overrides)
	if err != nil {
		return nil, nil, err
	}
	return project, p, nil
}

// Run executes a pipeline. The returned error is non-nil only when the
// manifest cannot be loaded or is invalid; step failures are reported in
// the RunReport.
func (s *Shipit) Run(ctx context.Context, path string, opts RunOptions) (*RunReport, error) {
	project, p, err := s.prepare(path, opts.Options)
	if err != nil {
		return nil, err
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	runID := s.newRunID()
	logger := s.logger.With(ports.F("run_id", runID))
	m := project.Manifest
	version := m.Version
	if opts.Overrides.Version != "" {
		version = opts.Overrides.Version
	}

	var store *steplog.Store
	observers := []runner.Observer{opts.Observer}
	if opts.LogDir != "" {
		store = steplog.NewStore(opts.LogDir, runID, logger)
		observers = append(observers, store)
	}

	r := runner.New(s.commands, s.activatorFor(project)).
		WithBaseContext(ports.ExecContext{Env: s.baseEnv}).
		WithLogger(logger).
		WithObserver(runner.Observers(observers...))

	logger.Info(ctx, "run started",
		ports.F("project", m.Project),
		ports.F("version", version),
		ports.F("pipeline", p.Name()))

	result := r.Run(ctx, p)

	report := &RunReport{
		RunID:   runID,
		Project: m.Project,
		Version: version,
		Result:  result,
	}
	if store != nil {
		report.LogDir = store.Dir()
		report.LogFiles = store.Paths()
	}
	return report, nil
}

func (s *Shipit) activatorFor(project *Project) ports.Activator {
	if s.activator != nil {
		return s.activator
	}
	return environment.NewActivator(project.Registry, s.baseEnv)
}

// Environments returns the environment definitions available to the
// manifest at path, sorted by name.
func (s *Shipit) Environments(path string) ([]environment.Definition, error) {
	project, err := s.Load(path)
	if err != nil {
		return nil, err
	}
	return project.Registry.Definitions(), nil
}

// printf is a helper that writes to the output writer, ignoring errors.
func (s *Shipit) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}
