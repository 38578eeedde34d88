// Package runner executes a pipeline's steps strictly in order and stops at
// the first failure.
package runner

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/shipit/internal/domain/pipeline"
	"github.com/felixgeelhaar/shipit/internal/ports"
)

// ErrNoActivator is the cause reported when a step names an environment but
// the runner has no activation mechanism.
var ErrNoActivator = errors.New("no environment activation mechanism configured")

// Runner runs pipelines. A Runner is not safe for concurrent Run calls:
// activation state is threaded through a single run.
type Runner struct {
	commands  ports.CommandRunner
	activator ports.Activator
	base      ports.ExecContext
	observer  Observer
	logger    ports.Logger
	now       func() time.Time
}

// New creates a Runner. activator may be nil when no step names an
// environment.
func New(commands ports.CommandRunner, activator ports.Activator) *Runner {
	return &Runner{
		commands:  commands,
		activator: activator,
		observer:  Observers(),
		logger:    nopLogger{},
		now:       time.Now,
	}
}

// WithBaseContext returns a Runner whose runs start in base. The default is
// an unnamed context inheriting the process environment.
func (r *Runner) WithBaseContext(base ports.ExecContext) *Runner {
	clone := *r
	clone.base = base
	return &clone
}

// WithObserver returns a Runner that reports step events to o.
func (r *Runner) WithObserver(o Observer) *Runner {
	clone := *r
	clone.observer = Observers(o)
	return &clone
}

// WithLogger returns a Runner that logs step events.
func (r *Runner) WithLogger(logger ports.Logger) *Runner {
	clone := *r
	if logger == nil {
		logger = nopLogger{}
	}
	clone.logger = logger
	return &clone
}

// WithClock returns a Runner using now for durations.
func (r *Runner) WithClock(now func() time.Time) *Runner {
	clone := *r
	clone.now = now
	return &clone
}

// Run executes p. Steps run one at a time; the first failure stops the run
// and later steps are never attempted. An empty pipeline succeeds with no
// results.
func (r *Runner) Run(ctx context.Context, p *pipeline.Pipeline) *Result {
	start := r.now()
	steps := p.Steps()

	result := &Result{
		Pipeline: p.Name(),
		Total:    len(steps),
		Results:  make([]ExecutionResult, 0, len(steps)),
		Phase:    PhaseIdle,
	}

	lc, err := newLifecycle(p.Name())
	if err != nil {
		r.logger.Warn(ctx, "run lifecycle unavailable", ports.Err(err))
	} else {
		defer lc.stop()
		lc.send(eventStart)
	}

	r.logger.Info(ctx, "pipeline started", ports.F("pipeline", p.Name()), ports.F("steps", len(steps)))

	current := r.base
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			result.Failure = &StepError{
				Index:       i,
				Step:        step.Name(),
				Environment: step.Environment(),
				Kind:        KindAborted,
				ExitCode:    -1,
				Err:         err,
			}
			break
		}

		r.observer.StepStarted(i, step)
		er := r.runStep(ctx, i, step, &current)
		result.Results = append(result.Results, er)
		r.observer.StepFinished(er)

		if er.Err != nil {
			result.Failure = er.Err
			break
		}
	}

	result.Success = result.Failure == nil && len(result.Results) == len(steps)
	result.Duration = r.now().Sub(start)
	result.Phase = r.finish(lc, result)

	if result.Success {
		r.logger.Info(ctx, "pipeline succeeded",
			ports.F("pipeline", p.Name()),
			ports.F("steps", len(result.Results)),
			ports.F("duration", result.Duration))
	} else {
		r.logger.Error(ctx, "pipeline stopped",
			ports.F("pipeline", p.Name()),
			ports.F("phase", string(result.Phase)),
			ports.F("attempted", len(result.Results)),
			ports.F("skipped", result.Skipped()),
			ports.Err(result.Err()))
	}

	return result
}

func (r *Runner) finish(lc *lifecycle, result *Result) Phase {
	phase := PhaseSucceeded
	event := eventComplete
	if result.Failure != nil {
		phase, event = PhaseFailed, eventStepFailed
		if result.Failure.Kind == KindAborted {
			phase, event = PhaseAborted, eventAbort
		}
	}
	if lc == nil {
		return phase
	}
	lc.send(event)
	return lc.phase()
}

func (r *Runner) runStep(ctx context.Context, index int, step pipeline.Step, current *ports.ExecContext) ExecutionResult {
	start := r.now()
	er := ExecutionResult{
		Index:       index,
		Step:        step.Name(),
		Environment: current.Name,
		Argv:        step.Command().Argv(),
		Dir:         step.WorkingDirectory(),
		ExitCode:    -1,
	}
	log := r.logger.With(ports.F("step", step.Name()), ports.F("index", index+1))

	fail := func(kind ErrorKind, cause error) ExecutionResult {
		if ctx.Err() != nil && kind != KindCommandFailed {
			kind, cause = KindAborted, ctx.Err()
		}
		er.Kind = kind
		er.Duration = r.now().Sub(start)
		er.Err = &StepError{
			Index:       index,
			Step:        step.Name(),
			Environment: er.Environment,
			Kind:        kind,
			ExitCode:    er.ExitCode,
			Signal:      er.Signal,
			Stderr:      er.Stderr,
			Err:         cause,
		}
		log.Error(ctx, "step failed",
			ports.F("kind", kind.String()),
			ports.F("exit_code", er.ExitCode),
			ports.F("duration", er.Duration),
			ports.Err(cause))
		return er
	}

	if name := step.Environment(); name != "" && name != current.Name {
		er.Environment = name
		if r.activator == nil {
			return fail(KindEnvironmentSwitch, ErrNoActivator)
		}
		next, err := r.activator.Activate(ctx, name)
		if err != nil {
			return fail(KindEnvironmentSwitch, err)
		}
		*current = next
		log.Debug(ctx, "environment activated", ports.F("env", name))
	}

	args, err := step.ResolvedArgs()
	if err != nil {
		return fail(KindCommandFailed, err)
	}
	er.Argv = append([]string{step.Command().Program()}, args...)

	log.Info(ctx, "step started", ports.F("env", er.Environment), ports.F("argv", er.Argv))

	res, err := r.commands.Run(ctx, ports.CommandRequest{
		Program: step.Command().Program(),
		Args:    args,
		Dir:     step.WorkingDirectory(),
		Env:     current.Env,
	})
	er.ExitCode = res.ExitCode
	er.Signal = res.Signal
	er.Stdout = res.Stdout
	er.Stderr = res.Stderr

	switch {
	case err != nil && ctx.Err() != nil:
		return fail(KindAborted, ctx.Err())
	case err != nil && errors.Is(err, ports.ErrCommandNotFound):
		er.ExitCode = -1
		return fail(KindCommandNotFound, err)
	case err != nil:
		er.ExitCode = -1
		return fail(KindCommandFailed, err)
	case res.ExitCode != 0:
		return fail(KindCommandFailed, ErrCommandFailed)
	}

	er.Kind = KindNone
	er.Duration = r.now().Sub(start)
	log.Info(ctx, "step finished", ports.F("exit_code", er.ExitCode), ports.F("duration", er.Duration))
	return er
}

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...ports.Field) {}
func (nopLogger) Info(context.Context, string, ...ports.Field)  {}
func (nopLogger) Warn(context.Context, string, ...ports.Field)  {}
func (nopLogger) Error(context.Context, string, ...ports.Field) {}
func (n nopLogger) With(...ports.Field) ports.Logger            { return n }
func (nopLogger) Level() ports.Level                            { return ports.LevelError }
func (nopLogger) SetLevel(ports.Level)                          {}
