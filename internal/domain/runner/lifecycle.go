package runner

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Phase is the lifecycle state of a pipeline run.
type Phase string

const (
	// PhaseIdle means the run has not started.
	PhaseIdle Phase = "idle"
	// PhaseRunning means steps are executing.
	PhaseRunning Phase = "running"
	// PhaseSucceeded means every step ran and exited 0.
	PhaseSucceeded Phase = "succeeded"
	// PhaseFailed means a step failed and the remaining steps were skipped.
	PhaseFailed Phase = "failed"
	// PhaseAborted means the run was cancelled and is partially executed.
	PhaseAborted Phase = "aborted"
)

// Terminal reports whether no further transitions happen in this run.
func (p Phase) Terminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed || p == PhaseAborted
}

// Events for the run state machine.
const (
	eventStart      = "START"
	eventComplete   = "COMPLETE"
	eventStepFailed = "STEP_FAILED"
	eventAbort      = "ABORT"
	eventReset      = "RESET"
)

// runContext is the statekit context for a run.
type runContext struct {
	Pipeline string
}

// lifecycle tracks one run through idle → running → succeeded|failed|aborted.
type lifecycle struct {
	interp *statekit.Interpreter[runContext]
}

func newLifecycle(pipelineName string) (*lifecycle, error) {
	machine, err := statekit.NewMachine[runContext]("shipit-run").
		WithInitial("idle").
		WithContext(runContext{Pipeline: pipelineName}).
		State("idle").
		On(eventStart).Target("running").Done().
		State("running").
		On(eventComplete).Target("succeeded").
		On(eventStepFailed).Target("failed").
		On(eventAbort).Target("aborted").Done().
		State("succeeded").
		On(eventReset).Target("idle").Done().
		State("failed").
		On(eventReset).Target("idle").Done().
		State("aborted").
		On(eventReset).Target("idle").Done().
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build run state machine: %w", err)
	}

	interp := statekit.NewInterpreter(machine)
	interp.Start()
	return &lifecycle{interp: interp}, nil
}

func (l *lifecycle) send(event string) {
	l.interp.Send(statekit.Event{Type: statekit.EventType(event)})
}

func (l *lifecycle) phase() Phase {
	return Phase(l.interp.State().Value)
}

func (l *lifecycle) stop() {
	l.interp.Stop()
}
