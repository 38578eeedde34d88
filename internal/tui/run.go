// Package tui renders pipeline runs with Bubble Tea.
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/shipit/internal/domain/pipeline"
	"github.com/felixgeelhaar/shipit/internal/domain/runner"
)

// StartFunc runs the pipeline with the given context and observer.
type StartFunc func(ctx context.Context, observer runner.Observer) *runner.Result

// programObserver forwards runner callbacks to a running program.
type programObserver struct {
	program *tea.Program
}

func (o programObserver) StepStarted(index int, step pipeline.Step) {
	o.program.Send(StepStartedMsg{Index: index, Step: step})
}

func (o programObserver) StepFinished(result runner.ExecutionResult) {
	o.program.Send(StepFinishedMsg{Result: result})
}

// RunProgress runs start on its own goroutine and shows live progress for p
// until the run completes. Pressing ctrl+c cancels the run's context; the
// pipeline then ends in the aborted phase. The run's result is always
// returned, even if the display fails.
func RunProgress(ctx context.Context, p *pipeline.Pipeline, start StartFunc, opts ...tea.ProgramOption) (*runner.Result, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := newRunProgressModel(p, cancel)
	program := tea.NewProgram(model, opts...)

	results := make(chan *runner.Result, 1)
	go func() {
		res := start(runCtx, programObserver{program: program})
		program.Send(RunDoneMsg{Result: res})
		results <- res
	}()

	_, err := program.Run()
	// The display may exit early; stop the run rather than leave it detached.
	if err != nil {
		cancel()
	}
	res := <-results

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return res, fmt.Errorf("progress display failed: %w", err)
	}
	return res, nil
}
