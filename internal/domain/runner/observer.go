package runner

import "github.com/felixgeelhaar/shipit/internal/domain/pipeline"

// Observer receives step lifecycle callbacks on the runner's goroutine.
type Observer interface {
	StepStarted(index int, step pipeline.Step)
	StepFinished(result ExecutionResult)
}

// ObserverFuncs adapts plain functions to Observer. Nil funcs are skipped.
type ObserverFuncs struct {
	OnStart  func(index int, step pipeline.Step)
	OnFinish func(result ExecutionResult)
}

// StepStarted calls OnStart.
func (f ObserverFuncs) StepStarted(index int, step pipeline.Step) {
	if f.OnStart != nil {
		f.OnStart(index, step)
	}
}

// StepFinished calls OnFinish.
func (f ObserverFuncs) StepFinished(result ExecutionResult) {
	if f.OnFinish != nil {
		f.OnFinish(result)
	}
}

type multiObserver []Observer

func (m multiObserver) StepStarted(index int, step pipeline.Step) {
	for _, o := range m {
		o.StepStarted(index, step)
	}
}

func (m multiObserver) StepFinished(result ExecutionResult) {
	for _, o := range m {
		o.StepFinished(result)
	}
}

// Observers fans callbacks out to every non-nil observer in order.
func Observers(observers ...Observer) Observer {
	out := make(multiObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}
