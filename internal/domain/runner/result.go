package runner

import (
	"time"
)

// ExecutionResult is the outcome of one attempted step.
type ExecutionResult struct {
	Index       int
	Step        string
	Environment string
	Argv        []string
	Dir         string
	ExitCode    int
	Signal      int
	Stdout      string
	Stderr      string
	Duration    time.Duration
	Kind        ErrorKind
	Err         *StepError
}

// Success returns true if the step ran and exited 0.
func (r ExecutionResult) Success() bool {
	return r.Err == nil
}

// Result is the outcome of a pipeline run.
type Result struct {
	Pipeline string
	// Total is the number of steps in the pipeline, attempted or not.
	Total int
	// Results holds one entry per attempted step, in order.
	Results  []ExecutionResult
	Success  bool
	Failure  *StepError
	Phase    Phase
	Duration time.Duration
}

// Attempted returns the number of steps that were started.
func (r *Result) Attempted() int {
	return len(r.Results)
}

// Err returns the terminal error, or nil on success.
func (r *Result) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}

// FailedStep returns the result of the step that stopped the run, if any.
func (r *Result) FailedStep() (ExecutionResult, bool) {
	if len(r.Results) == 0 {
		return ExecutionResult{}, false
	}
	last := r.Results[len(r.Results)-1]
	if last.Success() {
		return ExecutionResult{}, false
	}
	return last, true
}

// Skipped returns the number of steps never attempted.
func (r *Result) Skipped() int {
	return r.Total - len(r.Results)
}
