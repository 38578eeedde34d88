package runner

import (
	"errors"
	"fmt"
	"syscall"
)

// ErrorKind classifies why a step stopped the pipeline.
type ErrorKind int

const (
	// KindNone means the step succeeded.
	KindNone ErrorKind = iota
	// KindEnvironmentSwitch means the step's environment could not be activated.
	KindEnvironmentSwitch
	// KindCommandNotFound means the step's executable could not be located.
	KindCommandNotFound
	// KindCommandFailed means the executable exited non-zero or could not be
	// launched for a reason other than being missing.
	KindCommandFailed
	// KindAborted means the run was cancelled while the step was in flight.
	KindAborted
)

// String returns the kind name used in reports.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindEnvironmentSwitch:
		return "environment_switch"
	case KindCommandNotFound:
		return "command_not_found"
	case KindCommandFailed:
		return "command_failed"
	case KindAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against a *StepError of the same kind.
var (
	ErrEnvironmentSwitch = errors.New("environment switch failed")
	ErrCommandNotFound   = errors.New("command not found")
	ErrCommandFailed     = errors.New("command failed")
	ErrAborted           = errors.New("pipeline aborted")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindEnvironmentSwitch:
		return ErrEnvironmentSwitch
	case KindCommandNotFound:
		return ErrCommandNotFound
	case KindCommandFailed:
		return ErrCommandFailed
	case KindAborted:
		return ErrAborted
	default:
		return nil
	}
}

// StepError is the terminal error of a pipeline run.
type StepError struct {
	Index       int
	Step        string
	Environment string
	Kind        ErrorKind
	ExitCode    int
	Signal      int
	Stderr      string
	Err         error
}

// Error returns a one-line diagnostic naming the failed step.
func (e *StepError) Error() string {
	prefix := fmt.Sprintf("step %d (%s)", e.Index+1, e.Step)
	switch e.Kind {
	case KindEnvironmentSwitch:
		return fmt.Sprintf("%s: cannot activate environment %q: %v", prefix, e.Environment, e.Err)
	case KindCommandNotFound:
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	case KindCommandFailed:
		if e.Signal > 0 {
			return fmt.Sprintf("%s: terminated by signal %d (%s)", prefix, e.Signal, syscall.Signal(e.Signal))
		}
		if e.ExitCode > 0 {
			return fmt.Sprintf("%s: exited with status %d", prefix, e.ExitCode)
		}
		return fmt.Sprintf("%s: could not be launched: %v", prefix, e.Err)
	case KindAborted:
		return fmt.Sprintf("%s: aborted: %v", prefix, e.Err)
	default:
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *StepError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *StepError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// IsEnvironmentSwitchError reports whether err is an environment switch failure.
func IsEnvironmentSwitchError(err error) bool {
	return errors.Is(err, ErrEnvironmentSwitch)
}

// IsCommandNotFoundError reports whether err is a missing-executable failure.
func IsCommandNotFoundError(err error) bool {
	return errors.Is(err, ErrCommandNotFound)
}

// IsCommandFailedError reports whether err is a command failure.
func IsCommandFailedError(err error) bool {
	return errors.Is(err, ErrCommandFailed)
}
