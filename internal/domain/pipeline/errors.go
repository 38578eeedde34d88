package pipeline

import "errors"

var (
	// ErrEmptyCommand is returned when a step has no program to run.
	ErrEmptyCommand = errors.New("step command is empty")
	// ErrDuplicateStep is returned when two steps share a name.
	ErrDuplicateStep = errors.New("duplicate step name")
)
