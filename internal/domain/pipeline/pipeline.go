package pipeline

import (
	"fmt"
)

// Pipeline is an ordered, immutable sequence of Steps. Insertion order is
// execution order.
type Pipeline struct {
	name  string
	steps []Step
}

// New builds a Pipeline from steps. Steps are copied; unnamed steps are named
// "step-<n>" (1-based). Names must be unique.
func New(name string, steps ...Step) (*Pipeline, error) {
	p := &Pipeline{
		name:  name,
		steps: make([]Step, 0, len(steps)),
	}

	seen := make(map[string]int, len(steps))
	for i, s := range steps {
		if s.command.IsZero() {
			return nil, fmt.Errorf("step %d: %w", i+1, ErrEmptyCommand)
		}
		s = s.clone()
		if s.name == "" {
			s.name = fmt.Sprintf("step-%d", i+1)
		}
		if prev, ok := seen[s.name]; ok {
			return nil, fmt.Errorf("%w: %q (steps %d and %d)", ErrDuplicateStep, s.name, prev+1, i+1)
		}
		seen[s.name] = i
		p.steps = append(p.steps, s)
	}

	return p, nil
}

// MustNew is like New but panics on error.
func MustNew(name string, steps ...Step) *Pipeline {
	p, err := New(name, steps...)
	if err != nil {
		panic(err)
	}
	return p
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string {
	return p.name
}

// Len returns the number of steps.
func (p *Pipeline) Len() int {
	return len(p.steps)
}

// IsEmpty reports whether the pipeline has no steps.
func (p *Pipeline) IsEmpty() bool {
	return len(p.steps) == 0
}

// Step returns the step at index i (0-based).
func (p *Pipeline) Step(i int) Step {
	return p.steps[i].clone()
}

// Steps returns a copy of the steps in execution order.
func (p *Pipeline) Steps() []Step {
	out := make([]Step, len(p.steps))
	for i, s := range p.steps {
		out[i] = s.clone()
	}
	return out
}

// Environments returns the distinct environment names in first-use order.
func (p *Pipeline) Environments() []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, s := range p.steps {
		if s.environment == "" || seen[s.environment] {
			continue
		}
		seen[s.environment] = true
		names = append(names, s.environment)
	}
	return names
}
