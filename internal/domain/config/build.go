package config

import (
	"fmt"
	"sort"

	"github.com/felixgeelhaar/shipit/internal/domain/pipeline"
)

// Pipeline resolves the named pipeline (see ResolvePipelineName) into an
// immutable pipeline.Pipeline with every placeholder substituted.
func (m *Manifest) Pipeline(name string, o Overrides) (*pipeline.Pipeline, error) {
	name = m.ResolvePipelineName(name)
	specs, err := m.Steps(name)
	if err != nil {
		return nil, err
	}

	vars := m.Variables(name, o)
	errs := NewErrorList()
	steps := make([]pipeline.Step, 0, len(specs))

	for i, spec := range specs {
		field := stepField(name, i, spec)
		argv := make([]string, 0, len(spec.Run))
		for _, arg := range spec.Run {
			expanded, missing := expand(arg, vars)
			for _, v := range missing {
				errs.Add(NewUnknownVariableError(field, v))
			}
			argv = append(argv, expanded)
		}
		dir, missing := expand(spec.Dir, vars)
		for _, v := range missing {
			errs.Add(NewUnknownVariableError(field, v))
		}

		cmd, err := pipeline.CommandFromArgv(argv)
		if err != nil {
			errs.AddValidation(field+".run", err.Error(), "Give the step a command, e.g. run: [make, html].")
			continue
		}
		steps = append(steps, pipeline.MustNewStep(cmd,
			pipeline.Named(spec.Name),
			pipeline.InEnvironment(spec.Env),
			pipeline.InDir(dir),
			pipeline.WithGlobs(spec.Globs),
		))
	}
	if err := errs.AsError(); err != nil {
		return nil, err
	}

	p, err := pipeline.New(name, steps...)
	if err != nil {
		return nil, NewValidationFailedError("pipelines."+name, err.Error())
	}
	return p, nil
}

func stepField(pipelineName string, index int, spec StepSpec) string {
	if spec.Name != "" {
		return fmt.Sprintf("pipelines.%s[%d] (%s)", pipelineName, index, spec.Name)
	}
	return fmt.Sprintf("pipelines.%s[%d]", pipelineName, index)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
