package app

import (
	"encoding/json"
	"time"

	"github.com/felixgeelhaar/shipit/internal/domain/config"
	"github.com/felixgeelhaar/shipit/internal/domain/pipeline"
	"github.com/felixgeelhaar/shipit/internal/domain/runner"
)

// PlannedStep is one resolved step of a Plan.
type PlannedStep struct {
	Index       int      `json:"index"`
	Name        string   `json:"name"`
	Environment string   `json:"env,omitempty"`
	Dir         string   `json:"dir,omitempty"`
	Argv        []string `json:"argv"`
	Globs       bool     `json:"globs,omitempty"`
}

// Plan is a resolved pipeline ready to run.
type Plan struct {
	Project      string        `json:"project,omitempty"`
	Version      string        `json:"version,omitempty"`
	Pipeline     string        `json:"pipeline"`
	Environments []string      `json:"environments,omitempty"`
	Steps        []PlannedStep `json:"steps"`

	pipeline *pipeline.Pipeline
}

func newPlan(m *config.Manifest, p *pipeline.Pipeline, o config.Overrides) *Plan {
	version := m.Version
	if o.Version != "" {
		version = o.Version
	}
	plan := &Plan{
		Project:      m.Project,
		Version:      version,
		Pipeline:     p.Name(),
		Environments: p.Environments(),
		Steps:        make([]PlannedStep, 0, p.Len()),
		pipeline:     p,
	}
	for i, step := range p.Steps() {
		plan.Steps = append(plan.Steps, PlannedStep{
			Index:       i + 1,
			Name:        step.Name(),
			Environment: step.Environment(),
			Dir:         step.WorkingDirectory(),
			Argv:        step.Command().Argv(),
			Globs:       step.ExpandGlobs(),
		})
	}
	return plan
}

// Runnable returns the pipeline behind the plan.
func (p *Plan) Runnable() *pipeline.Pipeline {
	return p.pipeline
}

// JSON renders the plan as indented JSON.
func (p *Plan) JSON() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// RunReport is the outcome of Shipit.Run.
type RunReport struct {
	RunID    string
	Project  string
	Version  string
	Result   *runner.Result
	LogDir   string
	LogFiles []string
}

// ExitCode returns the process exit code for the run.
func (r *RunReport) ExitCode() int {
	return ExitCode(r.Result)
}

type stepJSON struct {
	Index       int      `json:"index"`
	Name        string   `json:"name"`
	Environment string   `json:"env,omitempty"`
	Argv        []string `json:"argv"`
	ExitCode    int      `json:"exit_code"`
	DurationMS  int64    `json:"duration_ms"`
	Status      string   `json:"status"`
	Error       string   `json:"error,omitempty"`
}

type reportJSON struct {
	RunID      string     `json:"run_id"`
	Project    string     `json:"project,omitempty"`
	Version    string     `json:"version,omitempty"`
	Pipeline   string     `json:"pipeline"`
	Phase      string     `json:"phase"`
	Success    bool       `json:"success"`
	ExitCode   int        `json:"exit_code"`
	Total      int        `json:"total"`
	Attempted  int        `json:"attempted"`
	Skipped    int        `json:"skipped"`
	DurationMS int64      `json:"duration_ms"`
	Error      string     `json:"error,omitempty"`
	ErrorKind  string     `json:"error_kind,omitempty"`
	Steps      []stepJSON `json:"steps"`
	LogDir     string     `json:"log_dir,omitempty"`
}

// JSON renders the report as indented JSON.
func (r *RunReport) JSON() ([]byte, error) {
	res := r.Result
	out := reportJSON{
		RunID:      r.RunID,
		Project:    r.Project,
		Version:    r.Version,
		Pipeline:   res.Pipeline,
		Phase:      string(res.Phase),
		Success:    res.Success,
		ExitCode:   r.ExitCode(),
		Total:      res.Total,
		Attempted:  res.Attempted(),
		Skipped:    res.Skipped(),
		DurationMS: res.Duration.Milliseconds(),
		Steps:      make([]stepJSON, 0, len(res.Results)),
		LogDir:     r.LogDir,
	}
	if res.Failure != nil {
		out.Error = res.Failure.Error()
		out.ErrorKind = res.Failure.Kind.String()
	}
	for _, er := range res.Results {
		s := stepJSON{
			Index:       er.Index + 1,
			Name:        er.Step,
			Environment: er.Environment,
			Argv:        er.Argv,
			ExitCode:    er.ExitCode,
			DurationMS:  er.Duration.Round(time.Millisecond).Milliseconds(),
			Status:      "ok",
		}
		if er.Err != nil {
			s.Status = er.Kind.String()
			s.Error = er.Err.Error()
		}
		out.Steps = append(out.Steps, s)
	}
	return json.MarshalIndent(out, "", "  ")
}
