// Package mcp provides MCP (Model Context Protocol) server implementation for shipit.
package mcp

import (
	"context"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/shipit/internal/app"
	"github.com/felixgeelhaar/shipit/internal/domain/config"
)

// PlanInput is the input for the shipit_plan tool.
type PlanInput struct {
	ConfigPath string            `json:"config_path,omitempty" jsonschema:"description=Path to shipit.yaml (default: shipit.yaml)"`
	Pipeline   string            `json:"pipeline,omitempty" jsonschema:"description=Pipeline to plan (default: the manifest's default pipeline)"`
	Version    string            `json:"version,omitempty" jsonschema:"description=Release version overriding the manifest version"`
	Vars       map[string]string `json:"vars,omitempty" jsonschema:"description=Variables overriding manifest vars"`
}

// PlanOutput is the output for the shipit_plan tool.
type PlanOutput struct {
	Project      string     `json:"project,omitempty"`
	Version      string     `json:"version,omitempty"`
	Pipeline     string     `json:"pipeline"`
	Environments []string   `json:"environments,omitempty"`
	Steps        []PlanStep `json:"steps"`
}

// PlanStep represents a single step in the plan.
type PlanStep struct {
	Index       int      `json:"index"`
	Name        string   `json:"name"`
	Environment string   `json:"env,omitempty"`
	Dir         string   `json:"dir,omitempty"`
	Argv        []string `json:"argv"`
}

// ValidateInput is the input for the shipit_validate tool.
type ValidateInput struct {
	ConfigPath string            `json:"config_path,omitempty" jsonschema:"description=Path to shipit.yaml (default: shipit.yaml)"`
	Version    string            `json:"version,omitempty" jsonschema:"description=Release version overriding the manifest version"`
	Vars       map[string]string `json:"vars,omitempty" jsonschema:"description=Variables overriding manifest vars"`
}

// ValidateOutput is the output for the shipit_validate tool.
type ValidateOutput struct {
	Valid        bool     `json:"valid"`
	Errors       []string `json:"errors,omitempty"`
	Pipelines    []string `json:"pipelines,omitempty"`
	Environments []string `json:"environments,omitempty"`
}

// RunInput is the input for the shipit_run tool.
type RunInput struct {
	ConfigPath string            `json:"config_path,omitempty" jsonschema:"description=Path to shipit.yaml (default: shipit.yaml)"`
	Pipeline   string            `json:"pipeline,omitempty" jsonschema:"description=Pipeline to run (default: the manifest's default pipeline)"`
	LogDir     string            `json:"log_dir,omitempty" jsonschema:"description=Directory receiving per-step output logs"`
	Confirm    bool              `json:"confirm" jsonschema:"required,description=Must be true to execute the pipeline (safety confirmation)"`
	Version    string            `json:"version,omitempty" jsonschema:"description=Release version overriding the manifest version"`
	Vars       map[string]string `json:"vars,omitempty" jsonschema:"description=Variables overriding manifest vars"`
}

// RunOutput is the output for the shipit_run tool.
type RunOutput struct {
	Executed  bool        `json:"executed"`
	Message   string      `json:"message,omitempty"`
	RunID     string      `json:"run_id,omitempty"`
	Pipeline  string      `json:"pipeline,omitempty"`
	Success   bool        `json:"success"`
	Phase     string      `json:"phase,omitempty"`
	ExitCode  int         `json:"exit_code"`
	Attempted int         `json:"attempted"`
	Skipped   int         `json:"skipped"`
	Error     string      `json:"error,omitempty"`
	Duration  string      `json:"duration,omitempty"`
	Results   []RunResult `json:"results,omitempty"`
	LogDir    string      `json:"log_dir,omitempty"`
}

// RunResult represents the outcome of one attempted step.
type RunResult struct {
	Index    int    `json:"index"`
	Step     string `json:"step"`
	Status   string `json:"status"`
	ExitCode int    `json:"exit_code"`
	Error    string `json:"error,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
}

// EnvsInput is the input for the shipit_envs tool.
type EnvsInput struct {
	ConfigPath string `json:"config_path,omitempty" jsonschema:"description=Path to shipit.yaml (default: shipit.yaml)"`
}

// EnvsOutput is the output for the shipit_envs tool.
type EnvsOutput struct {
	Environments []EnvInfo `json:"environments"`
}

// EnvInfo describes one registered environment.
type EnvInfo struct {
	Name   string   `json:"name"`
	Kind   string   `json:"kind"`
	Prefix string   `json:"prefix,omitempty"`
	Path   []string `json:"path,omitempty"`
	Vars   []string `json:"vars,omitempty"`
}

// VersionInfo contains version metadata for the MCP server.
type VersionInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

// maxStderr bounds the stderr returned per failed step.
const maxStderr = 4096

// RegisterAll registers all shipit tools with the MCP server.
func RegisterAll(srv *mcp.Server, shipit *app.Shipit, defaultConfig string) {
	registerPlanTool(srv, shipit, defaultConfig)
	registerValidateTool(srv, shipit, defaultConfig)
	registerRunTool(srv, shipit, defaultConfig)
	registerEnvsTool(srv, shipit, defaultConfig)
}

func overridesOf(version string, vars map[string]string) config.Overrides {
	return config.Overrides{Version: version, Vars: vars}
}

func configOrDefault(path, defaultConfig string) string {
	if path == "" {
		return defaultConfig
	}
	return path
}

func registerPlanTool(srv *mcp.Server, shipit *app.Shipit, defaultConfig string) {
	srv.Tool("shipit_plan").
		Description("Show the resolved steps of a release pipeline without running anything.").
		ReadOnly().
		Handler(func(ctx context.Context, in PlanInput) (*PlanOutput, error) {
			if err := ValidatePlanInput(&in); err != nil {
				return nil, err
			}

			plan, err := shipit.Plan(ctx, configOrDefault(in.ConfigPath, defaultConfig), app.Options{
				Pipeline:  in.Pipeline,
				Overrides: overridesOf(in.Version, in.Vars),
			})
			if err != nil {
				return nil, err
			}

			output := &PlanOutput{
				Project:      plan.Project,
				Version:      plan.Version,
				Pipeline:     plan.Pipeline,
				Environments: plan.Environments,
				Steps:        make([]PlanStep, 0, len(plan.Steps)),
			}
			for _, s := range plan.Steps {
				output.Steps = append(output.Steps, PlanStep{
					Index:       s.Index,
					Name:        s.Name,
					Environment: s.Environment,
					Dir:         s.Dir,
					Argv:        s.Argv,
				})
			}
			return output, nil
		})
}

func registerValidateTool(srv *mcp.Server, shipit *app.Shipit, defaultConfig string) {
	srv.Tool("shipit_validate").
		Description("Validate the shipit manifest: pipelines, environments and variables.").
		ReadOnly().
		Handler(func(ctx context.Context, in ValidateInput) (*ValidateOutput, error) {
			if err := ValidateValidateInput(&in); err != nil {
				return nil, err
			}

			result, err := shipit.Validate(ctx, configOrDefault(in.ConfigPath, defaultConfig), overridesOf(in.Version, in.Vars))
			if err != nil {
				// Unreadable manifests are reported as invalid rather than as tool failures.
				return &ValidateOutput{Valid: false, Errors: []string{err.Error()}}, nil //nolint:nilerr
			}

			return &ValidateOutput{
				Valid:        result.Valid,
				Errors:       result.Messages(),
				Pipelines:    result.Pipelines,
				Environments: result.Environments,
			}, nil
		})
}

func registerRunTool(srv *mcp.Server, shipit *app.Shipit, defaultConfig string) {
	srv.Tool("shipit_run").
		Description("Run a release pipeline. Stops at the first failing step. REQUIRES confirm=true.").
		Destructive().
		Handler(func(ctx context.Context, in RunInput) (*RunOutput, error) {
			if !in.Confirm {
				return &RunOutput{
					Executed: false,
					Message:  "confirm must be true to run the pipeline; use shipit_plan to preview it",
				}, nil
			}
			if err := ValidateRunInput(&in); err != nil {
				return nil, err
			}

			report, err := shipit.Run(ctx, configOrDefault(in.ConfigPath, defaultConfig), app.RunOptions{
				Options: app.Options{
					Pipeline:  in.Pipeline,
					Overrides: overridesOf(in.Version, in.Vars),
				},
				LogDir: in.LogDir,
			})
			if err != nil {
				return nil, err
			}

			res := report.Result
			output := &RunOutput{
				Executed:  true,
				RunID:     report.RunID,
				Pipeline:  res.Pipeline,
				Success:   res.Success,
				Phase:     string(res.Phase),
				ExitCode:  report.ExitCode(),
				Attempted: res.Attempted(),
				Skipped:   res.Skipped(),
				Duration:  res.Duration.Round(time.Millisecond).String(),
				Results:   make([]RunResult, 0, len(res.Results)),
				LogDir:    report.LogDir,
			}
			if res.Failure != nil {
				output.Error = res.Failure.Error()
			}
			for _, er := range res.Results {
				r := RunResult{
					Index:    er.Index + 1,
					Step:     er.Step,
					Status:   "ok",
					ExitCode: er.ExitCode,
				}
				if er.Err != nil {
					r.Status = er.Kind.String()
					r.Error = er.Err.Error()
					r.Stderr = tail(er.Stderr, maxStderr)
				}
				output.Results = append(output.Results, r)
			}
			return output, nil
		})
}

func registerEnvsTool(srv *mcp.Server, shipit *app.Shipit, defaultConfig string) {
	srv.Tool("shipit_envs").
		Description("List the environments steps can run in.").
		ReadOnly().
		Handler(func(_ context.Context, in EnvsInput) (*EnvsOutput, error) {
			if err := ValidateEnvsInput(&in); err != nil {
				return nil, err
			}

			defs, err := shipit.Environments(configOrDefault(in.ConfigPath, defaultConfig))
			if err != nil {
				return nil, err
			}

			output := &EnvsOutput{Environments: make([]EnvInfo, 0, len(defs))}
			for _, d := range defs {
				info := EnvInfo{
					Name:   d.Name,
					Kind:   string(d.Kind),
					Prefix: d.Prefix,
					Path:   d.Path,
				}
				// Only names; values may hold credentials.
				for k := range d.Vars {
					info.Vars = append(info.Vars, k)
				}
				sort.Strings(info.Vars)
				output.Environments = append(output.Environments, info)
			}
			return output, nil
		})
}

// tail returns at most the last n bytes of s, starting on a rune boundary.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	start := len(s) - n
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}
