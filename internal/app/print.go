package app

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/felixgeelhaar/shipit/internal/domain/environment"
)

var titleCaser = cases.Title(language.English)

// PrintPlan outputs a human-readable plan.
func (s *Shipit) PrintPlan(plan *Plan) {
	st := s.styles

	header := "Pipeline " + plan.Pipeline
	if plan.Project != "" {
		header = plan.Project + " " + plan.Version + ": " + header
	}
	s.printf("%s\n\n", st.Title.Render(strings.TrimSpace(header)))

	if len(plan.Steps) == 0 {
		s.printf("%s\n", st.Muted.Render("No steps. Running this pipeline succeeds without doing anything."))
		return
	}

	for _, step := range plan.Steps {
		s.printf("  %d. %s", step.Index, step.Name)
		if step.Environment != "" {
			s.printf(" %s", st.Env.Render("["+step.Environment+"]"))
		}
		s.printf("\n     %s\n", st.Command.Render(strings.Join(step.Argv, " ")))
		if step.Dir != "" {
			s.printf("     %s\n", st.Muted.Render("in "+step.Dir))
		}
	}

	s.printf("\n%s\n", st.Muted.Render("Steps run in order; the first failure stops the pipeline."))
}

// PrintResult outputs the run outcome, one line per attempted step.
func (s *Shipit) PrintResult(report *RunReport) {
	st := s.styles
	res := report.Result

	s.printf("\n%s\n\n", st.Title.Render("Pipeline "+res.Pipeline))

	for _, er := range res.Results {
		mark := st.Success.Render("✓")
		if !er.Success() {
			mark = st.Error.Render("✗")
		}
		s.printf("  %s %d. %s", mark, er.Index+1, er.Step)
		if er.Environment != "" {
			s.printf(" %s", st.Env.Render("["+er.Environment+"]"))
		}
		s.printf(" %s\n", st.Muted.Render("("+er.Duration.Round(time.Millisecond).String()+")"))
		if er.Err != nil {
			s.printf("      %s\n", st.Error.Render(er.Err.Error()))
			if tail := lastLines(er.Stderr, 5); tail != "" {
				s.printf("%s\n", st.Muted.Render(indent(tail, "      | ")))
			}
		}
	}
	for i := res.Attempted(); i < res.Total; i++ {
		s.printf("  %s %d. %s\n", st.Muted.Render("-"), i+1, st.Muted.Render("skipped"))
	}

	status := titleCaser.String(string(res.Phase))
	summary := status + " in " + res.Duration.Round(time.Millisecond).String()
	if res.Success {
		s.printf("\n%s\n", st.Success.Render(summary))
	} else {
		s.printf("\n%s\n", st.Error.Render(summary))
	}
	if report.LogDir != "" && len(report.LogFiles) > 0 {
		s.printf("%s\n", st.Muted.Render("Step logs: "+report.LogDir))
	}
}

// PrintValidation outputs validation results.
func (s *Shipit) PrintValidation(v *ValidationResult) {
	st := s.styles

	if v.Valid {
		s.printf("%s %s is valid\n", st.Success.Render("✓"), v.Path)
		s.printf("  pipelines:    %s\n", joinOrNone(v.Pipelines))
		s.printf("  environments: %s\n", joinOrNone(v.Environments))
		return
	}

	s.printf("%s %s has %d problem(s):\n", st.Error.Render("✗"), v.Path, len(v.Errors))
	for _, e := range v.Errors {
		s.printf("  - %s\n", e.Error())
		if e.Suggestion != "" {
			s.printf("    %s\n", st.Muted.Render(e.Suggestion))
		}
	}
}

// PrintEnvironments outputs the environment definitions.
func (s *Shipit) PrintEnvironments(defs []environment.Definition) {
	st := s.styles

	if len(defs) == 0 {
		s.printf("%s\n", st.Muted.Render("No environments defined."))
		return
	}
	for _, d := range defs {
		s.printf("  %s %s", st.Env.Render(d.Name), st.Muted.Render(titleCaser.String(string(d.Kind))))
		switch {
		case d.Prefix != "":
			s.printf("  %s", d.Prefix)
		case len(d.Path) > 0:
			s.printf("  %s", strings.Join(d.Path, ", "))
		}
		s.printf("\n")
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}
