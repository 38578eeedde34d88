package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/shipit/internal/app"
	"github.com/felixgeelhaar/shipit/internal/domain/runner"
	"github.com/felixgeelhaar/shipit/internal/tui"
)

var runCmd = &cobra.Command{
	Use:   "run [pipeline]",
	Short: "Run a release pipeline",
	Long: `Run executes the steps of a pipeline in order.

Each step runs inside its environment, if it names one. The first step
that cannot switch environment, cannot be found or exits non-zero stops
the pipeline; later steps are skipped.

Exit codes:
  0    all steps succeeded
  N    the failing step's exit status (1-255)
  2    the manifest could not be loaded or is invalid
  3    an environment could not be activated
  127  a step's command was not found
  130  the run was interrupted

Examples:
  shipit run                         # run the default pipeline
  shipit run release --version 1.2.0 # override the manifest version
  shipit run --set repository=testpypi`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completePipelines,
	RunE:              runRun,
}

var (
	runVersion string
	runSet     []string
	runTUI     bool
	runJSON    bool
	runLogDir  string
	runNoLogs  bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runVersion, "version", "", "release version (overrides the manifest)")
	runCmd.Flags().StringArrayVar(&runSet, "set", nil, "set a variable (name=value, repeatable)")
	runCmd.Flags().BoolVar(&runTUI, "tui", false, "show interactive progress")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print the run report as JSON")
	runCmd.Flags().StringVar(&runLogDir, "log-dir", ".shipit/logs", "directory for per-step output logs")
	runCmd.Flags().BoolVar(&runNoLogs, "no-logs", false, "do not write per-step output logs")
	runCmd.MarkFlagsMutuallyExclusive("tui", "json")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	overrides, err := parseOverrides(runVersion, runSet)
	if err != nil {
		return err
	}

	opts := app.RunOptions{
		Options: app.Options{Pipeline: pipelineArg(args), Overrides: overrides},
	}
	if !runNoLogs {
		opts.LogDir = runLogDir
	}

	shipit := newApp(out)
	if !runTUI {
		logger, err := newLogger(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		shipit.WithLogger(logger)
	}

	var report *app.RunReport
	if runTUI {
		report, err = runWithProgress(ctx, cmd.ErrOrStderr(), shipit, opts)
	} else {
		report, err = shipit.Run(ctx, cfgFile, opts)
	}
	if err != nil {
		return configError(err)
	}

	switch {
	case runJSON:
		data, err := report.JSON()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, string(data))
	case !runTUI:
		shipit.PrintResult(report)
	}

	if failure := report.Result.Failure; failure != nil {
		return withExitCode(report.ExitCode(), failure)
	}
	return nil
}

// runWithProgress runs the pipeline behind the bubbletea progress view.
func runWithProgress(ctx context.Context, errOut io.Writer, shipit *app.Shipit, opts app.RunOptions) (*app.RunReport, error) {
	p, err := shipit.Prepare(cfgFile, opts.Options)
	if err != nil {
		return nil, err
	}

	var (
		report *app.RunReport
		runErr error
	)
	_, err = tui.RunProgress(ctx, p, func(ctx context.Context, observer runner.Observer) *runner.Result {
		opts.Observer = observer
		report, runErr = shipit.Run(ctx, cfgFile, opts)
		if runErr != nil {
			return &runner.Result{Pipeline: p.Name(), Total: p.Len(), Phase: runner.PhaseFailed}
		}
		return report.Result
	})
	if runErr != nil {
		return nil, runErr
	}
	if err != nil {
		// The pipeline still ran; only the display is lost.
		_, _ = fmt.Fprintf(errOut, "warning: %v\n", err)
	}
	return report, nil
}
