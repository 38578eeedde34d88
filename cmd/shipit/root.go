package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/shipit/internal/adapters/logging"
	"github.com/felixgeelhaar/shipit/internal/app"
	"github.com/felixgeelhaar/shipit/internal/domain/config"
	"github.com/felixgeelhaar/shipit/internal/ports"
)

var (
	// Global flags
	cfgFile   string
	verbose   bool
	logFormat string
	yesFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "shipit",
	Short: "Run release pipelines step by step",
	Long: `Shipit runs release pipelines declared in shipit.yaml.

A pipeline is an ordered list of steps. Each step runs one command,
optionally inside a named environment (conda, virtualenv or extra PATH
entries). Steps run strictly in order and the first failure stops the
pipeline:
  Load → Validate → Plan → Run`,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
}

// newApp builds the application for a command. Tests replace it to inject
// fakes.
var newApp = func(out io.Writer) *app.Shipit {
	return app.New(out)
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "shipit.yaml", "manifest file (shipit.yaml or shipit.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "auto-confirm all prompts")

	registerFlagCompletions()

	rootCmd.AddCommand(versionCmd)
}

// exitError carries the process exit code for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// exitCodeOf returns the process exit code for err.
func exitCodeOf(err error) int {
	if err == nil {
		return app.ExitOK
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	return app.ExitFailure
}

// configError marks err as a manifest load or validation failure.
func configError(err error) error {
	return withExitCode(app.ExitConfigError, err)
}

// newLogger builds the logger selected by --verbose and --log-format.
func newLogger(w io.Writer) (ports.Logger, error) {
	level := ports.LevelWarn
	if verbose {
		level = ports.LevelDebug
	}

	var jsonFormat bool
	switch logFormat {
	case "", "text":
	case "json":
		jsonFormat = true
	default:
		return nil, configError(fmt.Errorf("unknown log format %q (want text or json)", logFormat))
	}

	return logging.NewConsoleLogger(
		logging.WithOutput(w),
		logging.WithLevel(level),
		logging.WithJSONFormat(jsonFormat),
		logging.WithTimestamp(jsonFormat),
	), nil
}

// parseOverrides turns --version and --set flags into manifest overrides.
func parseOverrides(version string, sets []string) (config.Overrides, error) {
	o := config.Overrides{Version: version}
	for _, s := range sets {
		key, value, ok := config.ParseAssignment(s)
		if !ok {
			return config.Overrides{}, configError(fmt.Errorf("invalid --set %q: expected name=value", s))
		}
		if o.Vars == nil {
			o.Vars = make(map[string]string)
		}
		o.Vars[key] = value
	}
	return o, nil
}

func pipelineArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// formatError returns a user-friendly error message.
// With verbose=false: shows only the user message and suggestion.
// With verbose=true: also shows the underlying technical error.
func formatError(err error) string {
	var list *config.ErrorList
	if errors.As(err, &list) {
		return list.Format()
	}

	var userErr *config.UserError
	if errors.As(err, &userErr) {
		msg := userErr.Message
		if userErr.Context != "" {
			msg += fmt.Sprintf(" (at %s)", userErr.Context)
		}
		if userErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", userErr.Suggestion)
		}
		if verbose && userErr.Underlying != nil {
			msg += fmt.Sprintf("\n\nTechnical details: %v", userErr.Underlying)
		}
		return msg
	}
	return err.Error()
}

// printError prints an error message to stderr with proper formatting.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", formatError(err))
}

// registerFlagCompletions sets up custom completions for global flags.
func registerFlagCompletions() {
	_ = rootCmd.RegisterFlagCompletionFunc("config", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "yml", "toml"}, cobra.ShellCompDirectiveFilterFileExt
	})

	_ = rootCmd.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{
			"text\tkey=value lines",
			"json\tone JSON object per line",
		}, cobra.ShellCompDirectiveNoFileComp
	})
}

// completePipelines completes pipeline names from the manifest.
func completePipelines(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	project, err := app.New(io.Discard).Load(cfgFile)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return project.Manifest.PipelineNames(), cobra.ShellCompDirectiveNoFileComp
}
