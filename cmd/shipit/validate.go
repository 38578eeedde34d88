package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/shipit/internal/app"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the manifest",
	Long: `Validate checks the manifest without running anything: every pipeline
step needs a command, environments must be defined, placeholders must
resolve and the version must be valid semver.

Exit codes:
  0  the manifest is valid
  1  the manifest has problems
  2  the manifest could not be read or parsed`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

var (
	validateVersion string
	validateSet     []string
	validateJSON    bool
)

// errInvalidManifest is returned when validation finds problems.
var errInvalidManifest = errors.New("manifest is invalid")

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateVersion, "version", "", "release version (overrides the manifest)")
	validateCmd.Flags().StringArrayVar(&validateSet, "set", nil, "set a variable (name=value, repeatable)")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "print the result as JSON")
}

type validationJSON struct {
	*app.ValidationResult
	Errors []string `json:"errors"`
}

func runValidate(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	overrides, err := parseOverrides(validateVersion, validateSet)
	if err != nil {
		return err
	}

	shipit := newApp(out)
	result, err := shipit.Validate(cmd.Context(), cfgFile, overrides)
	if err != nil {
		return configError(err)
	}

	if validateJSON {
		data, err := json.MarshalIndent(validationJSON{ValidationResult: result, Errors: result.Messages()}, "", "  ")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, string(data))
	} else {
		shipit.PrintValidation(result)
	}

	if !result.Valid {
		return withExitCode(app.ExitFailure, errInvalidManifest)
	}
	return nil
}
