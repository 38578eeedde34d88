package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/shipit/internal/app"
)

var planCmd = &cobra.Command{
	Use:   "plan [pipeline]",
	Short: "Show the steps a pipeline would run",
	Long: `Plan loads and validates the manifest and prints the resolved steps of
a pipeline without running anything.

Each step is shown with its environment, working directory and the
command after variable substitution.`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completePipelines,
	RunE:              runPlan,
}

var (
	planVersion string
	planSet     []string
	planJSON    bool
)

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringVar(&planVersion, "version", "", "release version (overrides the manifest)")
	planCmd.Flags().StringArrayVar(&planSet, "set", nil, "set a variable (name=value, repeatable)")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "print the plan as JSON")
}

func runPlan(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	overrides, err := parseOverrides(planVersion, planSet)
	if err != nil {
		return err
	}

	shipit := newApp(out)
	plan, err := shipit.Plan(cmd.Context(), cfgFile, app.Options{
		Pipeline:  pipelineArg(args),
		Overrides: overrides,
	})
	if err != nil {
		return configError(err)
	}

	if planJSON {
		data, err := plan.JSON()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, string(data))
		return nil
	}

	shipit.PrintPlan(plan)
	return nil
}
