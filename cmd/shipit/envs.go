package main

import (
	"github.com/spf13/cobra"
)

var envsCmd = &cobra.Command{
	Use:   "envs",
	Short: "List the environments steps can run in",
	Long: `Envs lists the environments defined inline in the manifest and in its
environments_file, with their kind and location.`,
	Args: cobra.NoArgs,
	RunE: runEnvs,
}

func init() {
	rootCmd.AddCommand(envsCmd)
}

func runEnvs(cmd *cobra.Command, _ []string) error {
	shipit := newApp(cmd.OutOrStdout())

	defs, err := shipit.Environments(cfgFile)
	if err != nil {
		return configError(err)
	}

	shipit.PrintEnvironments(defs)
	return nil
}
