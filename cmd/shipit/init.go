package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/shipit/internal/domain/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter shipit.yaml",
	Long: `Init writes a starter manifest for a Python release: a source
distribution and a wheel built in two conda environments, the docs, and
an upload of everything in dist/.

Edit the environments and steps to match your project.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var (
	initForce     bool
	initProject   string
	initVersion   string
	initCondaRoot string
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing manifest")
	initCmd.Flags().StringVar(&initProject, "project", "", "project name (default: current directory name)")
	initCmd.Flags().StringVar(&initVersion, "version", "0.1.0", "initial release version")
	initCmd.Flags().StringVar(&initCondaRoot, "conda-root", "/opt/conda", "conda installation holding the environments")
}

func runInit(cmd *cobra.Command, _ []string) error {
	project := initProject
	if project == "" {
		if wd, err := os.Getwd(); err == nil {
			project = filepath.Base(wd)
		}
	}

	if _, ok := config.CanonicalVersion(initVersion); !ok {
		return configError(fmt.Errorf("invalid --version %q: expected semver such as 1.2.3", initVersion))
	}

	err := config.WriteStarter(cfgFile, config.StarterOptions{
		Project:   project,
		Version:   initVersion,
		CondaRoot: initCondaRoot,
	}, initForce || yesFlag)
	if config.IsUserError(err, config.ErrCodeFileExists) {
		return configError(err)
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", cfgFile)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Next: edit the environments, then run 'shipit plan' to review the steps.\n")
	return nil
}
