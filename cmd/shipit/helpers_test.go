package main

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/felixgeelhaar/shipit/internal/app"
	"github.com/felixgeelhaar/shipit/internal/ports"
	"github.com/felixgeelhaar/shipit/internal/testutil"
	"github.com/felixgeelhaar/shipit/internal/testutil/mocks"
)

// resetFlags restores every flag to its default between command runs.
func resetFlags() {
	cfgFile = "shipit.yaml"
	verbose = false
	logFormat = "text"
	yesFlag = false

	runVersion, runSet, runTUI, runJSON, runLogDir, runNoLogs = "", nil, false, false, ".shipit/logs", false
	planVersion, planSet, planJSON = "", nil, false
	validateVersion, validateSet, validateJSON = "", nil, false
	initForce, initProject, initVersion, initCondaRoot = false, "", "0.1.0", "/opt/conda"
	mcpHTTP = ""

	var clear func(*cobra.Command)
	clear = func(c *cobra.Command) {
		c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		for _, sub := range c.Commands() {
			clear(sub)
		}
	}
	clear(rootCmd)
}

// useApp makes commands build their app around cmds.
func useApp(t *testing.T, cmds ports.CommandRunner) {
	t.Helper()
	original := newApp
	newApp = func(out io.Writer) *app.Shipit {
		return app.New(out).
			WithCommandRunner(cmds).
			WithBaseEnv([]string{"HOME=/home/test"}).
			WithRunIDGenerator(func() string { return "run-cli" })
	}
	t.Cleanup(func() { newApp = original })
}

// executeCommand runs the root command with args and returns stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func releaseManifest(t *testing.T) string {
	t.Helper()
	dir := testutil.TempProjectDir(t)
	b := testutil.NewManifestBuilder("pkg").
		WithVersion("0.1.0").
		WithVar("repository", "pypi").
		WithEnvironment("py36", testutil.TestEnvironment{Kind: "path"}).
		WithStep("release", testutil.TestStep{Name: "wheel", Env: "py36", Run: []string{"python", "setup.py", "bdist_wheel"}}).
		WithStep("release", testutil.TestStep{Name: "tag", Run: []string{"git", "tag", "v${version}"}}).
		WithStep("release", testutil.TestStep{Name: "upload", Run: []string{"twine", "upload", "-r", "${repository}"}}).
		WithStep("docs", testutil.TestStep{Run: []string{"make", "html"}})
	return testutil.WriteManifest(t, dir, b)
}

func succeedingRunner() *mocks.CommandRunner {
	cmds := mocks.NewCommandRunner()
	cmds.SetFallback(ports.CommandResult{ExitCode: 0})
	return cmds
}
