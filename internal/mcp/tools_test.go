package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"unicode/utf8"

	mcp "github.com/felixgeelhaar/mcp-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/shipit/internal/app"
	"github.com/felixgeelhaar/shipit/internal/ports"
	"github.com/felixgeelhaar/shipit/internal/testutil"
	"github.com/felixgeelhaar/shipit/internal/testutil/mocks"
)

// --- helpers ---

func newTestServer(t *testing.T, shipit *app.Shipit, configPath string) *mcp.Server {
	t.Helper()
	srv := mcp.NewServer(mcp.ServerInfo{Name: "test", Version: "1.0.0"})
	RegisterAll(srv, shipit, configPath)
	return srv
}

func executeTool(t *testing.T, srv *mcp.Server, toolName string, input interface{}) (interface{}, error) {
	t.Helper()
	tool, ok := srv.GetTool(toolName)
	require.True(t, ok, "tool %q should be registered", toolName)

	data, err := json.Marshal(input)
	require.NoError(t, err)

	return tool.Execute(context.Background(), data)
}

func setupManifest(t *testing.T) string {
	t.Helper()
	dir := testutil.TempProjectDir(t)
	b := testutil.NewManifestBuilder("pkg").
		WithVersion("0.1.0").
		WithVar("repository", "pypi").
		WithEnvironment("py36", testutil.TestEnvironment{Kind: "path", Vars: map[string]string{"TOKEN": "secret"}}).
		WithStep("release", testutil.TestStep{Name: "wheel", Env: "py36", Run: []string{"python", "setup.py", "bdist_wheel"}}).
		WithStep("release", testutil.TestStep{Name: "upload", Run: []string{"twine", "upload", "-r", "${repository}"}})
	return testutil.WriteManifest(t, dir, b)
}

func newTestApp(cmds *mocks.CommandRunner) *app.Shipit {
	return app.New(bytes.NewBuffer(nil)).
		WithCommandRunner(cmds).
		WithBaseEnv([]string{"HOME=/home/test"}).
		WithRunIDGenerator(func() string { return "run-mcp" })
}

// --- registration ---

func TestRegisterAll(t *testing.T) {
	srv := newTestServer(t, app.New(bytes.NewBuffer(nil)), "shipit.yaml")

	toolNames := make(map[string]string)
	for _, tool := range srv.Tools() {
		toolNames[tool.Name] = tool.Description
	}

	assert.Contains(t, toolNames, "shipit_plan")
	assert.Contains(t, toolNames, "shipit_validate")
	assert.Contains(t, toolNames, "shipit_run")
	assert.Contains(t, toolNames, "shipit_envs")
	assert.Contains(t, toolNames["shipit_run"], "confirm=true")
}

// --- shipit_plan ---

func TestPlanTool(t *testing.T) {
	cmds := mocks.NewCommandRunner()
	srv := newTestServer(t, newTestApp(cmds), setupManifest(t))

	result, err := executeTool(t, srv, "shipit_plan", PlanInput{
		Vars: map[string]string{"repository": "testpypi"},
	})
	require.NoError(t, err)

	output, ok := result.(*PlanOutput)
	require.True(t, ok, "result should be *PlanOutput")
	assert.Equal(t, "release", output.Pipeline)
	assert.Equal(t, []string{"py36"}, output.Environments)
	require.Len(t, output.Steps, 2)
	assert.Equal(t, []string{"twine", "upload", "-r", "testpypi"}, output.Steps[1].Argv)
	assert.Empty(t, cmds.Calls())
}

func TestPlanTool_NoConfig(t *testing.T) {
	srv := newTestServer(t, app.New(bytes.NewBuffer(nil)), filepath.Join(t.TempDir(), "shipit.yaml"))

	_, err := executeTool(t, srv, "shipit_plan", PlanInput{})
	assert.Error(t, err)
}

func TestPlanTool_InvalidInput(t *testing.T) {
	srv := newTestServer(t, app.New(bytes.NewBuffer(nil)), "shipit.yaml")

	_, err := executeTool(t, srv, "shipit_plan", PlanInput{ConfigPath: "../../etc/shipit.yaml"})
	assert.Error(t, err)

	_, err = executeTool(t, srv, "shipit_plan", PlanInput{Pipeline: "release;rm"})
	assert.Error(t, err)
}

// --- shipit_validate ---

func TestValidateTool(t *testing.T) {
	srv := newTestServer(t, newTestApp(mocks.NewCommandRunner()), setupManifest(t))

	result, err := executeTool(t, srv, "shipit_validate", ValidateInput{})
	require.NoError(t, err)

	output, ok := result.(*ValidateOutput)
	require.True(t, ok)
	assert.True(t, output.Valid)
	assert.Empty(t, output.Errors)
	assert.Equal(t, []string{"release"}, output.Pipelines)
}

func TestValidateTool_InvalidVersion(t *testing.T) {
	srv := newTestServer(t, newTestApp(mocks.NewCommandRunner()), setupManifest(t))

	result, err := executeTool(t, srv, "shipit_validate", ValidateInput{Version: "not-a-version"})
	require.NoError(t, err)

	output := result.(*ValidateOutput)
	assert.False(t, output.Valid)
	assert.NotEmpty(t, output.Errors)
}

func TestValidateTool_NoConfig(t *testing.T) {
	srv := newTestServer(t, app.New(bytes.NewBuffer(nil)), filepath.Join(t.TempDir(), "shipit.yaml"))

	result, err := executeTool(t, srv, "shipit_validate", ValidateInput{})
	require.NoError(t, err)

	output := result.(*ValidateOutput)
	assert.False(t, output.Valid)
	require.Len(t, output.Errors, 1)
}

// --- shipit_run ---

func TestRunTool_RequiresConfirm(t *testing.T) {
	cmds := mocks.NewCommandRunner()
	srv := newTestServer(t, newTestApp(cmds), setupManifest(t))

	result, err := executeTool(t, srv, "shipit_run", RunInput{Confirm: false})
	require.NoError(t, err)

	output := result.(*RunOutput)
	assert.False(t, output.Executed)
	assert.Contains(t, output.Message, "confirm")
	assert.Empty(t, cmds.Calls())
}

func TestRunTool_Success(t *testing.T) {
	cmds := mocks.NewCommandRunner()
	cmds.SetFallback(ports.CommandResult{ExitCode: 0})
	srv := newTestServer(t, newTestApp(cmds), setupManifest(t))

	result, err := executeTool(t, srv, "shipit_run", RunInput{Confirm: true})
	require.NoError(t, err)

	output := result.(*RunOutput)
	assert.True(t, output.Executed)
	assert.True(t, output.Success)
	assert.Equal(t, "run-mcp", output.RunID)
	assert.Equal(t, "succeeded", output.Phase)
	assert.Equal(t, 0, output.ExitCode)
	assert.Equal(t, 2, output.Attempted)
	require.Len(t, output.Results, 2)
	assert.Equal(t, "ok", output.Results[0].Status)
}

func TestRunTool_StopsAtFirstFailure(t *testing.T) {
	cmds := mocks.NewCommandRunner()
	cmds.SetFallback(ports.CommandResult{ExitCode: 0})
	cmds.AddResult("python", []string{"setup.py", "bdist_wheel"}, ports.CommandResult{ExitCode: 1, Stderr: "error: invalid command"})
	srv := newTestServer(t, newTestApp(cmds), setupManifest(t))

	result, err := executeTool(t, srv, "shipit_run", RunInput{Confirm: true})
	require.NoError(t, err)

	output := result.(*RunOutput)
	assert.True(t, output.Executed)
	assert.False(t, output.Success)
	assert.Equal(t, 1, output.ExitCode)
	assert.Equal(t, 1, output.Attempted)
	assert.Equal(t, 1, output.Skipped)
	assert.Contains(t, output.Error, "wheel")
	require.Len(t, output.Results, 1)
	assert.Equal(t, "command_failed", output.Results[0].Status)
	assert.Equal(t, "error: invalid command", output.Results[0].Stderr)
	assert.Equal(t, 0, cmds.CallCount("twine", "upload", "-r", "pypi"))
}

func TestRunTool_InvalidVars(t *testing.T) {
	cmds := mocks.NewCommandRunner()
	srv := newTestServer(t, newTestApp(cmds), setupManifest(t))

	_, err := executeTool(t, srv, "shipit_run", RunInput{
		Confirm: true,
		Vars:    map[string]string{"repository": "x\ncurl evil"},
	})
	assert.Error(t, err)
	assert.Empty(t, cmds.Calls())
}

// --- shipit_envs ---

func TestEnvsTool(t *testing.T) {
	srv := newTestServer(t, newTestApp(mocks.NewCommandRunner()), setupManifest(t))

	result, err := executeTool(t, srv, "shipit_envs", EnvsInput{})
	require.NoError(t, err)

	output := result.(*EnvsOutput)
	require.Len(t, output.Environments, 1)
	env := output.Environments[0]
	assert.Equal(t, "py36", env.Name)
	assert.Equal(t, "path", env.Kind)
	assert.Equal(t, []string{"TOKEN"}, env.Vars)
}

func TestTail_RuneBoundary(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", tail("abc", 5))
	assert.Equal(t, "cde", tail("abcde", 3))

	// The cut lands inside the two-byte "é".
	got := tail("aébc", 3)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "bc", got)

	got = tail("ünïcödé", 4)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "dé", got)
}
