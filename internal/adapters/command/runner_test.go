package command

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/shipit/internal/ports"
	"github.com/felixgeelhaar/shipit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRealRunner(t *testing.T) {
	assert.NotNil(t, NewRealRunner())
}

func TestRealRunner_Run_Success(t *testing.T) {
	runner := NewRealRunner()

	result, err := runner.Run(context.Background(), ports.CommandRequest{Program: "echo", Args: []string{"hello"}})
	require.NoError(t, err)
	assert.True(t, result.Success())
	assert.Equal(t, "hello\n", result.Stdout)
}

func TestRealRunner_Run_Failure(t *testing.T) {
	runner := NewRealRunner()

	result, err := runner.Run(context.Background(), ports.CommandRequest{Program: "false"})
	require.NoError(t, err, "non-zero exit is reported through the result")
	assert.False(t, result.Success())
	assert.NotZero(t, result.ExitCode)
}

func TestRealRunner_Run_ExitCodePreserved(t *testing.T) {
	runner := NewRealRunner()

	result, err := runner.Run(context.Background(), ports.CommandRequest{Program: "sh", Args: []string{"-c", "exit 7"}})
	require.NoError(t, err)
	assert.Equal(t, 7, result.ExitCode)
}

func TestRealRunner_Run_KilledBySignal(t *testing.T) {
	runner := NewRealRunner()

	result, err := runner.Run(context.Background(), ports.CommandRequest{
		Program: "sh",
		Args:    []string{"-c", "echo started; kill -9 $$"},
	})
	require.NoError(t, err, "a signalled process still ran")
	assert.Equal(t, "started\n", result.Stdout)
	assert.Equal(t, 9, result.Signal)
	assert.Equal(t, 137, result.ExitCode)
}

func TestRealRunner_Run_NotFound(t *testing.T) {
	runner := NewRealRunner()

	_, err := runner.Run(context.Background(), ports.CommandRequest{Program: "nonexistent-command-12345"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrCommandNotFound)
}

func TestRealRunner_Run_NotFoundByPath(t *testing.T) {
	runner := NewRealRunner()

	missing := filepath.Join(t.TempDir(), "missing-tool")
	_, err := runner.Run(context.Background(), ports.CommandRequest{Program: missing})
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrCommandNotFound)
}

func TestRealRunner_Run_MissingDirIsNotNotFound(t *testing.T) {
	runner := NewRealRunner()

	_, err := runner.Run(context.Background(), ports.CommandRequest{
		Program: "true",
		Dir:     filepath.Join(t.TempDir(), "does-not-exist"),
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrCommandNotFound)
}

func TestRealRunner_Run_WithStderr(t *testing.T) {
	runner := NewRealRunner()

	result, err := runner.Run(context.Background(), ports.CommandRequest{Program: "sh", Args: []string{"-c", "echo error >&2; exit 1"}})
	require.NoError(t, err)
	assert.False(t, result.Success())
	assert.Equal(t, "error\n", result.Stderr)
}

func TestRealRunner_Run_WorkingDirectory(t *testing.T) {
	runner := NewRealRunner()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("x"), 0o644))

	result, err := runner.Run(context.Background(), ports.CommandRequest{Program: "ls", Dir: dir})
	require.NoError(t, err)
	assert.Contains(t, result.Stdout, "marker.txt")
}

func TestRealRunner_Run_Environment(t *testing.T) {
	runner := NewRealRunner()

	result, err := runner.Run(context.Background(), ports.CommandRequest{
		Program: "sh",
		Args:    []string{"-c", "echo $SHIPIT_TEST_VAR"},
		Env:     []string{"PATH=" + os.Getenv("PATH"), "SHIPIT_TEST_VAR=py36"},
	})
	require.NoError(t, err)
	assert.Equal(t, "py36\n", result.Stdout)
}

func TestRealRunner_Run_ContextCancellation(t *testing.T) {
	runner := NewRealRunner()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, ports.CommandRequest{Program: "sleep", Args: []string{"10"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRealRunner_Run_ResolvesFromStepPath(t *testing.T) {
	bin := t.TempDir()
	script := filepath.Join(bin, "shipit-fake-python")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho \"$0 $*\"\n"), 0o755))

	runner := NewRealRunner()
	result, err := runner.Run(context.Background(), ports.CommandRequest{
		Program: "shipit-fake-python",
		Args:    []string{"setup.py", "sdist"},
		Env:     []string{"PATH=" + bin + string(os.PathListSeparator) + os.Getenv("PATH")},
	})
	require.NoError(t, err)
	assert.Equal(t, script+" setup.py sdist\n", result.Stdout)
}

func TestRealRunner_Run_StepPathHidesParentPath(t *testing.T) {
	runner := NewRealRunner()

	result, err := runner.Run(context.Background(), ports.CommandRequest{
		Program: "sh",
		Args:    []string{"-c", "true"},
		Env:     []string{"PATH=" + t.TempDir()},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrCommandNotFound)
	assert.Equal(t, -1, result.ExitCode)
}

func TestLookPath(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "tool")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	got, err := lookPath("tool", "/nonexistent"+string(os.PathListSeparator)+dir)
	require.NoError(t, err)
	assert.Equal(t, exe, got)

	_, err = lookPath("data", dir)
	assert.Error(t, err, "non-executable files are skipped")

	_, err = lookPath("sub", dir)
	assert.Error(t, err, "directories are skipped")
}

func TestLookPath_SkipsRelativeEntries(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tool"), []byte("#!/bin/sh\n"), 0o755))
	testutil.ChangeDir(t, dir)

	sep := string(os.PathListSeparator)
	for _, path := range []string{"", ".", "." + sep, sep + "bin-that-does-not-exist", "./"} {
		_, err := lookPath("tool", path)
		assert.ErrorIs(t, err, exec.ErrNotFound, "PATH %q", path)
	}

	got, err := lookPath("tool", "."+sep+dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tool"), got)
}

func TestEnvValue(t *testing.T) {
	env := []string{"PATH=/usr/bin", "HOME=/root", "PATH=/opt/conda/bin:/usr/bin"}
	assert.Equal(t, "/opt/conda/bin:/usr/bin", envValue(env, "PATH"))
	assert.Equal(t, "/root", envValue(env, "HOME"))
	assert.Equal(t, "", envValue(env, "MISSING"))
}
