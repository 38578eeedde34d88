//go:build e2e

package framework

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func output(r *Result) string {
	return fmt.Sprintf("exit %d\nstdout:\n%s\nstderr:\n%s", r.ExitCode, r.Stdout, r.Stderr)
}

// AssertSuccess checks that shipit exited 0.
func AssertSuccess(t *testing.T, r *Result) {
	t.Helper()
	assert.NoError(t, r.Err, output(r))
	assert.Zero(t, r.ExitCode, output(r))
}

// AssertFailed checks that shipit exited non-zero.
func AssertFailed(t *testing.T, r *Result) {
	t.Helper()
	assert.NotZero(t, r.ExitCode, output(r))
}

// AssertExitCode checks shipit's exit status.
func AssertExitCode(t *testing.T, r *Result, expected int) {
	t.Helper()
	assert.Equal(t, expected, r.ExitCode, output(r))
}

// AssertStepFailed checks the exit status and that the one-line diagnostic
// on stderr names the step by position and name.
func AssertStepFailed(t *testing.T, r *Result, position int, step string, code int) {
	t.Helper()
	AssertExitCode(t, r, code)
	assert.Contains(t, r.Stderr, fmt.Sprintf("step %d (%s)", position, step))
}

func AssertStdoutContains(t *testing.T, r *Result, expected string) {
	t.Helper()
	assert.Contains(t, r.Stdout, expected)
}

func AssertStdoutNotContains(t *testing.T, r *Result, unexpected string) {
	t.Helper()
	assert.NotContains(t, r.Stdout, unexpected)
}

func AssertStderrContains(t *testing.T, r *Result, expected string) {
	t.Helper()
	assert.Contains(t, r.Stderr, expected)
}

// AssertFileExists checks a path relative to the project directory.
func AssertFileExists(t *testing.T, env *Environment, path string) {
	t.Helper()
	assert.True(t, env.FileExists(path), "expected %s to exist", path)
}

// AssertFileNotExists checks that a step did not produce path.
func AssertFileNotExists(t *testing.T, env *Environment, path string) {
	t.Helper()
	assert.False(t, env.FileExists(path), "expected %s not to exist", path)
}

func AssertFileContains(t *testing.T, env *Environment, path, expected string) {
	t.Helper()
	require.True(t, env.FileExists(path), "expected %s to exist", path)
	assert.Contains(t, env.ReadFile(path), expected)
}

func AssertFileEquals(t *testing.T, env *Environment, path, expected string) {
	t.Helper()
	require.True(t, env.FileExists(path), "expected %s to exist", path)
	assert.Equal(t, expected, env.ReadFile(path))
}
