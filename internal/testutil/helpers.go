// Package testutil provides test helpers and utilities for shipit tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TempProjectDir creates a temporary project directory that is removed when
// the test finishes.
func TempProjectDir(t *testing.T) string {
	t.Helper()

	dir, err := os.MkdirTemp("", "shipit-test-*")
	require.NoError(t, err, "failed to create temp directory")

	t.Cleanup(func() {
		if err := os.RemoveAll(dir); err != nil {
			t.Logf("warning: failed to clean up temp directory: %v", err)
		}
	})

	return dir
}

// WriteTempFile writes content to a file in the specified directory,
// creating parent directories as needed.
func WriteTempFile(t *testing.T, dir, filename, content string) string {
	t.Helper()

	path := filepath.Join(dir, filename)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	err := os.WriteFile(path, []byte(content), 0o644)
	require.NoError(t, err, "failed to write temp file: %s", filename)

	return path
}

// WriteTempDir creates a subdirectory in the temp directory.
func WriteTempDir(t *testing.T, dir, dirname string) string {
	t.Helper()

	path := filepath.Join(dir, dirname)
	err := os.MkdirAll(path, 0o755)
	require.NoError(t, err, "failed to create temp subdirectory: %s", dirname)

	return path
}

// WriteManifest writes b's YAML to shipit.yaml in dir and returns its path.
func WriteManifest(t *testing.T, dir string, b *ManifestBuilder) string {
	t.Helper()
	return WriteTempFile(t, dir, "shipit.yaml", b.YAML(t))
}

// ChangeDir changes to a directory for the duration of the test.
func ChangeDir(t *testing.T, dir string) {
	t.Helper()

	original, err := os.Getwd()
	require.NoError(t, err)

	err = os.Chdir(dir)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = os.Chdir(original)
	})
}
