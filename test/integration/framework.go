// Package integration provides test utilities for integration testing.
package integration

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixgeelhaar/shipit/internal/app"
	"github.com/felixgeelhaar/shipit/internal/domain/config"
)

// TestHarness runs the application with the real command runner inside a
// temporary project directory.
type TestHarness struct {
	T          *testing.T
	ProjectDir string
	Output     *bytes.Buffer

	shipit *app.Shipit
}

// NewHarness creates a new test harness.
func NewHarness(t *testing.T) *TestHarness {
	t.Helper()

	projectDir := filepath.Join(t.TempDir(), "project")
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		t.Fatalf("failed to create project directory: %v", err)
	}

	output := &bytes.Buffer{}
	runID := 0

	return &TestHarness{
		T:          t,
		ProjectDir: projectDir,
		Output:     output,
		shipit: app.New(output).WithRunIDGenerator(func() string {
			runID++
			return fmt.Sprintf("run-%d", runID)
		}),
	}
}

// Shipit returns the application instance.
func (h *TestHarness) Shipit() *app.Shipit {
	return h.shipit
}

// WriteManifest writes shipit.yaml into the project directory. The token
// PROJECT is replaced with the project directory path.
func (h *TestHarness) WriteManifest(manifest string) string {
	h.T.Helper()
	return h.WriteFile("shipit.yaml", strings.ReplaceAll(manifest, "PROJECT", h.ProjectDir))
}

// WriteFile creates a file in the project directory.
func (h *TestHarness) WriteFile(relativePath, content string) string {
	h.T.Helper()

	path := filepath.Join(h.ProjectDir, relativePath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		h.T.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		h.T.Fatalf("failed to write file: %v", err)
	}
	return path
}

// WriteExecutable creates an executable shell script in the project directory.
func (h *TestHarness) WriteExecutable(relativePath, script string) string {
	h.T.Helper()

	path := h.WriteFile(relativePath, "#!/bin/sh\n"+script)
	if err := os.Chmod(path, 0o755); err != nil {
		h.T.Fatalf("failed to chmod %s: %v", path, err)
	}
	return path
}

// FileExists checks if a file exists in the project directory.
func (h *TestHarness) FileExists(relativePath string) bool {
	_, err := os.Stat(filepath.Join(h.ProjectDir, relativePath))
	return err == nil
}

// ReadFile reads a file from the project directory.
func (h *TestHarness) ReadFile(relativePath string) string {
	h.T.Helper()

	content, err := os.ReadFile(filepath.Join(h.ProjectDir, relativePath))
	if err != nil {
		h.T.Fatalf("failed to read file: %v", err)
	}
	return string(content)
}

// Run runs a pipeline from the manifest in the project directory.
func (h *TestHarness) Run(pipeline string, overrides config.Overrides) (*app.RunReport, error) {
	return h.RunWith(context.Background(), app.RunOptions{
		Options: app.Options{Pipeline: pipeline, Overrides: overrides},
	})
}

// RunWith runs the manifest in the project directory with opts.
func (h *TestHarness) RunWith(ctx context.Context, opts app.RunOptions) (*app.RunReport, error) {
	return h.shipit.Run(ctx, filepath.Join(h.ProjectDir, "shipit.yaml"), opts)
}
