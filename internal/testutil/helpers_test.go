package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTempProjectDir(t *testing.T) {
	t.Parallel()

	dir := TempProjectDir(t)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWriteTempFile_CreatesParents(t *testing.T) {
	t.Parallel()

	dir := TempProjectDir(t)
	path := WriteTempFile(t, dir, "doc/conf.py", "project = 'x'")

	assert.Equal(t, filepath.Join(dir, "doc", "conf.py"), path)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "project = 'x'", string(content))
}

func TestWriteManifest(t *testing.T) {
	t.Parallel()

	dir := TempProjectDir(t)
	path := WriteManifest(t, dir, NewManifestBuilder("demo").
		WithStep("release", TestStep{Name: "build", Run: []string{"true"}}))

	AssertFileContains(t, path, "project: demo")
	AssertFileContains(t, path, "release:")
}
