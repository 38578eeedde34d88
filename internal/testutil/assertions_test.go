package testutil

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssertFileExists(t *testing.T) {
	t.Parallel()

	path := WriteTempFile(t, TempProjectDir(t), "test.txt", "content")

	mockT := &testing.T{}
	AssertFileExists(mockT, path)
	assert.False(t, mockT.Failed())
}

func TestAssertFileNotExists(t *testing.T) {
	t.Parallel()

	mockT := &testing.T{}
	AssertFileNotExists(mockT, filepath.Join(TempProjectDir(t), "missing"))
	assert.False(t, mockT.Failed())
}

func TestAssertFileLines(t *testing.T) {
	t.Parallel()

	path := WriteTempFile(t, TempProjectDir(t), "out.log", "one\r\ntwo\n")

	mockT := &testing.T{}
	AssertFileLines(mockT, path, "one", "two")
	assert.False(t, mockT.Failed())
}

func TestAssertErrorContains(t *testing.T) {
	t.Parallel()

	mockT := &testing.T{}
	AssertErrorContains(mockT, errors.New("step 2 (wheel): exited with status 1"), "wheel")
	assert.False(t, mockT.Failed())
}
