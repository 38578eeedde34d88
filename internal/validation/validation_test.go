package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "relative", input: "shipit.yaml", wantErr: nil},
		{name: "nested", input: "release/shipit.yaml", wantErr: nil},
		{name: "absolute", input: "/srv/project/shipit.toml", wantErr: nil},
		{name: "empty", input: "", wantErr: ErrEmptyInput},
		{name: "null byte", input: "shipit\x00.yaml", wantErr: ErrInvalidPath},
		{name: "parent", input: "../shipit.yaml", wantErr: ErrPathTraversal},
		{name: "nested parent", input: "a/../../shipit.yaml", wantErr: ErrPathTraversal},
		{name: "encoded", input: "%2E%2E/shipit.yaml", wantErr: ErrPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "default", input: "", wantErr: nil},
		{name: "yaml", input: "shipit.yaml", wantErr: nil},
		{name: "yml", input: "ci/shipit.yml", wantErr: nil},
		{name: "toml", input: "shipit.TOML", wantErr: nil},
		{name: "json", input: "shipit.json", wantErr: ErrInvalidConfig},
		{name: "no extension", input: "shipit", wantErr: ErrInvalidConfig},
		{name: "traversal", input: "../../etc/shipit.yaml", wantErr: ErrPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfigPath(tt.input)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName(""))
	assert.NoError(t, ValidateName("release"))
	assert.NoError(t, ValidateName("py3.6_conda-env"))

	assert.ErrorIs(t, ValidateName("-release"), ErrInvalidName)
	assert.ErrorIs(t, ValidateName("release;rm -rf"), ErrInvalidName)
	assert.ErrorIs(t, ValidateName("my pipeline"), ErrInvalidName)
	assert.ErrorIs(t, ValidateName(strings.Repeat("a", 200)), ErrInvalidName)
}

func TestValidateVariable(t *testing.T) {
	assert.NoError(t, ValidateVariable("repository", "https://upload.pypi.org/legacy/"))
	assert.NoError(t, ValidateVariable("_private", "value with spaces"))

	assert.ErrorIs(t, ValidateVariable("", "x"), ErrEmptyInput)
	assert.ErrorIs(t, ValidateVariable("1st", "x"), ErrInvalidName)
	assert.ErrorIs(t, ValidateVariable("a b", "x"), ErrInvalidName)
	assert.ErrorIs(t, ValidateVariable("token", "abc\nexport X=1"), ErrNewlineInjection)
}
