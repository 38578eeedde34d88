package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePlanInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   *PlanInput
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid minimal",
			input:   &PlanInput{},
			wantErr: false,
		},
		{
			name:    "valid with config and pipeline",
			input:   &PlanInput{ConfigPath: "shipit.toml", Pipeline: "release"},
			wantErr: false,
		},
		{
			name:    "invalid config path",
			input:   &PlanInput{ConfigPath: "config; rm -rf /"},
			wantErr: true,
			errMsg:  "invalid config_path",
		},
		{
			name:    "invalid pipeline",
			input:   &PlanInput{Pipeline: "release;rm"},
			wantErr: true,
			errMsg:  "invalid pipeline",
		},
		{
			name:    "invalid var name",
			input:   &PlanInput{Vars: map[string]string{"bad name": "x"}},
			wantErr: true,
			errMsg:  "invalid vars",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePlanInput(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateValidateInput(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateValidateInput(&ValidateInput{}))
	assert.NoError(t, ValidateValidateInput(&ValidateInput{ConfigPath: "ci/shipit.yml"}))
	assert.Error(t, ValidateValidateInput(&ValidateInput{ConfigPath: "shipit.json"}))
}

func TestValidateRunInput(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRunInput(&RunInput{Confirm: true}))
	assert.NoError(t, ValidateRunInput(&RunInput{LogDir: ".shipit/logs"}))

	err := ValidateRunInput(&RunInput{LogDir: "../outside"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log_dir")

	err = ValidateRunInput(&RunInput{Vars: map[string]string{"token": "a\nb"}})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid vars")
}

func TestValidateEnvsInput(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateEnvsInput(&EnvsInput{}))
	assert.Error(t, ValidateEnvsInput(&EnvsInput{ConfigPath: "../shipit.yaml"}))
}
