package app_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/shipit/internal/app"
	"github.com/felixgeelhaar/shipit/internal/domain/runner"
)

func failedResult(kind runner.ErrorKind, code int) *runner.Result {
	failure := &runner.StepError{Index: 1, Step: "tag", Kind: kind, ExitCode: code, Err: errors.New("boom")}
	return &runner.Result{
		Pipeline: "release",
		Total:    3,
		Results: []runner.ExecutionResult{
			{Index: 0, Step: "build", Argv: []string{"make"}, Duration: 10 * time.Millisecond},
			{Index: 1, Step: "tag", Argv: []string{"git", "tag"}, ExitCode: code, Kind: kind, Err: failure, Stderr: "fatal: tag exists\n"},
		},
		Failure: failure,
		Phase:   runner.PhaseFailed,
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name   string
		result *runner.Result
		want   int
	}{
		{"nil", nil, 1},
		{"success", &runner.Result{Success: true, Phase: runner.PhaseSucceeded}, 0},
		{"command failed", failedResult(runner.KindCommandFailed, 2), 2},
		{"launch failure", failedResult(runner.KindCommandFailed, -1), 1},
		{"huge status", failedResult(runner.KindCommandFailed, 300), 255},
		{"killed by signal", failedResult(runner.KindCommandFailed, 137), 137},
		{"not found", failedResult(runner.KindCommandNotFound, -1), 127},
		{"env switch", failedResult(runner.KindEnvironmentSwitch, 0), 3},
		{"aborted", failedResult(runner.KindAborted, 0), 130},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, app.ExitCode(tt.result))
		})
	}
}

func TestRunReport_JSON(t *testing.T) {
	report := &app.RunReport{RunID: "r1", Project: "pkg", Version: "1.0.0", Result: failedResult(runner.KindCommandFailed, 4)}

	data, err := report.JSON()
	require.NoError(t, err)

	var decoded struct {
		RunID     string `json:"run_id"`
		Phase     string `json:"phase"`
		ExitCode  int    `json:"exit_code"`
		Attempted int    `json:"attempted"`
		Skipped   int    `json:"skipped"`
		ErrorKind string `json:"error_kind"`
		Steps     []struct {
			Index  int    `json:"index"`
			Status string `json:"status"`
		} `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "r1", decoded.RunID)
	assert.Equal(t, "failed", decoded.Phase)
	assert.Equal(t, 4, decoded.ExitCode)
	assert.Equal(t, 2, decoded.Attempted)
	assert.Equal(t, 1, decoded.Skipped)
	assert.Equal(t, "command_failed", decoded.ErrorKind)
	require.Len(t, decoded.Steps, 2)
	assert.Equal(t, "ok", decoded.Steps[0].Status)
	assert.Equal(t, "command_failed", decoded.Steps[1].Status)
	assert.Equal(t, 2, decoded.Steps[1].Index)
}

func TestPrintResult(t *testing.T) {
	var out bytes.Buffer
	s := app.New(&out)

	s.PrintResult(&app.RunReport{Result: failedResult(runner.KindCommandFailed, 1)})

	text := out.String()
	assert.Contains(t, text, "1. build")
	assert.Contains(t, text, "2. tag")
	assert.Contains(t, text, "fatal: tag exists")
	assert.Contains(t, text, "skipped")
	assert.Contains(t, text, "Failed in")
}
