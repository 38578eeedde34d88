package app

import (
	"github.com/felixgeelhaar/shipit/internal/domain/runner"
)

// Process exit codes.
const (
	ExitOK                = 0
	ExitFailure           = 1
	ExitConfigError       = 2
	ExitEnvironmentSwitch = 3
	ExitCommandNotFound   = 127
	ExitAborted           = 130
)

// ExitCode maps a run result to a process exit code. A failed command
// propagates its own status, clamped to 1..255.
func ExitCode(result *runner.Result) int {
	if result == nil {
		return ExitFailure
	}
	if result.Failure == nil {
		if result.Success {
			return ExitOK
		}
		return ExitFailure
	}

	switch result.Failure.Kind {
	case runner.KindEnvironmentSwitch:
		return ExitEnvironmentSwitch
	case runner.KindCommandNotFound:
		return ExitCommandNotFound
	case runner.KindAborted:
		return ExitAborted
	case runner.KindCommandFailed:
		code := result.Failure.ExitCode
		switch {
		case code < 1:
			return ExitFailure
		case code > 255:
			return 255
		}
		return code
	default:
		return ExitFailure
	}
}
