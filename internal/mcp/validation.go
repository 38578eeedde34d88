package mcp

import (
	"fmt"

	"github.com/felixgeelhaar/shipit/internal/validation"
)

// ValidatePlanInput validates PlanInput fields.
func ValidatePlanInput(in *PlanInput) error {
	if err := validation.ValidateConfigPath(in.ConfigPath); err != nil {
		return fmt.Errorf("invalid config_path: %w", err)
	}
	if err := validation.ValidateName(in.Pipeline); err != nil {
		return fmt.Errorf("invalid pipeline: %w", err)
	}
	return validateVars(in.Vars)
}

// ValidateValidateInput validates ValidateInput fields.
func ValidateValidateInput(in *ValidateInput) error {
	if err := validation.ValidateConfigPath(in.ConfigPath); err != nil {
		return fmt.Errorf("invalid config_path: %w", err)
	}
	return validateVars(in.Vars)
}

// ValidateRunInput validates RunInput fields.
func ValidateRunInput(in *RunInput) error {
	if err := validation.ValidateConfigPath(in.ConfigPath); err != nil {
		return fmt.Errorf("invalid config_path: %w", err)
	}
	if err := validation.ValidateName(in.Pipeline); err != nil {
		return fmt.Errorf("invalid pipeline: %w", err)
	}
	if in.LogDir != "" {
		if err := validation.ValidatePath(in.LogDir); err != nil {
			return fmt.Errorf("invalid log_dir: %w", err)
		}
	}
	return validateVars(in.Vars)
}

// ValidateEnvsInput validates EnvsInput fields.
func ValidateEnvsInput(in *EnvsInput) error {
	if err := validation.ValidateConfigPath(in.ConfigPath); err != nil {
		return fmt.Errorf("invalid config_path: %w", err)
	}
	return nil
}

func validateVars(vars map[string]string) error {
	for name, value := range vars {
		if err := validation.ValidateVariable(name, value); err != nil {
			return fmt.Errorf("invalid vars: %w", err)
		}
	}
	return nil
}
