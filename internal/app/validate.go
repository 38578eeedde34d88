package app

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/shipit/internal/domain/config"
)

// ValidationResult contains the results of manifest validation.
type ValidationResult struct {
	Path         string              `json:"path"`
	Valid        bool                `json:"valid"`
	Pipelines    []string            `json:"pipelines,omitempty"`
	Environments []string            `json:"environments,omitempty"`
	Errors       []*config.UserError `json:"-"`
}

// Messages returns one line per validation error.
func (v *ValidationResult) Messages() []string {
	out := make([]string, 0, len(v.Errors))
	for _, e := range v.Errors {
		out = append(out, e.Error())
	}
	return out
}

// Validate checks the manifest without running anything. The error is
// non-nil only when the manifest cannot be read or parsed; validation
// problems are reported in the result.
func (s *Shipit) Validate(_ context.Context, path string, o config.Overrides) (*ValidationResult, error) {
	manifest, err := s.loader.LoadManifest(path)
	if err != nil {
		return nil, err
	}

	result := &ValidationResult{
		Path:      path,
		Pipelines: manifest.PipelineNames(),
	}

	reg, err := manifest.Registry()
	if err != nil {
		result.Errors = append(result.Errors, asUserErrors(err)...)
	} else {
		result.Environments = reg.Names()
	}

	if err := manifest.Validate(reg, o); err != nil {
		result.Errors = append(result.Errors, asUserErrors(err)...)
	}

	result.Valid = len(result.Errors) == 0
	return result, nil
}

func asUserErrors(err error) []*config.UserError {
	var list *config.ErrorList
	if errors.As(err, &list) {
		return list.Errors()
	}
	if ue := config.GetUserError(err); ue != nil {
		return []*config.UserError{ue}
	}
	return []*config.UserError{config.NewUserError(config.ErrCodeValidationFailed, err.Error()).WithUnderlying(err)}
}
