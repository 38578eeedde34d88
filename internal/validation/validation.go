// Package validation provides input validation for values that arrive from
// outside the manifest, such as MCP tool arguments.
package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Common validation errors.
var (
	ErrEmptyInput       = errors.New("input cannot be empty")
	ErrPathTraversal    = errors.New("path traversal detected")
	ErrInvalidPath      = errors.New("invalid path")
	ErrInvalidName      = errors.New("invalid name")
	ErrInvalidConfig    = errors.New("invalid config path")
	ErrNewlineInjection = errors.New("newline injection detected")
)

var (
	// nameRegex matches pipeline and environment names.
	nameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

	// varNameRegex matches variable names usable in ${name} placeholders.
	varNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)
)

const maxNameLength = 128

var configExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".toml": true,
}

// ValidatePath rejects empty paths, null bytes and traversal sequences.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyInput
	}

	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: path contains null byte", ErrInvalidPath)
	}

	if containsPathTraversal(path) {
		return fmt.Errorf("%w: %q contains traversal sequence", ErrPathTraversal, path)
	}

	return nil
}

// ValidateConfigPath validates an optional manifest path. An empty path
// selects the default manifest.
func ValidateConfigPath(path string) error {
	if path == "" {
		return nil
	}
	if err := ValidatePath(path); err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !configExtensions[ext] {
		return fmt.Errorf("%w: %q must end in .yaml, .yml or .toml", ErrInvalidConfig, path)
	}
	return nil
}

// ValidateName validates an optional pipeline or environment name.
func ValidateName(name string) error {
	if name == "" {
		return nil
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name too long (max %d characters)", ErrInvalidName, maxNameLength)
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// ValidateVariable validates a variable override. Values may contain any
// printable text but no line breaks.
func ValidateVariable(name, value string) error {
	if name == "" {
		return ErrEmptyInput
	}
	if !varNameRegex.MatchString(name) {
		return fmt.Errorf("%w: variable %q", ErrInvalidName, name)
	}
	if strings.ContainsAny(value, "\r\n\x00") {
		return fmt.Errorf("%w: variable %q", ErrNewlineInjection, name)
	}
	return nil
}

// containsPathTraversal checks for common path traversal patterns.
func containsPathTraversal(path string) bool {
	normalized := filepath.Clean(path)

	for _, seg := range strings.Split(normalized, string(filepath.Separator)) {
		if seg == ".." {
			return true
		}
	}

	// URL-encoded traversal
	lower := strings.ToLower(path)
	return strings.Contains(lower, "%2e%2e")
}
