package config

import (
	"regexp"
	"strings"
)

// Built-in variables available to every step.
const (
	VarProject  = "project"
	VarVersion  = "version"
	VarPipeline = "pipeline"
)

// placeholderPattern matches ${name} and the $$ escape.
var placeholderPattern = regexp.MustCompile(`\$\$|\$\{([^}]*)\}`)

var varNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// Overrides are command-line adjustments applied on top of the manifest.
type Overrides struct {
	// Version replaces the manifest version when non-empty.
	Version string
	// Vars are merged over the manifest vars.
	Vars map[string]string
}

// Variables returns the substitution table for the named pipeline:
// built-ins, then manifest vars, then overrides.
func (m *Manifest) Variables(pipelineName string, o Overrides) map[string]string {
	vars := map[string]string{
		VarProject:  m.Project,
		VarVersion:  m.Version,
		VarPipeline: pipelineName,
	}
	for k, v := range m.Vars {
		vars[k] = v
	}
	if o.Version != "" {
		vars[VarVersion] = o.Version
	}
	for k, v := range o.Vars {
		vars[k] = v
	}
	return vars
}

// expand substitutes ${name} placeholders in s. "$$" yields a literal "$".
// Unknown names are returned and left in place.
func expand(s string, vars map[string]string) (string, []string) {
	if !strings.Contains(s, "$") {
		return s, nil
	}
	var missing []string
	out := placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		if match == "$$" {
			return "$"
		}
		name := strings.TrimSpace(match[2 : len(match)-1])
		if v, ok := vars[name]; ok {
			return v
		}
		missing = append(missing, name)
		return match
	})
	return out, missing
}

// ParseAssignment splits a "key=value" flag argument.
func ParseAssignment(s string) (string, string, bool) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || !varNamePattern.MatchString(key) {
		return "", "", false
	}
	return key, value, true
}
