package environment

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

// Reserved INI keys; every other key in a section is an environment variable.
const (
	iniKeyKind   = "kind"
	iniKeyPrefix = "prefix"
	iniKeyPath   = "path"
)

// LoadINI reads environment definitions from an INI file, one section per
// environment:
//
//	[py27]
//	kind   = conda
//	prefix = /opt/conda/envs/py27
//	PYTHONHASHSEED = 0
func LoadINI(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseINI(data)
}

// ParseINI parses environment definitions from INI data.
func ParseINI(data []byte) ([]Definition, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:         false,
		IgnoreInlineComment: false,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("parse environments: %w", err)
	}

	defs := make([]Definition, 0)
	for _, section := range file.Sections() {
		if section.Name() == ini.DefaultSection {
			if len(section.Keys()) > 0 {
				return nil, fmt.Errorf("%w: keys outside of an [environment] section", ErrInvalidDefinition)
			}
			continue
		}

		kind, err := ParseKind(section.Key(iniKeyKind).String())
		if err != nil {
			return nil, fmt.Errorf("environment %q: %w", section.Name(), err)
		}

		def := Definition{
			Name:   section.Name(),
			Kind:   kind,
			Prefix: section.Key(iniKeyPrefix).String(),
			Path:   splitList(section.Key(iniKeyPath).String()),
			Vars:   make(map[string]string),
		}
		for _, key := range section.Keys() {
			switch key.Name() {
			case iniKeyKind, iniKeyPrefix, iniKeyPath:
				continue
			}
			def.Vars[key.Name()] = key.Value()
		}
		if err := def.Validate(); err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
