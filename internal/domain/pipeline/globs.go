package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ResolvedArgs returns the step's arguments ready for execution. With glob
// expansion enabled, each argument containing a glob metacharacter is
// replaced by its sorted matches, resolved against the step's working
// directory. A pattern with no matches is kept literally, as a POSIX shell
// would.
func (s Step) ResolvedArgs() ([]string, error) {
	args := s.command.Args()
	if !s.expandGlobs {
		return args, nil
	}

	out := make([]string, 0, len(args))
	for _, arg := range args {
		if !hasGlobMeta(arg) {
			out = append(out, arg)
			continue
		}
		matches, err := expandGlob(s.dir, arg)
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", arg, err)
		}
		if len(matches) == 0 {
			out = append(out, arg)
			continue
		}
		out = append(out, matches...)
	}
	return out, nil
}

func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

func expandGlob(dir, pattern string) ([]string, error) {
	if filepath.IsAbs(pattern) || dir == "" {
		return filepath.Glob(pattern)
	}

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}
	for i, m := range matches {
		rel, err := filepath.Rel(dir, m)
		if err != nil {
			return nil, err
		}
		matches[i] = rel
	}
	return matches, nil
}
