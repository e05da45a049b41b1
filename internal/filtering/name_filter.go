package filtering

import (
	"fmt"
	"path/filepath"

	"github.com/gobwas/glob"
)

// NameFilter matches service names against include and exclude glob patterns
type NameFilter interface {
	// ShouldInclude reports whether name passes the patterns, and why
	ShouldInclude(name string, include, exclude []string) (bool, string)
}

type defaultNameFilter struct{}

var _ NameFilter = (*defaultNameFilter)(nil)

// NewDefaultNameFilter returns the gobwas/glob backed NameFilter
func NewDefaultNameFilter() NameFilter {
	return &defaultNameFilter{}
}

// compilePattern compiles pattern without separators, so '*' also spans the
// namespace slash. glob.Compile accepts some malformed classes that
// filepath.Match rejects, so both are consulted.
func compilePattern(pattern string) (glob.Glob, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, err
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %v", err)
	}
	return g, nil
}

// ValidatePatterns reports the first malformed pattern, if any
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if _, err := compilePattern(p); err != nil {
			return fmt.Errorf("pattern '%s': %w", p, err)
		}
	}
	return nil
}

// firstMatch returns the first pattern matching name, or "" when none does
func firstMatch(name string, patterns []string) (string, error) {
	for _, p := range patterns {
		g, err := compilePattern(p)
		if err != nil {
			return p, err
		}
		if g.Match(name) {
			return p, nil
		}
	}
	return "", nil
}

// ShouldInclude applies exclude patterns first. When include patterns are
// present the name must match one of them.
func (*defaultNameFilter) ShouldInclude(name string, include, exclude []string) (bool, string) {
	p, err := firstMatch(name, exclude)
	switch {
	case err != nil:
		return false, fmt.Sprintf("invalid exclude pattern '%s': %v", p, err)
	case p != "":
		return false, fmt.Sprintf("excluded by pattern '%s'", p)
	}

	if len(include) == 0 {
		if len(exclude) == 0 {
			return true, "no name filters specified"
		}
		return true, fmt.Sprintf("no match in exclude patterns %v", exclude)
	}

	p, err = firstMatch(name, include)
	switch {
	case err != nil:
		return false, fmt.Sprintf("invalid include pattern '%s': %v", p, err)
	case p != "":
		return true, fmt.Sprintf("included by pattern '%s'", p)
	}
	return false, fmt.Sprintf("no match found in include patterns %v", include)
}
