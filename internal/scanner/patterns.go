package scanner

import (
	"path/filepath"
	"strings"
)

// PatternMatcher handles include/exclude pattern matching for file filtering.
type PatternMatcher struct{}

// NewPatternMatcher creates a new pattern matcher.
func NewPatternMatcher() *PatternMatcher {
	return &PatternMatcher{}
}

// ShouldIncludeFile determines if a file should be included based on patterns.
// Excludes take precedence; with include patterns present a file must match
// at least one of them.
func (pm *PatternMatcher) ShouldIncludeFile(
	relPath string,
	includePatterns []string,
	excludePatterns []string,
) bool {
	relPath = filepath.ToSlash(relPath)

	for _, pattern := range excludePatterns {
		if pm.matchesPattern(relPath, pattern) {
			return false
		}
	}

	if len(includePatterns) > 0 {
		included := false
		for _, pattern := range includePatterns {
			if pm.matchesPattern(relPath, pattern) {
				included = true
				break
			}
		}
		if !included {
			return false
		}
	}

	return true
}

// matchesPattern checks if a path matches a glob pattern, supporting *, ?,
// and ** as well as directory patterns ending in "/".
func (pm *PatternMatcher) matchesPattern(path, pattern string) bool {
	if strings.HasSuffix(pattern, "/") {
		pattern = strings.TrimSuffix(pattern, "/")
		return strings.HasPrefix(path+"/", pattern+"/") || path == pattern
	}

	if strings.Contains(pattern, "**") {
		return pm.matchesRecursivePattern(path, pattern)
	}

	// A bare file pattern like "*.txt" should match at any depth, the way
	// transfer tools treat include filters.
	if !strings.Contains(pattern, "/") {
		if match, err := filepath.Match(pattern, filepath.Base(path)); err == nil && match {
			return true
		}
	}

	match, err := filepath.Match(pattern, path)
	if err != nil {
		return false
	}
	return match
}

// matchesRecursivePattern handles patterns containing a single **. The part
// after ** is itself a glob, matched against every tail of the remaining
// path.
func (pm *PatternMatcher) matchesRecursivePattern(path, pattern string) bool {
	parts := strings.SplitN(pattern, "**", 2)
	if len(parts) != 2 {
		match, _ := filepath.Match(pattern, path)
		return match
	}

	prefix := parts[0]
	suffix := strings.TrimPrefix(parts[1], "/")
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	if suffix == "" {
		return true
	}

	rest := strings.TrimPrefix(strings.TrimPrefix(path, prefix), "/")
	segments := strings.Split(rest, "/")
	for i := range segments {
		if match, _ := filepath.Match(suffix, strings.Join(segments[i:], "/")); match {
			return true
		}
	}
	return false
}
