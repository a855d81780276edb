package discovery

import (
	"path/filepath"
	"strings"

	"bctp/internal/domain"
)

// Filter filters test codeunits and failures by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName filters codeunits by name pattern using wildcard matching
// Supports patterns like "*Posting Tests" or "*Customer*"
func (f *Filter) FilterByName(codeunits []domain.TestCodeunit, pattern string) []domain.TestCodeunit {
	if pattern == "" {
		return codeunits
	}

	var filtered []domain.TestCodeunit
	for _, cu := range codeunits {
		if f.Match(cu.Name, pattern) {
			filtered = append(filtered, cu)
		}
	}
	return filtered
}

// FilterFailures keeps failures whose codeunit or function name matches the pattern
func (f *Filter) FilterFailures(failures []domain.TestFailure, pattern string) []domain.TestFailure {
	if pattern == "" {
		return failures
	}

	var filtered []domain.TestFailure
	for _, failure := range failures {
		if f.Match(failure.CodeunitName, pattern) || f.Match(failure.FunctionName, pattern) {
			filtered = append(filtered, failure)
		}
	}
	return filtered
}

// Match reports whether name matches the pattern
func (f *Filter) Match(name, pattern string) bool {
	if pattern == "" {
		return true
	}

	// Try to match using filepath.Match (supports * and ? wildcards)
	matched, err := filepath.Match(pattern, name)
	if err == nil && matched {
		return true
	}

	// If pattern contains wildcards but filepath.Match didn't match,
	// try a more flexible substring match for patterns like "*Posting*"
	if strings.Contains(pattern, "*") {
		hasNonEmptyPart := false
		for _, part := range strings.Split(pattern, "*") {
			if part == "" {
				continue
			}
			hasNonEmptyPart = true
			if !strings.Contains(name, part) {
				return false
			}
		}
		return hasNonEmptyPart
	}

	// If no wildcards, do a simple contains check
	if !strings.Contains(pattern, "?") {
		return strings.Contains(name, pattern)
	}

	return false
}
