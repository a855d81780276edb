package parser

import "regexp"

// Patterns holds the regular expressions used to classify transcript lines.
// Engine format drift is handled by adjusting these in one place.
type Patterns struct {
	// CodeunitHeader captures id, name, status word and duration.
	CodeunitHeader *regexp.Regexp
	// TestFunction captures function name, status word and duration.
	TestFunction *regexp.Regexp
	// ErrorMarker captures any text following the marker on the same line.
	ErrorMarker *regexp.Regexp
	// CallStack terminates error capture.
	CallStack *regexp.Regexp
	// LooseTestFunction is used by the counts-only fallback and captures the status word.
	LooseTestFunction *regexp.Regexp
}

// Compiled once at package init.
var defaultPatterns = Patterns{
	CodeunitHeader:    regexp.MustCompile(`^\s*Codeunit\s+(\d+)\s+(.+?)\s+(Success|Failure|Skipped)\s+\((\d+(?:[.,]\d+)?)\s+seconds\)\s*$`),
	TestFunction:      regexp.MustCompile(`^\s*Testfunction\s+(.+?)\s+(Success|Failure|Skipped)\s+\((\d+(?:[.,]\d+)?)\s+seconds\)\s*$`),
	ErrorMarker:       regexp.MustCompile(`^\s*Error:(.*)$`),
	CallStack:         regexp.MustCompile(`Call Stack:`),
	LooseTestFunction: regexp.MustCompile(`Testfunction\s+.*?\b(Success|Failure|Skipped)\b`),
}

// DefaultPatterns returns the patterns matching the detailed output of
// Run-TestsInBcContainer.
func DefaultPatterns() Patterns {
	return defaultPatterns
}
