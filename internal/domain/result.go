package domain

import "time"

// SuiteRun is the raw result of executing one test suite in a container
type SuiteRun struct {
	Suite      string        // Test suite that was executed
	Container  string        // Container the suite ran in
	WorkerID   int           // Worker that executed the suite
	Transcript string        // Captured console output of the test engine
	Duration   time.Duration // Wall-clock time of the engine invocation
	Error      error         // Error if the engine could not be run or exited non-zero
}

// SuiteResult is a parsed suite run. Exactly one of Report or Counts is meaningful:
// Attributed reports carry per-test outcomes, counts-only results carry totals only.
type SuiteResult struct {
	Suite      string        `json:"suite"`
	Container  string        `json:"container,omitempty"`
	Attributed bool          `json:"attributed"`
	Report     TestRunReport `json:"report"`
	Counts     StatusCounts  `json:"counts"`
	ExecError  string        `json:"exec_error,omitempty"`
}

// Totals returns the status counts regardless of which path produced the result
func (s SuiteResult) Totals() StatusCounts {
	if s.Attributed {
		return StatusCounts{
			Passed:  s.Report.PassedCount,
			Failed:  s.Report.FailedCount,
			Skipped: s.Report.SkippedCount,
		}
	}
	return s.Counts
}

// Failed reports whether the suite had failing tests or could not be executed cleanly
func (s SuiteResult) Failed() bool {
	return s.Totals().Failed > 0 || s.ExecError != ""
}

// TestFailure is a failed test function flattened for the failure viewer
type TestFailure struct {
	Suite        string `json:"suite"`
	CodeunitName string `json:"codeunit_name"`
	CodeunitID   int    `json:"codeunit_id"`
	FunctionName string `json:"function_name"`
	ErrorText    string `json:"error_text"`
	Resolved     bool   `json:"resolved,omitempty"` // Track if test case is marked as resolved
}

// TestResultsMeta contains metadata about a test run
type TestResultsMeta struct {
	RunID           string  `json:"run_id"`
	TotalSuites     int     `json:"total_suites"`
	FailedSuites    int     `json:"failed_suites"`
	TotalTests      int     `json:"total_tests"`
	PassedTests     int     `json:"passed_tests"`
	FailedTests     int     `json:"failed_tests"`
	SkippedTests    int     `json:"skipped_tests"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Workers         int     `json:"workers"`
	Timestamp       string  `json:"timestamp"`
}

// TestResultsOutput is the complete output structure for test results
type TestResultsOutput struct {
	Meta    TestResultsMeta `json:"meta"`
	Suites  []SuiteResult   `json:"suites"`
	Details []TestFailure   `json:"details"`
}
