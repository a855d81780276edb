package domain

// TestRunReport is the structured result of parsing one test-engine transcript.
// Counts are derived from Outcomes and must not be set independently.
type TestRunReport struct {
	TotalCount      int           `json:"total_count"`
	PassedCount     int           `json:"passed_count"`
	FailedCount     int           `json:"failed_count"`
	SkippedCount    int           `json:"skipped_count"`
	Outcomes        []TestOutcome `json:"outcomes"`
	DurationSeconds float64       `json:"duration_seconds"`
}

// NewTestRunReport builds a report from outcomes in transcript order.
// The outcomes slice is copied.
func NewTestRunReport(outcomes []TestOutcome, durationSeconds float64) TestRunReport {
	r := TestRunReport{
		Outcomes:        make([]TestOutcome, len(outcomes)),
		DurationSeconds: durationSeconds,
	}
	copy(r.Outcomes, outcomes)

	for _, o := range r.Outcomes {
		switch o.Status {
		case StatusPassed:
			r.PassedCount++
		case StatusFailed:
			r.FailedCount++
		case StatusSkipped:
			r.SkippedCount++
		}
	}
	r.TotalCount = r.PassedCount + r.FailedCount + r.SkippedCount

	return r
}

// WithDuration returns a copy of the report carrying the caller-measured run duration.
func (r TestRunReport) WithDuration(seconds float64) TestRunReport {
	return NewTestRunReport(r.Outcomes, seconds)
}

// Failures returns the failed outcomes in transcript order
func (r TestRunReport) Failures() []TestOutcome {
	var failed []TestOutcome
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			failed = append(failed, o)
		}
	}
	return failed
}

// StatusCounts holds status totals without per-test attribution.
// It is produced by the counts-only fallback path.
type StatusCounts struct {
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Total returns the number of counted tests
func (c StatusCounts) Total() int {
	return c.Passed + c.Failed + c.Skipped
}

// Add returns the element-wise sum of two counts
func (c StatusCounts) Add(other StatusCounts) StatusCounts {
	return StatusCounts{
		Passed:  c.Passed + other.Passed,
		Failed:  c.Failed + other.Failed,
		Skipped: c.Skipped + other.Skipped,
	}
}
