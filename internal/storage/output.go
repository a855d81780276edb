package storage

import (
	"time"

	"github.com/google/uuid"

	"bctp/internal/domain"
)

// BuildOutput assembles the persisted document for a set of suite results.
func BuildOutput(results []domain.SuiteResult, duration time.Duration, workers int) *domain.TestResultsOutput {
	output := &domain.TestResultsOutput{
		Meta: domain.TestResultsMeta{
			RunID:           uuid.NewString(),
			TotalSuites:     len(results),
			Duration:        duration.String(),
			DurationSeconds: duration.Seconds(),
			Workers:         workers,
			Timestamp:       time.Now().Format(time.RFC3339),
		},
		Suites:  results,
		Details: []domain.TestFailure{},
	}

	var totals domain.StatusCounts
	for _, r := range results {
		if r.Failed() {
			output.Meta.FailedSuites++
		}
		totals = totals.Add(r.Totals())

		for _, o := range r.Report.Failures() {
			output.Details = append(output.Details, domain.TestFailure{
				Suite:        r.Suite,
				CodeunitName: o.CodeunitName,
				CodeunitID:   o.CodeunitID,
				FunctionName: o.FunctionName,
				ErrorText:    o.ErrorText,
			})
		}
	}

	output.Meta.TotalTests = totals.Total()
	output.Meta.PassedTests = totals.Passed
	output.Meta.FailedTests = totals.Failed
	output.Meta.SkippedTests = totals.Skipped

	return output
}
