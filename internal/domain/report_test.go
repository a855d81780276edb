package domain

import "testing"

func TestNewTestRunReport(t *testing.T) {
	outcomes := []TestOutcome{
		{FunctionName: "A", Status: StatusPassed},
		{FunctionName: "B", Status: StatusFailed, ErrorText: "boom"},
		{FunctionName: "C", Status: StatusSkipped},
		{FunctionName: "D", Status: StatusPassed},
	}

	r := NewTestRunReport(outcomes, 4.2)

	if r.TotalCount != 4 || r.PassedCount != 2 || r.FailedCount != 1 || r.SkippedCount != 1 {
		t.Errorf("unexpected counts: %+v", r)
	}
	if r.DurationSeconds != 4.2 {
		t.Errorf("expected duration 4.2, got %v", r.DurationSeconds)
	}

	outcomes[0].FunctionName = "changed"
	if r.Outcomes[0].FunctionName != "A" {
		t.Error("report must not share the caller's slice")
	}

	t.Run("empty", func(t *testing.T) {
		r := NewTestRunReport(nil, 0)
		if r.TotalCount != 0 || r.Outcomes == nil || len(r.Outcomes) != 0 {
			t.Errorf("unexpected empty report: %+v", r)
		}
	})

	t.Run("failures", func(t *testing.T) {
		failed := r.Failures()
		if len(failed) != 1 || failed[0].FunctionName != "B" {
			t.Errorf("unexpected failures: %+v", failed)
		}
	})
}

func TestStatusFromEngine(t *testing.T) {
	tests := map[string]Status{
		"Success": StatusPassed,
		"Failure": StatusFailed,
		"Skipped": StatusSkipped,
		"success": "",
		"":        "",
	}
	for in, want := range tests {
		if got := StatusFromEngine(in); got != want {
			t.Errorf("StatusFromEngine(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSuiteResult_Totals(t *testing.T) {
	attributed := SuiteResult{
		Attributed: true,
		Report:     NewTestRunReport([]TestOutcome{{Status: StatusFailed}}, 0),
	}
	if got := attributed.Totals(); got != (StatusCounts{Failed: 1}) {
		t.Errorf("unexpected totals: %+v", got)
	}
	if !attributed.Failed() {
		t.Error("expected failed suite")
	}

	countsOnly := SuiteResult{Counts: StatusCounts{Passed: 3}}
	if got := countsOnly.Totals().Total(); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if countsOnly.Failed() {
		t.Error("expected passing suite")
	}

	countsOnly.ExecError = "exit status 1"
	if !countsOnly.Failed() {
		t.Error("exec error must fail the suite")
	}
}
