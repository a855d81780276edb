package parser

import (
	_ "embed"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"bctp/internal/domain"
)

//go:embed testdata/detailed_run.txt
var detailedRun string

const helloWorld = `Codeunit 50000 HelloWorld Test Success (0.30 seconds)
  Testfunction TestHello Success (0.10 seconds)
  Testfunction TestWorld Failure (0.05 seconds)
    Error:
      Expected true but was false
`

var floatOpt = cmpopts.EquateApprox(0, 1e-6)

func TestBCTestParser_Parse(t *testing.T) {
	t.Parallel()
	p := NewBCTestParser()

	tests := []struct {
		name     string
		input    string
		expected []domain.TestOutcome
	}{
		{
			name:     "empty transcript",
			input:    "",
			expected: []domain.TestOutcome{},
		},
		{
			name:     "banner only",
			input:    "Connecting to http://bcserver\nNo tests were executed\n",
			expected: []domain.TestOutcome{},
		},
		{
			name:  "context attachment",
			input: helloWorld,
			expected: []domain.TestOutcome{
				{CodeunitName: "HelloWorld Test", CodeunitID: 50000, FunctionName: "TestHello", Status: domain.StatusPassed, DurationSeconds: 0.10},
				{CodeunitName: "HelloWorld Test", CodeunitID: 50000, FunctionName: "TestWorld", Status: domain.StatusFailed, DurationSeconds: 0.05, ErrorText: "Expected true but was false"},
			},
		},
		{
			name:  "error does not leak past blank line",
			input: helloWorld + "\n  Testfunction TestThird Skipped (0.00 seconds)\n",
			expected: []domain.TestOutcome{
				{CodeunitName: "HelloWorld Test", CodeunitID: 50000, FunctionName: "TestHello", Status: domain.StatusPassed, DurationSeconds: 0.10},
				{CodeunitName: "HelloWorld Test", CodeunitID: 50000, FunctionName: "TestWorld", Status: domain.StatusFailed, DurationSeconds: 0.05, ErrorText: "Expected true but was false"},
				{CodeunitName: "HelloWorld Test", CodeunitID: 50000, FunctionName: "TestThird", Status: domain.StatusSkipped},
			},
		},
		{
			name:  "no codeunit header seen",
			input: "  Testfunction Orphan Success (0.01 seconds)\n",
			expected: []domain.TestOutcome{
				{FunctionName: "Orphan", Status: domain.StatusPassed, DurationSeconds: 0.01},
			},
		},
		{
			name:  "duration precision",
			input: "Testfunction Precise Success (1.234 seconds)",
			expected: []domain.TestOutcome{
				{FunctionName: "Precise", Status: domain.StatusPassed, DurationSeconds: 1.234},
			},
		},
		{
			name:  "truncated error at end of input",
			input: "Codeunit 1 Short Failure (0.2 seconds)\n  Testfunction Cut Failure (0.2 seconds)\n    Error:\n      Something went wr",
			expected: []domain.TestOutcome{
				{CodeunitName: "Short", CodeunitID: 1, FunctionName: "Cut", Status: domain.StatusFailed, DurationSeconds: 0.2, ErrorText: "Something went wr"},
			},
		},
		{
			name: "error finalized by next function line",
			input: "Testfunction A Failure (0.1 seconds)\n  Error:\n    first\n    second\n" +
				"Testfunction B Success (0.2 seconds)\n",
			expected: []domain.TestOutcome{
				{FunctionName: "A", Status: domain.StatusFailed, DurationSeconds: 0.1, ErrorText: "first second"},
				{FunctionName: "B", Status: domain.StatusPassed, DurationSeconds: 0.2},
			},
		},
		{
			name:  "error text on marker line",
			input: "Testfunction A Failure (0.1 seconds)\nError: Assert.AreEqual failed\n",
			expected: []domain.TestOutcome{
				{FunctionName: "A", Status: domain.StatusFailed, DurationSeconds: 0.1, ErrorText: "Assert.AreEqual failed"},
			},
		},
		{
			name:     "error before any function is dropped",
			input:    "Error:\n  container unreachable\n",
			expected: []domain.TestOutcome{},
		},
		{
			name: "consecutive functions carry no error text",
			input: "Codeunit 7 Pair Success (0.3 seconds)\n" +
				"Testfunction One Failure (0.1 seconds)\nTestfunction Two Failure (0.2 seconds)\n",
			expected: []domain.TestOutcome{
				{CodeunitName: "Pair", CodeunitID: 7, FunctionName: "One", Status: domain.StatusFailed, DurationSeconds: 0.1},
				{CodeunitName: "Pair", CodeunitID: 7, FunctionName: "Two", Status: domain.StatusFailed, DurationSeconds: 0.2},
			},
		},
		{
			name:  "windows line endings",
			input: "Codeunit 9 Crlf Success (0.1 seconds)\r\n  Testfunction Line Success (0.1 seconds)\r\n",
			expected: []domain.TestOutcome{
				{CodeunitName: "Crlf", CodeunitID: 9, FunctionName: "Line", Status: domain.StatusPassed, DurationSeconds: 0.1},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			report := p.Parse(tt.input)
			if diff := cmp.Diff(tt.expected, report.Outcomes, floatOpt); diff != "" {
				t.Errorf("outcomes mismatch (-want +got):\n%s", diff)
			}
			assertCounts(t, report)
		})
	}
}

func TestBCTestParser_Parse_DetailedRun(t *testing.T) {
	t.Parallel()
	report := NewBCTestParser().Parse(detailedRun)

	if report.TotalCount != 5 || report.PassedCount != 3 || report.FailedCount != 1 || report.SkippedCount != 1 {
		t.Fatalf("unexpected counts: %+v", report)
	}

	failed := report.Failures()
	if len(failed) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(failed))
	}
	want := "Assert.ExpectedError failed. Expected: There is nothing to post. Actual: The Sales Header does not exist."
	if failed[0].ErrorText != want {
		t.Errorf("expected error text %q, got %q", want, failed[0].ErrorText)
	}
	if strings.Contains(failed[0].ErrorText, "CodeUnit 50100") {
		t.Error("call stack leaked into error text")
	}

	skipped := report.Outcomes[2]
	if skipped.Status != domain.StatusSkipped || skipped.ErrorText != "" {
		t.Errorf("unexpected skipped outcome: %+v", skipped)
	}

	customer := report.Outcomes[3]
	if customer.CodeunitName != "Customer Tests" || customer.CodeunitID != 50101 {
		t.Errorf("unexpected codeunit context: %+v", customer)
	}
	if math.Abs(customer.DurationSeconds-0.105) > 1e-6 {
		t.Errorf("expected comma decimal to parse as 0.105, got %v", customer.DurationSeconds)
	}
}

func TestBCTestParser_Parse_Idempotent(t *testing.T) {
	t.Parallel()
	p := NewBCTestParser()

	first := p.Parse(detailedRun)
	second := p.Parse(detailedRun)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated parse differs (-first +second):\n%s", diff)
	}
}

func TestBCTestParser_Parse_Concurrent(t *testing.T) {
	t.Parallel()
	p := NewBCTestParser()
	want := p.Parse(detailedRun)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if diff := cmp.Diff(want, p.Parse(detailedRun)); diff != "" {
				t.Errorf("concurrent parse differs:\n%s", diff)
			}
		}()
	}
	wg.Wait()
}

func TestBCTestParser_Parse_OrderPreserved(t *testing.T) {
	t.Parallel()
	report := NewBCTestParser().Parse(detailedRun)

	var got []string
	for _, o := range report.Outcomes {
		got = append(got, o.FunctionName)
	}
	want := []string{
		"PostInvoiceCreatesLedgerEntries",
		"PostInvoiceWithoutLinesFails",
		"PostCreditMemo",
		"CreateCustomer",
		"BlockCustomer",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSeconds(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want float64
	}{
		{"0.271", 0.271},
		{"1.02", 1.02},
		{"3", 3},
		{"0,5", 0.5},
		{"", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		if got := parseSeconds(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("parseSeconds(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func assertCounts(t *testing.T, r domain.TestRunReport) {
	t.Helper()
	if r.TotalCount != r.PassedCount+r.FailedCount+r.SkippedCount {
		t.Errorf("total %d != passed+failed+skipped %d", r.TotalCount, r.PassedCount+r.FailedCount+r.SkippedCount)
	}
	if r.TotalCount != len(r.Outcomes) {
		t.Errorf("total %d != len(outcomes) %d", r.TotalCount, len(r.Outcomes))
	}
}
