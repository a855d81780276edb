package ui

import (
	"strings"
	"testing"

	"bctp/internal/domain"
)

func TestFormatFailureDetails(t *testing.T) {
	failure := domain.TestFailure{
		Suite:        "UNIT",
		CodeunitID:   50000,
		CodeunitName: "HelloWorld Test",
		FunctionName: "TestWorld",
		ErrorText:    "Expected true but was false",
	}

	got := formatFailureDetails(failure)
	for _, want := range []string{"TestWorld", "50000 HelloWorld Test", "UNIT", "Expected true but was false"} {
		if !strings.Contains(got, want) {
			t.Errorf("details missing %q:\n%s", want, got)
		}
	}

	t.Run("without error text", func(t *testing.T) {
		got := formatFailureDetails(domain.TestFailure{FunctionName: "Quiet"})
		if !strings.Contains(got, "No error text captured") {
			t.Errorf("expected placeholder, got:\n%s", got)
		}
	})
}

func TestFormatFailureStats(t *testing.T) {
	got := formatFailureStats(domain.TestFailure{FunctionName: "Orphan"})
	if !strings.Contains(got, "Unknown codeunit") || !strings.Contains(got, "Orphan") {
		t.Errorf("unexpected stats line: %s", got)
	}
}

func TestListItemText(t *testing.T) {
	if got := listItemText(domain.TestFailure{}, 2, false); !strings.Contains(got, "Test 3") {
		t.Errorf("expected fallback name, got %s", got)
	}
	if got := listItemText(domain.TestFailure{FunctionName: "A"}, 0, true); !strings.Contains(got, "✓") {
		t.Errorf("expected resolved marker, got %s", got)
	}
}
