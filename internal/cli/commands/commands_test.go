package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"bctp/internal/config"
	"bctp/internal/discovery"
	"bctp/internal/domain"
	"bctp/internal/parser"
	"bctp/internal/storage"
	"bctp/internal/ui"
)

func init() {
	color.NoColor = true
}

const passingTranscript = `Codeunit 50000 HelloWorld Test Success (0.30 seconds)
  Testfunction TestHello Success (0.10 seconds)
`

const failingTranscript = `Codeunit 50000 HelloWorld Test Failure (0.30 seconds)
  Testfunction TestHello Success (0.10 seconds)
  Testfunction TestWorld Failure (0.05 seconds)
    Error:
      Expected true but was false
`

type fakeViewer struct{ viewed int }

func (f *fakeViewer) View(*domain.TestResultsOutput) error {
	f.viewed++
	return nil
}

func newTestReporter(t *testing.T, flags config.Flags) (*Reporter, *config.Config, *fakeViewer, *bytes.Buffer) {
	t.Helper()
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	cfg.Apply(flags)

	var out bytes.Buffer
	viewer := &fakeViewer{}
	reporter := NewReporter(cfg, storage.NewJSONStorage(cfg), ui.NewFormatterTo(cfg, &out), viewer)
	return reporter, cfg, viewer, &out
}

func TestParseCommand_ParseFiles(t *testing.T) {
	_, cfg, _, _ := newTestReporter(t, config.Flags{Duration: 7.5})
	dir := t.TempDir()
	pass := filepath.Join(dir, "unit.txt")
	fail := filepath.Join(dir, "integration.log")
	os.WriteFile(pass, []byte(passingTranscript), 0644)
	os.WriteFile(fail, []byte(failingTranscript), 0644)

	pc := NewParseCommand(cfg, parser.NewBCTestParser(), nil)

	t.Run("multiple files keep argument order", func(t *testing.T) {
		results, err := pc.ParseFiles([]string{pass, fail})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 2 || results[0].Suite != "unit" || results[1].Suite != "integration" {
			t.Fatalf("unexpected results: %+v", results)
		}
		if results[1].Report.FailedCount != 1 {
			t.Errorf("expected 1 failure in integration, got %d", results[1].Report.FailedCount)
		}
		if results[0].Report.DurationSeconds != 0 {
			t.Error("run duration must not be attributed to one of several transcripts")
		}
	})

	t.Run("stdin", func(t *testing.T) {
		pc.stdin = strings.NewReader(passingTranscript)
		results, err := pc.ParseFiles(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if results[0].Suite != "stdin" || results[0].Report.TotalCount != 1 {
			t.Errorf("unexpected stdin result: %+v", results[0])
		}
		if results[0].Report.DurationSeconds != 7.5 {
			t.Errorf("expected duration 7.5, got %v", results[0].Report.DurationSeconds)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := pc.ParseFiles([]string{filepath.Join(dir, "missing.txt")}); err == nil {
			t.Error("expected error for missing transcript")
		}
	})
}

func TestReporter_Report(t *testing.T) {
	p := parser.NewBCTestParser()

	t.Run("passing run saves and succeeds", func(t *testing.T) {
		reporter, cfg, viewer, out := newTestReporter(t, config.Flags{OpenFaills: true})
		result := p.Analyze(passingTranscript, 1)
		result.Suite = "UNIT"

		if err := reporter.Report(storage.BuildOutput([]domain.SuiteResult{result}, time.Second, 1)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "All tests passed") {
			t.Errorf("expected success summary, got:\n%s", out.String())
		}
		if viewer.viewed != 0 {
			t.Error("viewer must not open without failures")
		}
		if _, err := storage.NewJSONStorage(cfg).Load(); err != nil {
			t.Errorf("expected saved results: %v", err)
		}
	})

	t.Run("failing run returns error and writes junit", func(t *testing.T) {
		junit := filepath.Join(t.TempDir(), "junit.xml")
		reporter, _, viewer, _ := newTestReporter(t, config.Flags{OpenFaills: true, JUnitPath: junit})
		result := p.Analyze(failingTranscript, 1)
		result.Suite = "UNIT"

		err := reporter.Report(storage.BuildOutput([]domain.SuiteResult{result}, time.Second, 1))
		if err == nil || !strings.Contains(err.Error(), "1 test(s) failed") {
			t.Errorf("expected failure error, got %v", err)
		}
		if viewer.viewed != 1 {
			t.Errorf("expected viewer to open once, got %d", viewer.viewed)
		}
		if _, err := os.Stat(junit); err != nil {
			t.Errorf("expected junit report: %v", err)
		}
	})
}

func TestToSuiteResult(t *testing.T) {
	run := domain.SuiteRun{
		Suite:      "UNIT",
		Container:  "bc1",
		Transcript: failingTranscript,
		Duration:   2 * time.Second,
		Error:      errors.New("exit status 1"),
	}

	result := toSuiteResult(parser.NewBCTestParser(), run)
	if result.Suite != "UNIT" || result.Container != "bc1" || result.ExecError != "exit status 1" {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.Report.DurationSeconds != 2 {
		t.Errorf("expected measured duration 2s, got %v", result.Report.DurationSeconds)
	}
}

func TestListCommand_Discover(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	src := `codeunit 50100 "Sales Posting Tests"
{
    Subtype = Test;

    [Test]
    procedure PostInvoice()
    begin
    end;
}
`
	os.MkdirAll(filepath.Join(cfg.ProjectPath, "test"), 0755)
	os.WriteFile(filepath.Join(cfg.ProjectPath, "test", "Sales.Codeunit.al"), []byte(src), 0644)

	var out bytes.Buffer
	lc := NewListCommand(cfg, discovery.NewScanner(cfg.PathsToIgnore), discovery.NewParser(), discovery.NewFilter(), ui.NewFormatterTo(cfg, &out), storage.NewJSONStorage(cfg))

	codeunits, err := lc.Discover()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(codeunits) != 1 || codeunits[0].Functions[0] != "PostInvoice" {
		t.Errorf("unexpected codeunits: %+v", codeunits)
	}

	cfg.Apply(config.Flags{NameFilter: "*Purchase*"})
	codeunits, _ = lc.Discover()
	if len(codeunits) != 0 {
		t.Errorf("expected filter to exclude codeunit, got %+v", codeunits)
	}
}
