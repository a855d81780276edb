package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"bctp/internal/config"
	"bctp/internal/domain"
	"bctp/internal/export"
	"bctp/internal/storage"
	"bctp/internal/ui"
)

// Reporter persists, exports and prints a finished run
type Reporter struct {
	config    *config.Config
	storage   storage.Storage
	formatter *ui.Formatter
	viewer    ui.Viewer
}

// NewReporter creates a new Reporter
func NewReporter(cfg *config.Config, st storage.Storage, formatter *ui.Formatter, viewer ui.Viewer) *Reporter {
	return &Reporter{
		config:    cfg,
		storage:   st,
		formatter: formatter,
		viewer:    viewer,
	}
}

// Report saves the results, writes the optional JUnit file and prints the summary.
// It returns an error when any test failed so the process exits non-zero.
func (r *Reporter) Report(output *domain.TestResultsOutput) error {
	for _, suite := range output.Suites {
		log := logrus.WithField("suite", suite.Suite)
		if suite.Totals().Total() == 0 {
			log.Warn("No tests found in test engine output")
		}
		if !suite.Attributed {
			log.Warn("Test function lines did not match the detailed format, reporting counts only")
		}
	}

	if err := r.storage.Save(output); err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}

	if path := r.config.Flags.JUnitPath; path != "" {
		if err := export.WriteJUnitFile(path, output); err != nil {
			return fmt.Errorf("failed to write junit report: %w", err)
		}
		logrus.WithField("path", path).Debug("Wrote JUnit report")
	}

	if err := r.formatter.PrintMetaStats(output); err != nil {
		return err
	}

	failed := output.Meta.FailedTests > 0 || output.Meta.FailedSuites > 0
	if failed && r.config.Flags.OpenFaills && len(output.Details) > 0 {
		if err := r.viewer.View(output); err != nil {
			return err
		}
	}

	if failed {
		return fmt.Errorf("%d test(s) failed in %d suite(s)", output.Meta.FailedTests, output.Meta.FailedSuites)
	}
	return nil
}

// toSuiteResult parses a raw suite run into a suite result
func toSuiteResult(p analyzer, run domain.SuiteRun) domain.SuiteResult {
	result := p.Analyze(run.Transcript, run.Duration.Seconds())
	result.Suite = run.Suite
	result.Container = run.Container
	if run.Error != nil {
		result.ExecError = run.Error.Error()
	}
	return result
}

type analyzer interface {
	Analyze(transcript string, durationSeconds float64) domain.SuiteResult
}
