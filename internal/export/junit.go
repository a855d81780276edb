// Package export renders stored test results for CI systems.
package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"bctp/internal/domain"
)

type junitTestSuites struct {
	XMLName  xml.Name         `xml:"testsuites"`
	Name     string           `xml:"name,attr,omitempty"`
	Tests    int              `xml:"tests,attr"`
	Failures int              `xml:"failures,attr"`
	Skipped  int              `xml:"skipped,attr"`
	Time     float64          `xml:"time,attr"`
	Suites   []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	Name       string          `xml:"name,attr"`
	ID         int             `xml:"id,attr,omitempty"`
	Package    string          `xml:"package,attr,omitempty"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Time       float64         `xml:"time,attr"`
	Properties []junitProperty `xml:"properties>property,omitempty"`
	TestCases  []junitTestCase `xml:"testcase"`
	SystemErr  string          `xml:"system-err,omitempty"`
}

type junitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type junitTestCase struct {
	Classname string        `xml:"classname,attr"`
	Name      string        `xml:"name,attr"`
	Time      float64       `xml:"time,attr"`
	Skipped   *junitSkipped `xml:"skipped,omitempty"`
	Failure   *junitFailure `xml:"failure,omitempty"`
}

type junitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Text    string `xml:",chardata"`
}

// WriteJUnit renders the results as JUnit XML: one testsuite per codeunit for
// attributed suites, and one count-only testsuite per suite without per-test detail.
func WriteJUnit(w io.Writer, output *domain.TestResultsOutput) error {
	doc := junitTestSuites{
		Name:     output.Meta.RunID,
		Tests:    output.Meta.TotalTests,
		Failures: output.Meta.FailedTests,
		Skipped:  output.Meta.SkippedTests,
		Time:     output.Meta.DurationSeconds,
	}

	for _, suite := range output.Suites {
		if suite.Attributed {
			doc.Suites = append(doc.Suites, codeunitSuites(suite)...)
		} else {
			doc.Suites = append(doc.Suites, countsSuite(suite))
		}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write junit header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode junit: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write junit: %w", err)
	}
	return nil
}

// WriteJUnitFile writes the JUnit report to path, creating parent directories.
func WriteJUnitFile(path string, output *domain.TestResultsOutput) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create junit dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create junit file: %w", err)
	}
	if err := WriteJUnit(f, output); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// codeunitSuites groups outcomes by codeunit, keeping first-seen order.
func codeunitSuites(suite domain.SuiteResult) []junitTestSuite {
	var suites []junitTestSuite
	index := map[string]int{}

	for _, o := range suite.Report.Outcomes {
		key := fmt.Sprintf("%d/%s", o.CodeunitID, o.CodeunitName)
		i, ok := index[key]
		if !ok {
			name := o.CodeunitName
			if name == "" {
				name = suite.Suite
			}
			suites = append(suites, junitTestSuite{
				Name:    name,
				ID:      o.CodeunitID,
				Package: suite.Suite,
			})
			i = len(suites) - 1
			index[key] = i
		}

		s := &suites[i]
		tc := junitTestCase{
			Classname: s.Name,
			Name:      o.FunctionName,
			Time:      o.DurationSeconds,
		}
		switch o.Status {
		case domain.StatusFailed:
			s.Failures++
			tc.Failure = &junitFailure{Message: o.ErrorText, Type: "Failure", Text: o.ErrorText}
		case domain.StatusSkipped:
			s.Skipped++
			tc.Skipped = &junitSkipped{}
		}
		s.Tests++
		s.Time += o.DurationSeconds
		s.TestCases = append(s.TestCases, tc)
	}

	if len(suites) == 0 && suite.ExecError != "" {
		suites = append(suites, junitTestSuite{Name: suite.Suite, Errors: 1, SystemErr: suite.ExecError})
	}
	return suites
}

func countsSuite(suite domain.SuiteResult) junitTestSuite {
	s := junitTestSuite{
		Name:     suite.Suite,
		Tests:    suite.Counts.Total(),
		Failures: suite.Counts.Failed,
		Skipped:  suite.Counts.Skipped,
		Time:     suite.Report.DurationSeconds,
		Properties: []junitProperty{
			{Name: "bctp.attribution", Value: "counts-only"},
		},
		SystemErr: suite.ExecError,
	}
	if suite.Container != "" {
		s.Properties = append(s.Properties, junitProperty{Name: "bctp.container", Value: suite.Container})
	}
	return s
}
