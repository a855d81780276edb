package parser

import (
	"strconv"
	"strings"

	"bctp/internal/domain"
)

var _ Parser = (*BCTestParser)(nil)

// BCTestParser parses detailed Business Central test-runner output
type BCTestParser struct {
	patterns Patterns
}

// NewBCTestParser creates a parser using the default patterns
func NewBCTestParser() *BCTestParser {
	return NewBCTestParserWithPatterns(DefaultPatterns())
}

// NewBCTestParserWithPatterns creates a parser with custom patterns
func NewBCTestParserWithPatterns(p Patterns) *BCTestParser {
	return &BCTestParser{patterns: p}
}

// scanState is local to one Parse call so concurrent calls share nothing.
type scanState struct {
	codeunitName   string
	codeunitID     int
	inErrorCapture bool
	errorLines     []string
	outcomes       []domain.TestOutcome
}

// finishError attaches the captured error text to the last outcome and
// leaves error capture. Text is dropped when there is no failed outcome to hold it.
func (s *scanState) finishError() {
	if s.inErrorCapture && len(s.outcomes) > 0 {
		last := &s.outcomes[len(s.outcomes)-1]
		if last.Status == domain.StatusFailed {
			last.ErrorText = strings.TrimSpace(strings.Join(s.errorLines, " "))
		}
	}
	s.inErrorCapture = false
	s.errorLines = s.errorLines[:0]
}

// Parse extracts per-test outcomes from a transcript. It never fails:
// unrecognised lines are ignored and an empty transcript yields an empty report.
// The returned report has DurationSeconds 0; use WithDuration to attach the
// caller-measured run time.
func (p *BCTestParser) Parse(transcript string) domain.TestRunReport {
	s := &scanState{}

	for _, line := range strings.Split(transcript, "\n") {
		line = strings.TrimRight(line, "\r")

		if m := p.patterns.CodeunitHeader.FindStringSubmatch(line); m != nil {
			s.finishError()
			s.codeunitID = parseID(m[1])
			s.codeunitName = strings.TrimSpace(m[2])
			continue
		}

		if m := p.patterns.TestFunction.FindStringSubmatch(line); m != nil {
			s.finishError()
			s.outcomes = append(s.outcomes, domain.TestOutcome{
				CodeunitName:    s.codeunitName,
				CodeunitID:      s.codeunitID,
				FunctionName:    strings.TrimSpace(m[1]),
				Status:          domain.StatusFromEngine(m[2]),
				DurationSeconds: parseSeconds(m[3]),
			})
			continue
		}

		if m := p.patterns.ErrorMarker.FindStringSubmatch(line); m != nil {
			s.inErrorCapture = true
			s.errorLines = s.errorLines[:0]
			if rest := strings.TrimSpace(m[1]); rest != "" {
				s.errorLines = append(s.errorLines, rest)
			}
			continue
		}

		if strings.TrimSpace(line) == "" || p.patterns.CallStack.MatchString(line) {
			if s.inErrorCapture {
				s.finishError()
			}
			continue
		}

		if s.inErrorCapture {
			s.errorLines = append(s.errorLines, strings.TrimSpace(line))
		}
	}

	// Truncated transcript: keep whatever error text was captured.
	if s.inErrorCapture {
		s.finishError()
	}

	return domain.NewTestRunReport(s.outcomes, 0)
}

// ParseCounts counts status words on loosely matched test-function lines
// without attributing them to codeunits or functions.
func (p *BCTestParser) ParseCounts(transcript string) domain.StatusCounts {
	var counts domain.StatusCounts

	for _, m := range p.patterns.LooseTestFunction.FindAllStringSubmatch(transcript, -1) {
		switch domain.StatusFromEngine(m[1]) {
		case domain.StatusPassed:
			counts.Passed++
		case domain.StatusFailed:
			counts.Failed++
		case domain.StatusSkipped:
			counts.Skipped++
		}
	}

	return counts
}

// Analyze parses a transcript into a suite result. The result is fully attributed
// unless the primary pass found no outcomes and the loose pass found some, in which
// case it carries counts only.
func (p *BCTestParser) Analyze(transcript string, durationSeconds float64) domain.SuiteResult {
	report := p.Parse(transcript).WithDuration(durationSeconds)
	if report.TotalCount == 0 {
		if counts := p.ParseCounts(transcript); counts.Total() > 0 {
			return domain.SuiteResult{
				Attributed: false,
				Report:     domain.NewTestRunReport(nil, durationSeconds),
				Counts:     counts,
			}
		}
	}

	return domain.SuiteResult{
		Attributed: true,
		Report:     report,
	}
}

func parseID(s string) int {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return id
}

// parseSeconds accepts "." or "," as decimal separator and falls back to 0.
func parseSeconds(s string) float64 {
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
