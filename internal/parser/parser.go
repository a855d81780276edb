package parser

import "bctp/internal/domain"

// Parser turns a captured test-engine transcript into a structured report
type Parser interface {
	Parse(transcript string) domain.TestRunReport
	ParseCounts(transcript string) domain.StatusCounts
}
