package discovery

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"bctp/internal/domain"
)

// Parser extracts test codeunits from AL source files
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

var (
	// codeunit 50100 "Sales Posting Tests"  or  codeunit 50100 SalesPostingTests
	codeunitDeclPattern = regexp.MustCompile(`(?im)^\s*codeunit\s+(\d+)\s+("([^"]+)"|[A-Za-z_]\w*)`)
	testSubtypePattern  = regexp.MustCompile(`(?i)\bSubtype\s*=\s*Test\s*;`)
	// [Test] attribute followed (possibly after other attributes) by a procedure
	testProcedurePattern = regexp.MustCompile(`(?is)\[\s*Test\s*\]\s*(?:\[[^\]]*\]\s*)*(?:local\s+|internal\s+)?procedure\s+("([^"]+)"|[A-Za-z_]\w*)\s*\(`)
)

// FindTestCodeunits returns the test codeunits declared in an AL file.
// Codeunits without Subtype = Test are ignored.
func (p *Parser) FindTestCodeunits(filePath string) ([]domain.TestCodeunit, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filePath, err)
	}

	return p.parseSource(filePath, string(content)), nil
}

func (p *Parser) parseSource(filePath, source string) []domain.TestCodeunit {
	var codeunits []domain.TestCodeunit

	decls := codeunitDeclPattern.FindAllStringSubmatchIndex(source, -1)
	for i, loc := range decls {
		end := len(source)
		if i+1 < len(decls) {
			end = decls[i+1][0]
		}
		body := source[loc[1]:end]
		if !testSubtypePattern.MatchString(body) {
			continue
		}

		id, _ := strconv.Atoi(source[loc[2]:loc[3]])
		cu := domain.TestCodeunit{
			ID:       id,
			Name:     unquote(source[loc[4]:loc[5]]),
			FilePath: filePath,
		}
		for _, m := range testProcedurePattern.FindAllStringSubmatch(body, -1) {
			cu.Functions = append(cu.Functions, unquote(m[1]))
		}
		codeunits = append(codeunits, cu)
	}

	return codeunits
}

func unquote(name string) string {
	return strings.Trim(name, `"`)
}
