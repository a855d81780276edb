package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"

	"bctp/internal/config"
	"bctp/internal/domain"
)

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	white  = color.New(color.FgWhite)
)

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	out    io.Writer
}

// NewFormatter creates a new Formatter writing to stdout
func NewFormatter(cfg *config.Config) *Formatter {
	return NewFormatterTo(cfg, os.Stdout)
}

// NewFormatterTo creates a new Formatter writing to w
func NewFormatterTo(cfg *config.Config, w io.Writer) *Formatter {
	return &Formatter{
		config: cfg,
		out:    w,
	}
}

// PrintMetaStats displays the statistics table and the failed tests of a run
func (f *Formatter) PrintMetaStats(output *domain.TestResultsOutput) error {
	meta := output.Meta

	// Print header
	fmt.Fprint(f.out, "\n")
	cyan.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(f.out, "║                    Test Execution Statistics                  ║")
	cyan.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(f.out)

	// Print table
	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	rows := []struct {
		label string
		value string
		c     *color.Color
	}{
		{"Suites", fmt.Sprint(meta.TotalSuites), white},
		{"Failed Suites", fmt.Sprint(meta.FailedSuites), red},
		{"Total Tests", fmt.Sprint(meta.TotalTests), white},
		{"Passed Tests", fmt.Sprint(meta.PassedTests), green},
		{"Failed Tests", fmt.Sprint(meta.FailedTests), red},
		{"Skipped Tests", fmt.Sprint(meta.SkippedTests), yellow},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds), white},
		{"Workers", fmt.Sprint(meta.Workers), white},
		{"Timestamp", meta.Timestamp, white},
	}
	for i, row := range rows {
		fmt.Fprintf(f.out, "│ %-31s │ ", row.label)
		row.c.Fprintf(f.out, "%-27s", row.value)
		fmt.Fprint(f.out, " │\n")
		if i < len(rows)-1 {
			fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
		}
	}
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	for _, suite := range output.Suites {
		if !suite.Attributed {
			yellow.Fprintf(f.out, "! Suite %s: per-test detail unavailable, counted %d test(s) from loose matches\n", suite.Suite, suite.Counts.Total())
		}
		if suite.ExecError != "" {
			red.Fprintf(f.out, "! Suite %s: %s\n", suite.Suite, suite.ExecError)
		}
	}

	// Print summary line
	fmt.Fprintln(f.out)
	switch {
	case meta.TotalTests == 0:
		yellow.Fprintln(f.out, "No tests found in the captured output")
	case meta.FailedTests == 0 && meta.FailedSuites == 0:
		green.Fprintln(f.out, "✓ All tests passed!")
	default:
		red.Fprintf(f.out, "✗ %d test(s) failed in %d suite(s)\n", meta.FailedTests, meta.FailedSuites)
		fmt.Fprintln(f.out)
		f.printFailedTestsTree(output.Details)
	}

	return nil
}

// TreeNode represents a node in the suite/codeunit tree
type TreeNode struct {
	Name     string
	Children map[string]*TreeNode
	Failures []domain.TestFailure
	IsLeaf   bool
}

// printFailedTestsTree prints failures grouped by suite and codeunit
func (f *Formatter) printFailedTestsTree(failures []domain.TestFailure) {
	if len(failures) == 0 {
		return
	}

	root := &TreeNode{Children: make(map[string]*TreeNode)}

	for _, failure := range failures {
		suite := root.child(failure.Suite, false)
		codeunit := suite.child(codeunitLabel(failure.CodeunitID, failure.CodeunitName), true)
		codeunit.Failures = append(codeunit.Failures, failure)
	}

	f.printTreeNode(root, "")
}

func (n *TreeNode) child(name string, leaf bool) *TreeNode {
	if name == "" {
		name = "(unknown)"
	}
	c, ok := n.Children[name]
	if !ok {
		c = &TreeNode{Name: name, Children: make(map[string]*TreeNode), IsLeaf: leaf}
		n.Children[name] = c
	}
	return c
}

func (f *Formatter) printTreeNode(node *TreeNode, prefix string) {
	// Sort children for consistent output
	keys := make([]string, 0, len(node.Children))
	for key := range node.Children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for i, key := range keys {
		child := node.Children[key]
		last := i == len(keys)-1

		connector, nextPrefix := "├── ", prefix+"│   "
		if last {
			connector, nextPrefix = "└── ", prefix+"    "
		}

		if child.IsLeaf {
			yellow.Fprintf(f.out, "%s%s%s\n", prefix, connector, child.Name)
			for j, failure := range child.Failures {
				caseConnector := "├── "
				if j == len(child.Failures)-1 {
					caseConnector = "└── "
				}
				red.Fprintf(f.out, "%s%s%s\n", nextPrefix, caseConnector, failure.FunctionName)
			}
			continue
		}

		cyan.Fprintf(f.out, "%s%s%s\n", prefix, connector, child.Name)
		f.printTreeNode(child, nextPrefix)
	}
}

func codeunitLabel(id int, name string) string {
	switch {
	case id == 0 && name == "":
		return ""
	case id == 0:
		return name
	default:
		return fmt.Sprintf("%d %s", id, name)
	}
}

// FailureKey identifies a test function across runs
func FailureKey(codeunitID int, function string) string {
	return fmt.Sprintf("%d/%s", codeunitID, strings.ToLower(function))
}

// PrintTestList prints discovered test codeunits with their test functions.
// failed is optional; functions in this set (see FailureKey) are marked with [F] from the last run.
func (f *Formatter) PrintTestList(codeunits []domain.TestCodeunit, failed map[string]struct{}) error {
	total := 0
	for _, cu := range codeunits {
		total += len(cu.Functions)
	}
	green.Fprintf(f.out, "Found %d test codeunit(s) with %d test function(s):\n\n", len(codeunits), total)

	for i, cu := range codeunits {
		// Get relative path for cleaner display
		relPath, err := filepath.Rel(f.config.ProjectPath, cu.FilePath)
		if err != nil {
			relPath = cu.FilePath
		}

		isLastCodeunit := i == len(codeunits)-1
		connector, childPrefix := "├── ", "│   "
		if isLastCodeunit {
			connector, childPrefix = "└── ", "    "
		}
		cyan.Fprintf(f.out, "%s%d %s", connector, cu.ID, cu.Name)
		fmt.Fprintf(f.out, " (%s)\n", relPath)

		if len(cu.Functions) == 0 {
			fmt.Fprintf(f.out, "%s└── %s\n", childPrefix, red.Sprint("(no test functions found)"))
		}
		for j, fn := range cu.Functions {
			fnConnector := "├── "
			if j == len(cu.Functions)-1 {
				fnConnector = "└── "
			}
			marker := ""
			if _, ok := failed[FailureKey(cu.ID, fn)]; ok {
				marker = " " + red.Sprint("[F]")
			}
			fmt.Fprintf(f.out, "%s%s%s%s\n", childPrefix, fnConnector, yellow.Sprint(fn), marker)
		}
	}

	return nil
}
