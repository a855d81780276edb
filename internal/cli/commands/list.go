package commands

import (
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"bctp/internal/config"
	"bctp/internal/discovery"
	"bctp/internal/domain"
	"bctp/internal/storage"
	"bctp/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	scanner   *discovery.Scanner
	parser    *discovery.Parser
	filter    *discovery.Filter
	formatter *ui.Formatter
	storage   storage.Storage
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	scanner *discovery.Scanner,
	alParser *discovery.Parser,
	filter *discovery.Filter,
	formatter *ui.Formatter,
	st storage.Storage,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		scanner:   scanner,
		parser:    alParser,
		filter:    filter,
		formatter: formatter,
		storage:   st,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	codeunits, err := lc.Discover()
	if err != nil {
		return err
	}

	if len(codeunits) == 0 {
		color.Yellow("No test codeunits found")
		return nil
	}

	return lc.formatter.PrintTestList(codeunits, lc.failedInLastRun())
}

// Discover scans the test path and returns the test codeunits matching the name filter
func (lc *ListCommand) Discover() ([]domain.TestCodeunit, error) {
	files, err := lc.scanner.Scan(lc.config.GetTestPath())
	if err != nil {
		return nil, err
	}

	var codeunits []domain.TestCodeunit
	for _, file := range files {
		found, err := lc.parser.FindTestCodeunits(file)
		if err != nil {
			color.Red("Error reading %s: %v", file, err)
			continue
		}
		codeunits = append(codeunits, found...)
	}

	return lc.filter.FilterByName(codeunits, lc.config.Flags.NameFilter), nil
}

// failedInLastRun returns unresolved failures from the stored results, if any
func (lc *ListCommand) failedInLastRun() map[string]struct{} {
	results, err := lc.storage.Load()
	if err != nil {
		logrus.WithError(err).Debug("No previous results to mark failures")
		return nil
	}

	failed := make(map[string]struct{})
	for _, f := range results.Details {
		if !f.Resolved {
			failed[ui.FailureKey(f.CodeunitID, f.FunctionName)] = struct{}{}
		}
	}
	return failed
}
