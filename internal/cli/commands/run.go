package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bctp/internal/config"
	"bctp/internal/domain"
	"bctp/internal/execution"
	"bctp/internal/parser"
	"bctp/internal/storage"
	"bctp/internal/ui"
)

// RunCommand handles the run command
type RunCommand struct {
	config   *config.Config
	executor *execution.WorkerPool
	parser   *parser.BCTestParser
	reporter *Reporter
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	executor *execution.WorkerPool,
	bcParser *parser.BCTestParser,
	reporter *Reporter,
) *RunCommand {
	return &RunCommand{
		config:   cfg,
		executor: executor,
		parser:   bcParser,
		reporter: reporter,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	suites := rc.config.Suites
	if len(suites) == 0 {
		color.Yellow("No test suites to execute")
		return nil
	}

	color.White("Running %d suite(s) on %d container(s)\n", len(suites), rc.config.WorkerCount())

	// Create and set progress bar
	rc.executor.SetProgress(ui.NewProgressBar(len(suites)))

	runs, duration, err := rc.executor.ExecuteWithOptions(cmd.Context(), suites, rc.config.Flags.FailFast)
	if err != nil {
		return err
	}

	results := make([]domain.SuiteResult, 0, len(runs))
	for _, run := range runs {
		results = append(results, toSuiteResult(rc.parser, run))
	}

	return rc.reporter.Report(storage.BuildOutput(results, duration, rc.config.WorkerCount()))
}
