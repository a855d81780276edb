package commands

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"bctp/internal/cli"
	"bctp/internal/config"
	"bctp/internal/discovery"
	"bctp/internal/execution"
	"bctp/internal/migration"
	"bctp/internal/parser"
	"bctp/internal/storage"
	"bctp/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	Run     *RunCommand
	Parse   *ParseCommand
	List    *ListCommand
	Migrate *MigrateCommand
	Faills  *FaillsCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	// Initialize dependencies
	scanner := discovery.NewScanner(cfg.PathsToIgnore)
	filter := discovery.NewFilter()
	alParser := discovery.NewParser()
	runner := execution.NewRunner(cfg)
	scheduler := execution.NewRoundRobinScheduler()
	bcParser := parser.NewBCTestParser()
	executor := execution.NewWorkerPool(cfg, runner, scheduler, bcParser)
	jsonStorage := storage.NewJSONStorage(cfg)
	results := resultsStorage(cfg, jsonStorage)
	formatter := ui.NewFormatter(cfg)
	errorViewer := ui.NewErrorViewer(cfg, jsonStorage)
	reporter := NewReporter(cfg, results, formatter, errorViewer)
	migrator := migration.NewSchemaMigrator(migration.NewDatabaseManager(cfg))

	return &Commands{
		Run:     NewRunCommand(cfg, executor, bcParser, reporter),
		Parse:   NewParseCommand(cfg, bcParser, reporter),
		List:    NewListCommand(cfg, scanner, alParser, filter, formatter, jsonStorage),
		Migrate: NewMigrateCommand(cfg, migrator),
		Faills:  NewFaillsCommand(cfg, jsonStorage, errorViewer),
	}
}

// resultsStorage adds the MySQL history store when a results DSN is configured.
func resultsStorage(cfg *config.Config, primary storage.Storage) storage.Storage {
	if cfg.ResultsDSN == "" {
		return primary
	}
	db, err := storage.NewMySQLStorage(cfg.ResultsDSN, cfg.ResultsDatabase)
	if err != nil {
		logrus.WithError(err).Warn("Results database disabled")
		return primary
	}
	return storage.NewMulti(primary, db)
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if flags.Verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	}

	applyFlags := func(cmd *cobra.Command, args []string) error {
		// Update config with flags after parsing
		cfg.Apply(flags.ToConfigFlags())
		return nil
	}

	// Run command
	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Run test suites in BC containers",
		Long:    "Execute test suites through the configured test command, parse the detailed output and report results",
		Args:    cobra.NoArgs,
		RunE:    c.Run.Execute,
		PreRunE: applyFlags,
	}
	runCmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, "Number of suites to run in parallel (capped at the number of containers)")
	runCmd.Flags().StringSliceVarP(&flags.Suites, "suite", "s", nil, "Test suite to run (repeatable, default from BCTP_SUITES)")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop starting new suites after the first failure")
	runCmd.Flags().StringVar(&flags.JUnitPath, "junit", "", "Write a JUnit XML report to this path")
	runCmd.Flags().BoolVar(&flags.OpenFaills, "open-faills", false, "Open the faills viewer when the run finishes with failures")
	rootCmd.AddCommand(runCmd)

	// Parse command
	parseCmd := &cobra.Command{
		Use:     "parse [FILE|-]...",
		Short:   "Parse captured test transcripts",
		Long:    "Parse transcripts captured from Run-TestsInBcContainer -detailed and report results. Reads stdin when no file or - is given.",
		RunE:    c.Parse.Execute,
		PreRunE: applyFlags,
	}
	parseCmd.Flags().Float64VarP(&flags.Duration, "duration", "d", 0, "Measured wall-clock duration of the run in seconds")
	parseCmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, "Number of transcripts to parse in parallel")
	parseCmd.Flags().StringVar(&flags.JUnitPath, "junit", "", "Write a JUnit XML report to this path")
	parseCmd.Flags().BoolVar(&flags.OpenFaills, "open-faills", false, "Open the faills viewer when the transcripts contain failures")
	rootCmd.AddCommand(parseCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List test codeunits",
		Long:    "Scan AL sources and list test codeunits and their test functions, marking failures from the last run",
		Args:    cobra.NoArgs,
		RunE:    c.List.Execute,
		PreRunE: applyFlags,
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter codeunits by name pattern (supports wildcards, e.g., '*Posting*')")
	listCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test detection should start")
	rootCmd.AddCommand(listCmd)

	// Migrate command
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the results database",
		Long:  "Create the MySQL results database and tables used when BCTP_RESULTS_DSN is set",
		Args:  cobra.NoArgs,
		RunE:  c.Migrate.Execute,
	}
	rootCmd.AddCommand(migrateCmd)

	// Faills command
	faillsCmd := &cobra.Command{
		Use:   "faills",
		Short: "View test failures interactively",
		Long:  "Display test failures from the last test run in an interactive viewer",
		Args:  cobra.NoArgs,
		RunE:  c.Faills.Execute,
	}
	rootCmd.AddCommand(faillsCmd)
}
