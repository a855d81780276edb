package migration

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"bctp/internal/domain"
	"bctp/internal/storage"
)

// Step is one schema statement
type Step struct {
	Table string
	DDL   string
}

// Steps creates the tables written by storage.MySQLStorage
var Steps = []Step{
	{
		Table: storage.RunsTable,
		DDL: "CREATE TABLE IF NOT EXISTS " + storage.RunsTable + ` (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	run_id CHAR(36) NOT NULL UNIQUE,
	started_at DATETIME NOT NULL,
	duration_seconds DOUBLE NOT NULL,
	workers INT NOT NULL,
	total_tests INT NOT NULL,
	passed_tests INT NOT NULL,
	failed_tests INT NOT NULL,
	skipped_tests INT NOT NULL
)`,
	},
	{
		Table: storage.SuitesTable,
		DDL: "CREATE TABLE IF NOT EXISTS " + storage.SuitesTable + ` (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	run_id CHAR(36) NOT NULL,
	suite VARCHAR(250) NOT NULL,
	container VARCHAR(250) NOT NULL,
	attributed BOOLEAN NOT NULL,
	duration_seconds DOUBLE NOT NULL,
	passed INT NOT NULL,
	failed INT NOT NULL,
	skipped INT NOT NULL,
	exec_error TEXT NOT NULL,
	INDEX idx_suites_run (run_id)
)`,
	},
	{
		Table: storage.OutcomesTable,
		DDL: "CREATE TABLE IF NOT EXISTS " + storage.OutcomesTable + ` (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	run_id CHAR(36) NOT NULL,
	suite VARCHAR(250) NOT NULL,
	seq INT NOT NULL,
	codeunit_id INT NOT NULL,
	codeunit_name VARCHAR(250) NOT NULL,
	function_name VARCHAR(250) NOT NULL,
	status VARCHAR(16) NOT NULL,
	duration_seconds DOUBLE NOT NULL,
	error_text TEXT NOT NULL,
	INDEX idx_outcomes_run (run_id, suite, seq),
	INDEX idx_outcomes_function (codeunit_id, function_name)
)`,
	},
}

var _ Migrator = (*SchemaMigrator)(nil)

// SchemaMigrator creates the results database and its tables
type SchemaMigrator struct {
	databaseManager *DatabaseManager
	steps           []Step
}

// NewSchemaMigrator creates a new SchemaMigrator
func NewSchemaMigrator(dbManager *DatabaseManager) *SchemaMigrator {
	return &SchemaMigrator{
		databaseManager: dbManager,
		steps:           Steps,
	}
}

// Run applies every schema step, reporting progress on stderr
func (sm *SchemaMigrator) Run(ctx context.Context) error {
	color.Cyan("\n╔════════════════════════════════════════════════════════════╗")
	color.Cyan("║               Preparing Results Database                   ║")
	color.Cyan("╚════════════════════════════════════════════════════════════╝\n")

	db, created, err := sm.databaseManager.CheckAndCreateDatabase(ctx)
	if err != nil {
		return fmt.Errorf("failed to check database: %w", err)
	}
	defer db.Close()

	if created {
		color.White("Created results database\n")
	}

	bar := progressbar.NewOptions(len(sm.steps),
		progressbar.OptionSetDescription(color.CyanString("Migrating: ")+color.GreenString("[completed: 0/%d]", len(sm.steps))),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	startTime := time.Now()
	var failed []domain.MigrationResult
	for i, step := range sm.steps {
		result := domain.MigrationResult{Step: i + 1, Table: step.Table, Success: true}
		if _, err := db.ExecContext(ctx, step.DDL); err != nil {
			result.Success = false
			result.Error = err
			failed = append(failed, result)
		}
		bar.Set(i + 1)
		bar.Describe(color.CyanString("Migrating: ") + color.GreenString("[completed: %d/%d]", i+1, len(sm.steps)))
	}
	bar.Finish()

	fmt.Print("\n")
	if len(failed) > 0 {
		color.Red("✗ Migration failed for %d table(s)\n", len(failed))
		for _, result := range failed {
			color.Red("  Step %d (%s): %v\n", result.Step, result.Table, result.Error)
		}
		return fmt.Errorf("migration failed for %d table(s)", len(failed))
	}

	color.Green("✓ Results schema ready (%d tables)\n", len(sm.steps))
	color.White("Duration: %s\n", time.Since(startTime).Round(time.Millisecond))
	return nil
}
