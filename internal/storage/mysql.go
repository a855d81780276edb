package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"bctp/internal/domain"
)

// Tables written by MySQLStorage. The migrate command creates them.
const (
	RunsTable     = "bctp_runs"
	SuitesTable   = "bctp_suites"
	OutcomesTable = "bctp_outcomes"
)

// MySQLStorage keeps a history of runs in a MySQL results database.
type MySQLStorage struct {
	dsn string
}

// NewMySQLStorage returns a storage for the given DSN (go-sql-driver format).
// database overrides the DSN's database name when set.
func NewMySQLStorage(dsn, database string) (*MySQLStorage, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid results DSN: %w", err)
	}
	if database != "" {
		cfg.DBName = database
	}
	if cfg.DBName == "" {
		return nil, fmt.Errorf("results DSN has no database name")
	}
	cfg.ParseTime = true
	return &MySQLStorage{dsn: cfg.FormatDSN()}, nil
}

func (s *MySQLStorage) open() (*sql.DB, error) {
	db, err := sql.Open("mysql", s.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to results database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping results database: %w", err)
	}
	return db, nil
}

// Save inserts the run, its suites and every outcome in one transaction.
func (s *MySQLStorage) Save(output *domain.TestResultsOutput) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	m := output.Meta
	ts, err := time.Parse(time.RFC3339, m.Timestamp)
	if err != nil {
		ts = time.Now()
	}

	if _, err := tx.Exec(
		"INSERT INTO "+RunsTable+" (run_id, started_at, duration_seconds, workers, total_tests, passed_tests, failed_tests, skipped_tests) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		m.RunID, ts.UTC(), m.DurationSeconds, m.Workers, m.TotalTests, m.PassedTests, m.FailedTests, m.SkippedTests,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, suite := range output.Suites {
		totals := suite.Totals()
		if _, err := tx.Exec(
			"INSERT INTO "+SuitesTable+" (run_id, suite, container, attributed, duration_seconds, passed, failed, skipped, exec_error) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			m.RunID, suite.Suite, suite.Container, suite.Attributed, suite.Report.DurationSeconds, totals.Passed, totals.Failed, totals.Skipped, suite.ExecError,
		); err != nil {
			return fmt.Errorf("insert suite %s: %w", suite.Suite, err)
		}

		for i, o := range suite.Report.Outcomes {
			if _, err := tx.Exec(
				"INSERT INTO "+OutcomesTable+" (run_id, suite, seq, codeunit_id, codeunit_name, function_name, status, duration_seconds, error_text) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
				m.RunID, suite.Suite, i, o.CodeunitID, o.CodeunitName, o.FunctionName, string(o.Status), o.DurationSeconds, o.ErrorText,
			); err != nil {
				return fmt.Errorf("insert outcome %s: %w", o.FunctionName, err)
			}
		}
	}

	return tx.Commit()
}

// Load rebuilds the most recent run from the database.
func (s *MySQLStorage) Load() (*domain.TestResultsOutput, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var runID string
	var startedAt time.Time
	var durationSeconds float64
	var workers int
	err = db.QueryRow("SELECT run_id, started_at, duration_seconds, workers FROM " + RunsTable + " ORDER BY started_at DESC, id DESC LIMIT 1").
		Scan(&runID, &startedAt, &durationSeconds, &workers)
	if err != nil {
		return nil, fmt.Errorf("query latest run: %w", err)
	}

	suiteRows, err := db.Query("SELECT suite, container, attributed, duration_seconds, passed, failed, skipped, exec_error FROM "+SuitesTable+" WHERE run_id = ? ORDER BY id", runID)
	if err != nil {
		return nil, fmt.Errorf("query suites: %w", err)
	}
	defer suiteRows.Close()

	var results []domain.SuiteResult
	for suiteRows.Next() {
		var r domain.SuiteResult
		var duration float64
		if err := suiteRows.Scan(&r.Suite, &r.Container, &r.Attributed, &duration, &r.Counts.Passed, &r.Counts.Failed, &r.Counts.Skipped, &r.ExecError); err != nil {
			return nil, fmt.Errorf("scan suite: %w", err)
		}
		r.Report = domain.NewTestRunReport(nil, duration)
		results = append(results, r)
	}
	if err := suiteRows.Err(); err != nil {
		return nil, fmt.Errorf("read suites: %w", err)
	}

	for i := range results {
		if !results[i].Attributed {
			continue
		}
		outcomes, err := loadOutcomes(db, runID, results[i].Suite)
		if err != nil {
			return nil, err
		}
		results[i].Report = domain.NewTestRunReport(outcomes, results[i].Report.DurationSeconds)
		results[i].Counts = domain.StatusCounts{}
	}

	output := BuildOutput(results, time.Duration(durationSeconds*float64(time.Second)), workers)
	output.Meta.RunID = runID
	output.Meta.Timestamp = startedAt.Format(time.RFC3339)
	return output, nil
}

func loadOutcomes(db *sql.DB, runID, suite string) ([]domain.TestOutcome, error) {
	rows, err := db.Query("SELECT codeunit_id, codeunit_name, function_name, status, duration_seconds, error_text FROM "+OutcomesTable+" WHERE run_id = ? AND suite = ? ORDER BY seq", runID, suite)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []domain.TestOutcome
	for rows.Next() {
		var o domain.TestOutcome
		var status string
		if err := rows.Scan(&o.CodeunitID, &o.CodeunitName, &o.FunctionName, &status, &o.DurationSeconds, &o.ErrorText); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.Status = domain.Status(status)
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
