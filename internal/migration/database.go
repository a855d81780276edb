package migration

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/go-sql-driver/mysql"

	"bctp/internal/config"
)

// DatabaseManager manages the results database
type DatabaseManager struct {
	config *config.Config
}

// NewDatabaseManager creates a new DatabaseManager
func NewDatabaseManager(cfg *config.Config) *DatabaseManager {
	return &DatabaseManager{config: cfg}
}

// DatabaseName returns the results database name, preferring BCTP_RESULTS_DATABASE
// over the database in the DSN.
func (dm *DatabaseManager) DatabaseName() (string, error) {
	if dm.config.ResultsDatabase != "" {
		return dm.config.ResultsDatabase, nil
	}
	cfg, err := mysql.ParseDSN(dm.config.ResultsDSN)
	if err != nil {
		return "", fmt.Errorf("invalid results DSN: %w", err)
	}
	return cfg.DBName, nil
}

// serverDSN returns the configured DSN with the database name removed
// (and, when database is not empty, set to it).
func (dm *DatabaseManager) serverDSN(database string) (string, error) {
	if dm.config.ResultsDSN == "" {
		return "", fmt.Errorf("%s is not set", config.EnvResultsDSN)
	}
	cfg, err := mysql.ParseDSN(dm.config.ResultsDSN)
	if err != nil {
		return "", fmt.Errorf("invalid results DSN: %w", err)
	}
	cfg.DBName = database
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// CheckAndCreateDatabase creates the results database if it doesn't exist
// and returns a connection to it.
func (dm *DatabaseManager) CheckAndCreateDatabase(ctx context.Context) (*sql.DB, bool, error) {
	dbName, err := dm.DatabaseName()
	if err != nil {
		return nil, false, err
	}
	if !isValidDatabaseName(dbName) {
		return nil, false, fmt.Errorf("invalid database name: %q", dbName)
	}

	dsn, err := dm.serverDSN("")
	if err != nil {
		return nil, false, err
	}

	// Connect to MySQL server (without specifying database)
	server, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, false, fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer server.Close()

	if err := server.PingContext(ctx); err != nil {
		return nil, false, fmt.Errorf("failed to ping database server: %w", err)
	}

	exists, err := databaseExists(ctx, server, dbName)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check database %s: %w", dbName, err)
	}

	created := false
	if !exists {
		if _, err := server.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", dbName)); err != nil {
			return nil, false, fmt.Errorf("failed to create database %s: %w", dbName, err)
		}
		created = true
	}

	dsn, err = dm.serverDSN(dbName)
	if err != nil {
		return nil, false, err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open database %s: %w", dbName, err)
	}
	return db, created, nil
}

func databaseExists(ctx context.Context, db *sql.DB, dbName string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?)"
	err := db.QueryRowContext(ctx, query, dbName).Scan(&exists)
	return exists, err
}

var databaseNamePattern = regexp.MustCompile(`^[A-Za-z0-9_$]{1,64}$`)

// isValidDatabaseName only allows unquoted MySQL identifier characters
func isValidDatabaseName(name string) bool {
	return databaseNamePattern.MatchString(name)
}
