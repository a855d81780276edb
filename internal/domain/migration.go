package domain

// MigrationResult represents the result of applying one schema statement
type MigrationResult struct {
	Step    int
	Table   string
	Success bool
	Error   error
}
