package domain

// Status is the outcome of a single test function
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// StatusFromEngine maps the test engine's status word (Success, Failure, Skipped)
// to a Status. Unknown words map to the empty Status.
func StatusFromEngine(word string) Status {
	switch word {
	case "Success":
		return StatusPassed
	case "Failure":
		return StatusFailed
	case "Skipped":
		return StatusSkipped
	}
	return ""
}

// TestOutcome is the result of one executed test function
type TestOutcome struct {
	CodeunitName    string  `json:"codeunit_name"`
	CodeunitID      int     `json:"codeunit_id"`
	FunctionName    string  `json:"function_name"`
	Status          Status  `json:"status"`
	DurationSeconds float64 `json:"duration_seconds"`
	ErrorText       string  `json:"error_text,omitempty"`
}
