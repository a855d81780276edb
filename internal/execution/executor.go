package execution

import (
	"context"
	"time"

	"bctp/internal/domain"
)

// Executor runs test suites and returns their raw results
type Executor interface {
	Execute(ctx context.Context, suites []string) ([]domain.SuiteRun, time.Duration, error)
}
