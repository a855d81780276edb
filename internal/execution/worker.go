package execution

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"bctp/internal/config"
	"bctp/internal/domain"
	"bctp/internal/parser"
	"bctp/internal/ui"
)

// SuiteRunner runs one suite on behalf of a worker
type SuiteRunner interface {
	Run(ctx context.Context, suite string, workerID int) domain.SuiteRun
}

var _ Executor = (*WorkerPool)(nil)

// WorkerPool runs suites in parallel, one worker per container
type WorkerPool struct {
	config    *config.Config
	runner    SuiteRunner
	scheduler Scheduler
	progress  *ui.ProgressBar
	parser    *parser.BCTestParser
}

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(cfg *config.Config, runner SuiteRunner, scheduler Scheduler, bcParser *parser.BCTestParser) *WorkerPool {
	return &WorkerPool{
		config:    cfg,
		runner:    runner,
		scheduler: scheduler,
		parser:    bcParser,
	}
}

// SetProgress sets the progress bar for the worker pool
func (wp *WorkerPool) SetProgress(progress *ui.ProgressBar) {
	wp.progress = progress
}

// Execute runs all suites (no fail-fast).
func (wp *WorkerPool) Execute(ctx context.Context, suites []string) ([]domain.SuiteRun, time.Duration, error) {
	return wp.ExecuteWithOptions(ctx, suites, false)
}

// ExecuteWithOptions runs suites with optional fail-fast: once a suite reports a
// failure, suites not yet started are skipped while suites in flight complete.
// Results keep the input suite order.
func (wp *WorkerPool) ExecuteWithOptions(ctx context.Context, suites []string, failFast bool) ([]domain.SuiteRun, time.Duration, error) {
	if len(suites) == 0 {
		return nil, 0, nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	workerCount := wp.config.WorkerCount()
	if workerCount > len(suites) {
		workerCount = len(suites)
	}
	distribution := wp.scheduler.Schedule(suites, workerCount)

	order := make(map[string][]int, len(suites))
	for i, suite := range suites {
		order[suite] = append(order[suite], i)
	}

	var mu sync.Mutex
	var completed, passedCases, failedCases int
	slots := make([]*domain.SuiteRun, len(suites))
	startTime := time.Now()

	var wg sync.WaitGroup
	for i, assigned := range distribution {
		wg.Add(1)
		go func(workerID int, assigned []string) {
			defer wg.Done()
			for _, suite := range assigned {
				if runCtx.Err() != nil {
					return
				}

				run := wp.runner.Run(ctx, suite, workerID)
				totals := wp.totals(run)

				mu.Lock()
				idx := order[suite][0]
				order[suite] = order[suite][1:]
				slots[idx] = &run
				completed++
				passedCases += totals.Passed
				failedCases += totals.Failed
				if wp.progress != nil {
					wp.progress.Update(completed, passedCases, failedCases)
				}
				if failFast && (totals.Failed > 0 || run.Error != nil) {
					logrus.WithField("suite", suite).Debug("Failure seen, stopping remaining suites")
					cancel()
				}
				mu.Unlock()
			}
		}(i+1, assigned)
	}
	wg.Wait()

	if wp.progress != nil {
		wp.progress.Finish()
	}

	runs := make([]domain.SuiteRun, 0, len(suites))
	for _, run := range slots {
		if run != nil {
			runs = append(runs, *run)
		}
	}

	// Cancellation by the caller is an error; cancellation by fail-fast is not.
	if err := ctx.Err(); err != nil {
		return runs, time.Since(startTime), err
	}
	return runs, time.Since(startTime), nil
}

func (wp *WorkerPool) totals(run domain.SuiteRun) domain.StatusCounts {
	if wp.parser == nil {
		if run.Error != nil {
			return domain.StatusCounts{Failed: 1}
		}
		return domain.StatusCounts{Passed: 1}
	}
	return wp.parser.Analyze(run.Transcript, run.Duration.Seconds()).Totals()
}
