package execution

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"
	"github.com/sirupsen/logrus"

	"bctp/internal/config"
	"bctp/internal/domain"
)

// Runner executes the configured test command for a single suite
type Runner struct {
	config *config.Config
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{config: cfg}
}

// Command expands the test command template for a suite and container
// and splits it into program and arguments.
func (r *Runner) Command(suite, container string) ([]string, error) {
	replacer := strings.NewReplacer(
		"{container}", container,
		"{suite}", suite,
		"{company}", r.config.Company,
	)
	args, err := shellwords.Parse(replacer.Replace(r.config.TestCommand))
	if err != nil {
		return nil, fmt.Errorf("parse test command: %w", err)
	}
	if len(args) == 0 {
		return nil, errors.New("test command is empty")
	}
	return args, nil
}

// Run executes the test engine for one suite and captures its combined output
func (r *Runner) Run(ctx context.Context, suite string, workerID int) domain.SuiteRun {
	container := r.config.GetContainerName(workerID)
	run := domain.SuiteRun{
		Suite:     suite,
		Container: container,
		WorkerID:  workerID,
	}

	args, err := r.Command(suite, container)
	if err != nil {
		run.Error = err
		return run
	}

	log := logrus.WithFields(logrus.Fields{"suite": suite, "container": container, "worker": workerID})
	log.WithField("command", strings.Join(args, " ")).Debug("Running test suite")

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	// Set environment variables
	cmd.Env = os.Environ() // Start with current environment
	cmd.Env = append(cmd.Env,
		fmt.Sprintf("BCTP_CONTAINER=%s", container),
		fmt.Sprintf("BCTP_SUITE=%s", suite),
	)

	// Set working directory
	cmd.Dir = r.config.ProjectPath

	start := time.Now()
	output, err := cmd.CombinedOutput()
	run.Duration = time.Since(start)
	run.Transcript = string(output)
	if err != nil {
		run.Error = fmt.Errorf("suite %s in %s: %w", suite, container, err)
		log.WithError(err).Debug("Test command exited with error")
	}

	return run
}
