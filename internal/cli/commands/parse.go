package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"bctp/internal/config"
	"bctp/internal/domain"
	"bctp/internal/parser"
	"bctp/internal/storage"
)

// ParseCommand handles the parse command
type ParseCommand struct {
	config   *config.Config
	parser   *parser.BCTestParser
	reporter *Reporter
	stdin    io.Reader
}

// NewParseCommand creates a new ParseCommand
func NewParseCommand(cfg *config.Config, bcParser *parser.BCTestParser, reporter *Reporter) *ParseCommand {
	return &ParseCommand{
		config:   cfg,
		parser:   bcParser,
		reporter: reporter,
		stdin:    os.Stdin,
	}
}

// Execute runs the command
func (pc *ParseCommand) Execute(cmd *cobra.Command, args []string) error {
	results, err := pc.ParseFiles(args)
	if err != nil {
		return err
	}

	duration := time.Duration(pc.config.Flags.Duration * float64(time.Second))
	return pc.reporter.Report(storage.BuildOutput(results, duration, 1))
}

// ParseFiles parses each transcript into a suite result named after its file.
// "-" or no arguments read a single transcript from stdin.
func (pc *ParseCommand) ParseFiles(paths []string) ([]domain.SuiteResult, error) {
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	// The caller-measured duration belongs to the whole run; it is only
	// attached to a suite when there is exactly one transcript.
	seconds := 0.0
	if len(paths) == 1 {
		seconds = pc.config.Flags.Duration
	}

	results := make([]domain.SuiteResult, len(paths))
	var g errgroup.Group
	g.SetLimit(max(pc.config.Processors, 1))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			transcript, err := pc.read(path)
			if err != nil {
				return err
			}
			result := pc.parser.Analyze(transcript, seconds)
			result.Suite = suiteName(path)
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (pc *ParseCommand) read(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(pc.stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	return string(data), nil
}

func suiteName(path string) string {
	if path == "-" {
		return "stdin"
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
