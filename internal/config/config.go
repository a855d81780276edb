package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	TestPath    string

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string

	// Execution settings
	Processors  int
	Containers  []string
	Suites      []string
	Company     string
	TestCommand string

	// Results database settings
	ResultsDSN      string
	ResultsDatabase string

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	Processors int
	Suites     []string
	TestPath   string
	NameFilter string
	FailFast   bool
	OpenFaills bool
	JUnitPath  string
	Duration   float64
	Verbose    bool
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:     DefaultProjectPath,
		TestPath:        DefaultTestPath,
		OutputJSONFile:  DefaultOutputJSONFile,
		OutputJSONDir:   DefaultOutputJSONDir,
		Processors:      DefaultProcessors,
		Containers:      []string{DefaultContainer},
		Suites:          []string{DefaultSuite},
		Company:         DefaultCompany,
		TestCommand:     DefaultTestCommand,
		ResultsDatabase: DefaultResultsDatabase,
		Flags:           Flags{Processors: DefaultProcessors},
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// LoadEnv reads the project .env file (if present) and applies BCTP_* variables.
// Variables already set in the process environment take precedence over the file.
func (c *Config) LoadEnv() {
	envPath := filepath.Join(c.ProjectPath, ".env")
	if err := godotenv.Load(envPath); err != nil {
		// .env file might not exist, that's okay - use environment variables
		_ = err
	}

	if v := splitList(os.Getenv(EnvContainers)); len(v) > 0 {
		c.Containers = v
	}
	if v := splitList(os.Getenv(EnvSuites)); len(v) > 0 {
		c.Suites = v
	}
	if v := os.Getenv(EnvTestCommand); v != "" {
		c.TestCommand = v
	}
	if v, ok := os.LookupEnv(EnvCompany); ok {
		c.Company = v
	}
	if v := os.Getenv(EnvResultsDSN); v != "" {
		c.ResultsDSN = v
	}
	if v := os.Getenv(EnvResultsDatabase); v != "" {
		c.ResultsDatabase = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputJSONDir = v
	}
}

// Load creates a config, reads the environment and applies flags
func Load(flags Flags) *Config {
	cfg := New()
	cfg.LoadEnv()
	cfg.Apply(flags)
	return cfg
}

// Apply stores flags and lets them override environment and defaults
func (c *Config) Apply(flags Flags) {
	c.Flags = flags

	if flags.Processors > 0 {
		c.Processors = flags.Processors
	}
	if len(flags.Suites) > 0 {
		c.Suites = flags.Suites
	}
}

// GetTestPath returns the test path, using flag if provided
func (c *Config) GetTestPath() string {
	if c.Flags.TestPath != "" {
		// If TestPath is provided, make it relative to ProjectPath if it's not absolute
		if filepath.IsAbs(c.Flags.TestPath) {
			return c.Flags.TestPath
		}
		return filepath.Join(c.ProjectPath, c.Flags.TestPath)
	}

	// Default: combine project path and test path
	return filepath.Join(c.ProjectPath, c.TestPath)
}

// GetOutputPath returns the full path to the output JSON file.
// Resolves to an absolute path so run, parse and faills always use the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetContainerName returns the container a worker runs its suites in.
// Workers beyond the configured containers wrap around.
func (c *Config) GetContainerName(workerID int) string {
	if len(c.Containers) == 0 {
		return DefaultContainer
	}
	if workerID < 1 {
		workerID = 1
	}
	return c.Containers[(workerID-1)%len(c.Containers)]
}

// WorkerCount returns the number of workers to use: never more than the
// configured containers, since a container runs one test session at a time.
func (c *Config) WorkerCount() int {
	n := c.Processors
	if n <= 0 {
		n = 1
	}
	if len(c.Containers) > 0 && n > len(c.Containers) {
		n = len(c.Containers)
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
