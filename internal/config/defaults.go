package config

const (
	// DefaultProjectPath is the default AL project path
	DefaultProjectPath = "."
	// DefaultTestPath is the default path scanned for test codeunits
	DefaultTestPath = "."
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "test-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = ".bctp"
	// DefaultProcessors is the default number of workers
	DefaultProcessors = 1
	// DefaultContainer is the default BC container name
	DefaultContainer = "bcserver"
	// DefaultSuite is the default test suite
	DefaultSuite = "DEFAULT"
	// DefaultCompany is used when no company is configured
	DefaultCompany = ""
	// DefaultResultsDatabase is the database created by the migrate command
	DefaultResultsDatabase = "bctp_results"
	// DefaultTestCommand runs the test engine through BcContainerHelper with detailed output.
	// {container}, {suite} and {company} are substituted per run.
	DefaultTestCommand = `pwsh -NoProfile -NonInteractive -Command "Import-Module BcContainerHelper; Run-TestsInBcContainer -containerName '{container}' -testSuite '{suite}' -companyName '{company}' -detailed"`
)

// DefaultPathsToIgnore are the default directories to ignore when scanning for test codeunits
var DefaultPathsToIgnore = []string{
	".alpackages",
	".output",
	".snapshots",
	"node_modules",
	"bin",
	"obj",
}

// Environment variables read from the process and the project .env file
const (
	EnvContainers      = "BCTP_CONTAINERS"
	EnvTestCommand     = "BCTP_TEST_COMMAND"
	EnvCompany         = "BCTP_COMPANY"
	EnvSuites          = "BCTP_SUITES"
	EnvResultsDSN      = "BCTP_RESULTS_DSN"
	EnvResultsDatabase = "BCTP_RESULTS_DATABASE"
	EnvOutputDir       = "BCTP_OUTPUT_DIR"
)
