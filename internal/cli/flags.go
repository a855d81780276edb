package cli

import "bctp/internal/config"

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

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Processors: f.Processors,
		Suites:     f.Suites,
		TestPath:   f.TestPath,
		NameFilter: f.NameFilter,
		FailFast:   f.FailFast,
		OpenFaills: f.OpenFaills,
		JUnitPath:  f.JUnitPath,
		Duration:   f.Duration,
		Verbose:    f.Verbose,
	}
}
