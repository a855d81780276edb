package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"bctp/internal/cli"
	"bctp/internal/cli/commands"
	"bctp/internal/config"
)

var version = "dev"

func main() {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	// Create root command
	rootCmd := &cobra.Command{
		Use:           "bctp",
		Short:         "Business Central test processor",
		Long:          `Run Business Central test suites in containers, parse the detailed test-runner output and report per-test results.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create config with defaults and BCTP_* environment (including the project .env)
	cfg := config.New()
	cfg.LoadEnv()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Execute root command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
