package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jtl/internal/cli"
	"jtl/internal/cli/commands"
	"jtl/internal/config"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "jtl",
		Short:   "JavaScript test loader",
		Long:    `Discovers JavaScript test files (CommonJS or ES modules), expands the suites they declare into a flat list of test cases, and executes them.`,
		Version: version,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
