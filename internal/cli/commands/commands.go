package commands

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"jtl/internal/cli"
	"jtl/internal/config"
	"jtl/internal/discovery"
	"jtl/internal/engine"
	"jtl/internal/modules"
	"jtl/internal/storage"
	"jtl/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	Run      *RunCommand
	List     *ListCommand
	Failures *FailuresCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(cfg)
	viewer := ui.NewFailureViewer(cfg)

	return &Commands{
		Run:      NewRunCommand(cfg, jsonStorage, formatter, viewer),
		List:     NewListCommand(cfg, formatter),
		Failures: NewFailuresCommand(cfg, jsonStorage, viewer),
	}
}

// newEngine builds the load pipeline. It runs after flag/config
// resolution so the scanner sees the final ignore list and the loader
// the final bundle flag.
func newEngine(cfg *config.Config) *engine.Engine {
	scanner := discovery.NewScanner(cfg.PathsToIgnore)
	filter := discovery.NewFilter()
	loader := modules.NewLoader(cfg.ESMBundle)
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "jtl"})
	return engine.New(cfg, scanner, filter, loader, logger)
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	reload := func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(flags.ToConfigFlags())
		if err != nil {
			return err
		}
		*cfg = *loaded
		return nil
	}

	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Load and execute JavaScript tests",
		Long:    "Discover test files, expand their suites and execute every test case",
		RunE:    c.Run.Execute,
		PreRunE: reload,
	}
	addLoadFlags(runCmd, flags)
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop on first test failure")
	runCmd.Flags().BoolVar(&flags.OpenViewer, "open-failures", false, "Open the failures viewer when the run finishes with failures")
	rootCmd.AddCommand(runCmd)

	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List discovered test cases",
		Long:    "Discover test files and list the test cases they declare without executing them",
		RunE:    c.List.Execute,
		PreRunE: reload,
	}
	addLoadFlags(listCmd, flags)
	listCmd.Flags().BoolVarP(&flags.Details, "details", "d", false, "Include descriptions and skip markers")
	rootCmd.AddCommand(listCmd)

	failuresCmd := &cobra.Command{
		Use:     "failures",
		Short:   "View test failures interactively",
		Long:    "Display test failures from the last run in an interactive viewer",
		RunE:    c.Failures.Execute,
		PreRunE: reload,
	}
	failuresCmd.Flags().StringVarP(&flags.RootDir, "root", "r", "", "Project root directory")
	rootCmd.AddCommand(failuresCmd)
}

func addLoadFlags(cmd *cobra.Command, flags *cli.Flags) {
	cmd.Flags().StringVarP(&flags.RootDir, "root", "r", "", "Directory to discover tests under")
	cmd.Flags().StringVarP(&flags.Pattern, "pattern", "p", "", "Glob pattern for test files (default \"**/*.{js,cjs,mjs}\")")
	cmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Keep only files whose name matches this regex")
	cmd.Flags().StringVar(&flags.FilterBody, "filter-body", "", "Keep only files whose content matches this regex")
	cmd.Flags().StringVarP(&flags.ModuleType, "module-type", "m", "", "Module format of the test files: commonjs or esmodule")
	cmd.Flags().BoolVar(&flags.ESMBundle, "esm-bundle", false, "Treat the whole bundle as ES-module output")
}
