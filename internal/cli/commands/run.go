package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jtl/internal/config"
	"jtl/internal/execution"
	"jtl/internal/storage"
	"jtl/internal/ui"
)

// RunCommand handles the run command
type RunCommand struct {
	config    *config.Config
	storage   storage.Storage
	formatter *ui.Formatter
	viewer    ui.Viewer
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(cfg *config.Config, st storage.Storage, formatter *ui.Formatter, viewer ui.Viewer) *RunCommand {
	return &RunCommand{
		config:    cfg,
		storage:   st,
		formatter: formatter,
		viewer:    viewer,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// A failed load aborts the run before any execution starts.
	cases, err := newEngine(rc.config).LoadTests(ctx, rc.config.Pattern)
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		color.Yellow("No tests to execute")
		return nil
	}

	runner := execution.NewRunner(rc.config)
	runner.SetProgress(ui.NewProgressBar(len(cases)))

	results, duration, err := runner.Execute(ctx, cases, rc.config.Flags.FailFast)
	if err != nil {
		return err
	}

	if err := rc.storage.Save(results, duration); err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}

	output, err := rc.storage.Load()
	if err != nil {
		return err
	}
	if err := rc.formatter.PrintRunStats(output); err != nil {
		return err
	}

	if rc.config.Flags.OpenViewer && output.Meta.FailedCases > 0 {
		return rc.viewer.View(output)
	}
	return nil
}
