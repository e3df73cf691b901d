package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jtl/internal/config"
	"jtl/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(cfg *config.Config, formatter *ui.Formatter) *ListCommand {
	return &ListCommand{
		config:    cfg,
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	cases, err := newEngine(lc.config).LoadTests(cmd.Context(), lc.config.Pattern)
	if err != nil {
		return err
	}

	if len(cases) == 0 {
		color.Yellow("No tests found")
		return nil
	}

	return lc.formatter.PrintCaseList(cases, lc.config.Flags.TestCases)
}
