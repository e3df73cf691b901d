package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"jtl/internal/config"
	"jtl/internal/domain"
)

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	out    io.Writer
}

// NewFormatter creates a new Formatter
func NewFormatter(cfg *config.Config) *Formatter {
	return &Formatter{config: cfg, out: os.Stdout}
}

// PrintCaseList prints loaded test cases grouped by their source file.
// With details set, descriptions and skip markers are included; the
// marker reflects the case's skip predicate evaluated now.
func (f *Formatter) PrintCaseList(cases []domain.TestCase, details bool) error {
	byFile := make(map[string][]domain.TestCase)
	var order []string
	for _, tc := range cases {
		if _, ok := byFile[tc.FileName]; !ok {
			order = append(order, tc.FileName)
		}
		byFile[tc.FileName] = append(byFile[tc.FileName], tc)
	}

	for _, file := range order {
		rel := file
		if r, err := filepath.Rel(f.config.GetRootDir(), file); err == nil {
			rel = r
		}
		fmt.Fprintln(f.out, color.CyanString("%s", rel))
		for _, tc := range byFile[file] {
			if details {
				marker := ""
				if skipped, err := tc.Skipped(); err == nil && skipped {
					marker = color.YellowString(" [skip]")
				}
				fmt.Fprintf(f.out, "  %s%s  %s\n", tc.Name, marker, tc.Description)
			} else {
				fmt.Fprintf(f.out, "  %s\n", tc.Name)
			}
		}
	}

	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, color.WhiteString("%d test case(s) in %d file(s)", len(cases), len(order)))
	return nil
}

// PrintRunStats displays the summary table for a finished run.
func (f *Formatter) PrintRunStats(output *domain.RunOutput) error {
	meta := output.Meta

	fmt.Fprint(f.out, "\n")
	fmt.Fprintln(f.out, color.CyanString("╔═══════════════════════════════════════════════════════════════╗"))
	fmt.Fprintln(f.out, color.CyanString("║                    Test Execution Statistics                  ║"))
	fmt.Fprintln(f.out, color.CyanString("╚═══════════════════════════════════════════════════════════════╝"))
	fmt.Fprintln(f.out)

	rows := []struct {
		label string
		value string
		paint func(format string, a ...interface{}) string
	}{
		{"Total Test Cases", fmt.Sprintf("%d", meta.TotalCases), color.WhiteString},
		{"Passed", fmt.Sprintf("%d", meta.PassedCases), color.GreenString},
		{"Failed", fmt.Sprintf("%d", meta.FailedCases), color.RedString},
		{"Skipped", fmt.Sprintf("%d", meta.SkippedCases), color.YellowString},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds), color.WhiteString},
	}

	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	for i, row := range rows {
		fmt.Fprintf(f.out, "│ %-31s │ %s │\n", row.label, row.paint("%-27s", row.value))
		if i < len(rows)-1 {
			fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
		}
	}
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	if meta.FailedCases > 0 {
		fmt.Fprintln(f.out)
		fmt.Fprintln(f.out, color.RedString("Failures:"))
		for _, failure := range output.Details {
			fmt.Fprintln(f.out, color.RedString("  ✗ %s", failure.TestName))
			if failure.Message != "" {
				fmt.Fprintf(f.out, "      %s\n", strings.ReplaceAll(failure.Message, "\n", "\n      "))
			}
		}
	}
	return nil
}
