package ui

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"jtl/internal/config"
	"jtl/internal/domain"
)

// Viewer displays run failures in an interactive TUI
type Viewer interface {
	View(output *domain.RunOutput) error
}

// FailureViewer browses the failures recorded by the last run
type FailureViewer struct {
	config *config.Config
}

// NewFailureViewer creates a new FailureViewer
func NewFailureViewer(cfg *config.Config) *FailureViewer {
	return &FailureViewer{config: cfg}
}

// View displays test failures in an interactive TUI
func (fv *FailureViewer) View(output *domain.RunOutput) error {
	if len(output.Details) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)
	list.SetBorder(true).SetTitle(fmt.Sprintf(" Failures (%d) ", len(output.Details)))

	details := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)
	details.SetBorder(true).SetTitle(" Details ")

	showDetails := func(index int) {
		if index < 0 || index >= len(output.Details) {
			return
		}
		failure := output.Details[index]
		details.SetText(fmt.Sprintf(
			"[yellow]Test:[white] %s\n[yellow]File:[white] %s\n\n[red]%s[white]",
			failure.TestName, failure.FilePath, tview.Escape(failure.Message),
		))
		details.ScrollToBeginning()
	}

	for i, failure := range output.Details {
		list.AddItem(fmt.Sprintf("[yellow]%d.[white] %s", i+1, failure.TestName), "", 0, nil)
	}
	list.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		showDetails(index)
	})
	showDetails(0)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(details, 0, 2, false)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyEscape, event.Rune() == 'q':
			app.Stop()
			return nil
		case event.Key() == tcell.KeyTab:
			if list.HasFocus() {
				app.SetFocus(details)
			} else {
				app.SetFocus(list)
			}
			return nil
		}
		return event
	})

	return app.SetRoot(flex, true).Run()
}
