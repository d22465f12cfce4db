package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/cogniapply/internal/shared"
	"github.com/desertthunder/cogniapply/internal/ui"
	"github.com/urfave/cli/v3"
)

const tuiHistoryLimit = 100

// TUI launches the interactive dashboard.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Logging.TUILogPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	if err := r.connect(); err != nil {
		return err
	}

	presenter := ui.NewPresenter(nil)
	ctrl := r.controller(presenter)
	defer ctrl.Close()

	model := ui.NewModel(ctx, ui.Deps{
		Services:     r.services,
		Controller:   ctrl,
		Navigator:    r.navigator(),
		Presenter:    presenter,
		History:      r.history,
		HistoryLimit: tuiHistoryLimit,
		DefaultLimit: r.config.Automation.ApplicationsLimit,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
