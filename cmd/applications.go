package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/cogniapply/internal/formatter"
	"github.com/desertthunder/cogniapply/internal/models"
	"github.com/urfave/cli/v3"
)

// ApplicationsList prints application history from the local cache, or from the backend with --remote.
func (r *Runner) ApplicationsList(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if err := r.connect(); err != nil {
		return err
	}

	session, err := r.sessions.Current()
	if err != nil {
		return err
	}

	var apps []models.JobApplication
	if cmd.Bool("remote") {
		r.logger.Info("fetching application history", "username", session.Username)
		if apps, err = r.services.Automation.Applications(ctx); err != nil {
			return err
		}
		if limit := cmd.Int("limit"); limit > 0 && limit < len(apps) {
			apps = apps[len(apps)-limit:]
		}
	} else if apps, err = r.history.History(session.Username, cmd.Int("limit")); err != nil {
		return err
	}

	if err := r.sessions.RememberSection(models.SectionApplications); err != nil {
		r.logger.Warn("failed to remember section", "error", err)
	}

	report := formatter.NewReport("Applications", nil, apps)
	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteExport(report, format, path)
		if err != nil {
			return err
		}
		r.notify("Applications written to "+written, models.LevelInfo)
		return nil
	}

	data, err := formatter.Render(report, format)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// ApplicationsClear removes the cached history of the logged in user.
func (r *Runner) ApplicationsClear(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	session, err := r.sessions.Current()
	if err != nil {
		return err
	}

	n, err := r.apps.Clear(session.Username)
	if err != nil {
		return err
	}

	r.notify(fmt.Sprintf("Cleared %d cached applications.", n), models.LevelSuccess)
	return nil
}
