package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/cogniapply/internal/models"
	"github.com/desertthunder/cogniapply/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthRegister creates an account. Nothing is sent unless the confirmation matches.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	password := cmd.String("password")
	confirm := cmd.String("confirm")
	if confirm == "" {
		confirm = password
	}

	reg := models.Registration{
		Username: cmd.String("username"),
		Email:    cmd.String("email"),
		Password: password,
		Confirm:  confirm,
	}
	if err := r.services.Auth.Register(ctx, reg); err != nil {
		return err
	}

	r.notify("Registration successful. Please log in.", models.LevelSuccess)
	return nil
}

// AuthLogin verifies credentials, stores the session and reports profile completeness.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	creds := models.Credentials{
		Username: cmd.String("username"),
		Email:    cmd.String("email"),
		Password: cmd.String("password"),
	}

	profile, err := r.services.Auth.Login(ctx, creds)
	if err != nil {
		return err
	}

	r.notify(fmt.Sprintf("Logged in as %s.", creds.Username), models.LevelSuccess)
	if !profile.Complete(false) {
		r.notify("Complete your profile to enable job search.", models.LevelInfo)
	}
	return nil
}

// AuthLogout discards the stored session and the last viewed section.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}
	if err := r.services.Auth.Logout(); err != nil {
		return err
	}

	r.notify("Logged out.", models.LevelSuccess)
	return nil
}

// AuthStatus resumes the stored session and prints who is logged in.
//
// A rejected session is cleared, as on dashboard startup.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	session, profile, err := r.services.Auth.Resume(ctx)
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		return r.writePlain("Not logged in\n")
	case err != nil:
		return err
	}

	section, err := r.sessions.LastSection()
	if err != nil {
		r.logger.Warn("failed to read last section", "error", err)
		section = models.SectionProfile
	}

	r.writePlain("Logged in as: %s (%s)\n", session.Username, session.Email)
	r.writePlain("Backend: %s\n", r.config.Backend.BaseURL)
	r.writePlain("Last section: %s\n", section.Title())
	if profile.Complete(false) {
		r.writePlain("Profile: ✓ Complete\n")
	} else {
		r.writePlain("Profile: ✗ Incomplete\n")
	}
	return nil
}
