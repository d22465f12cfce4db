package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/cogniapply/internal/models"
	"github.com/desertthunder/cogniapply/internal/services"
	"github.com/desertthunder/cogniapply/internal/shared"
	"github.com/urfave/cli/v3"
)

// profileFlags maps form flags onto the profile form fields they set.
var profileFlags = []struct {
	name, usage string
	field       func(*models.ProfileForm) *string
}{
	{"full-name", "Full name", func(f *models.ProfileForm) *string { return &f.FullName }},
	{"phone", "Phone number", func(f *models.ProfileForm) *string { return &f.Phone }},
	{"dob", "Date of birth (YYYY-MM-DD)", func(f *models.ProfileForm) *string { return &f.DOB }},
	{"job-title", "Preferred job title", func(f *models.ProfileForm) *string { return &f.JobTitlePreference }},
	{"experience", "Years of experience", func(f *models.ProfileForm) *string { return &f.ExperienceYears }},
	{"salary", "Expected salary range", func(f *models.ProfileForm) *string { return &f.SalaryRange }},
	{"skills", "Comma separated skills", func(f *models.ProfileForm) *string { return &f.Skills }},
	{"linkedin-url", "LinkedIn profile URL", func(f *models.ProfileForm) *string { return &f.LinkedInURL }},
	{"github-url", "GitHub profile URL", func(f *models.ProfileForm) *string { return &f.GitHubURL }},
	{"portfolio-url", "Portfolio URL", func(f *models.ProfileForm) *string { return &f.PortfolioURL }},
}

// ProfileShow fetches and prints the stored profile.
func (r *Runner) ProfileShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	profile, err := r.services.Profiles.FetchProfile(ctx)
	if err != nil {
		return err
	}
	if err := r.navigator().Show(models.SectionProfile); err != nil {
		r.logger.Warn("failed to remember section", "error", err)
	}

	if cmd.Bool("json") {
		redacted := profile.Clone()
		if redacted.LinkedInPassword != "" {
			redacted.LinkedInPassword = "********"
		}
		return r.writeJSON(redacted, true)
	}

	r.writePlainHeader("Profile")
	for _, row := range [][2]string{
		{"Full name", profile.FullName},
		{"Phone", profile.Phone},
		{"Date of birth", profile.DOB},
		{"Job title", profile.JobTitlePreference},
		{"Experience", fmt.Sprintf("%d years", profile.ExperienceYears)},
		{"Salary range", profile.SalaryRange},
		{"Skills", profile.Skills},
		{"LinkedIn", profile.LinkedInURL},
		{"GitHub", profile.GitHubURL},
		{"Portfolio", profile.PortfolioURL},
		{"LinkedIn login", profile.LinkedInEmail},
		{"Resume", r.services.Profiles.DocumentURL(models.AttachmentResume)},
		{"Cover letter", r.services.Profiles.DocumentURL(models.AttachmentCoverLetter)},
	} {
		value := row[1]
		if value == "" {
			value = "-"
		}
		r.writePlain("%-15s %s\n", row[0]+":", value)
	}

	if profile.Complete(false) {
		r.writePlainln("✓ Ready for job search")
	} else {
		r.writePlainln("✗ Incomplete: job search stays locked")
	}
	return nil
}

// ProfileSave merges the given flags into the stored profile and uploads it.
//
// Flags left unset keep their stored values, as does the platform login.
func (r *Runner) ProfileSave(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	current, err := r.services.Profiles.FetchProfile(ctx)
	if err != nil {
		return err
	}

	form := models.FormFromProfile(current)
	for _, f := range profileFlags {
		if cmd.IsSet(f.name) {
			*f.field(&form) = cmd.String(f.name)
		}
	}
	if cmd.IsSet("linkedin-email") || cmd.IsSet("linkedin-password") {
		creds := current.Credentials()
		if cmd.IsSet("linkedin-email") {
			creds.Email = cmd.String("linkedin-email")
		}
		if cmd.IsSet("linkedin-password") {
			creds.Password = cmd.String("linkedin-password")
		}
		form.Credentials = &creds
	}

	attachments, closeFiles, err := services.OpenAttachments(cmd.String("resume"), cmd.String("cover"))
	defer closeFiles()
	if err != nil {
		return err
	}

	profile, err := r.services.Profiles.SaveProfile(ctx, form, attachments)
	if err != nil {
		return err
	}

	r.notify("Profile saved successfully.", models.LevelSuccess)
	if !profile.Complete(false) {
		r.notify("Add a resume and LinkedIn login to enable job search.", models.LevelInfo)
	}
	return nil
}

// ProfileDeleteFile removes the stored resume or cover letter.
func (r *Runner) ProfileDeleteFile(ctx context.Context, cmd *cli.Command) error {
	kind, err := models.ParseAttachmentKind(cmd.StringArg("kind"))
	if err != nil {
		return err
	}
	if err := r.connect(); err != nil {
		return err
	}

	if _, err := r.services.Profiles.FetchProfile(ctx); err != nil {
		return err
	}
	if err := r.services.Profiles.DeleteAttachment(ctx, kind); err != nil {
		return err
	}

	r.notify(attachmentNotice(kind), models.LevelSuccess)
	return nil
}

// ProfileOpen opens a stored document in the system viewer.
func (r *Runner) ProfileOpen(ctx context.Context, cmd *cli.Command) error {
	kind, err := models.ParseAttachmentKind(cmd.StringArg("kind"))
	if err != nil {
		return err
	}
	if err := r.connect(); err != nil {
		return err
	}

	if _, err := r.services.Profiles.FetchProfile(ctx); err != nil {
		return err
	}

	url := r.services.Profiles.DocumentURL(kind)
	if url == "" {
		return fmt.Errorf("%w: no %s stored", shared.ErrInvalidArgument, kind)
	}
	r.logger.Info("opening document", "url", url)
	return shared.OpenDocument(url)
}

func attachmentNotice(kind models.AttachmentKind) string {
	if kind == models.AttachmentResume {
		return "Resume deleted."
	}
	return "Cover letter deleted."
}

// profileCommandFlags returns the flags accepted by profile save.
func profileCommandFlags() []cli.Flag {
	flags := make([]cli.Flag, 0, len(profileFlags)+4)
	for _, f := range profileFlags {
		flags = append(flags, &cli.StringFlag{Name: f.name, Usage: f.usage})
	}
	return append(flags,
		&cli.StringFlag{Name: "linkedin-email", Usage: "LinkedIn login email used by the automation"},
		&cli.StringFlag{
			Name:    "linkedin-password",
			Usage:   "LinkedIn login password used by the automation",
			Sources: cli.EnvVars("COGNIAPPLY_LINKEDIN_PASSWORD"),
		},
		&cli.StringFlag{Name: "resume", Usage: "Path to a PDF or DOCX resume to upload"},
		&cli.StringFlag{Name: "cover", Usage: "Path to a cover letter to upload"},
	)
}
