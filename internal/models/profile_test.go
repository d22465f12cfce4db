package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/cogniapply/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeProfile() *Profile {
	return &Profile{
		FullName:           "Ada Lovelace",
		Phone:              "555-0100",
		JobTitlePreference: "Backend Engineer",
		ExperienceYears:    4,
		Skills:             "go, sql",
		ResumeURL:          "https://files.example.com/ada/resume.pdf",
		LinkedInEmail:      "ada@example.com",
		LinkedInPassword:   "s3cret",
	}
}

func validForm() ProfileForm {
	return ProfileForm{
		FullName:           "Ada Lovelace",
		Phone:              "555-0100",
		DOB:                "1815-12-10",
		JobTitlePreference: "Backend Engineer",
		ExperienceYears:    "4",
		SalaryRange:        "100k-120k",
		Skills:             "go, sql",
	}
}

func TestProfileComplete(t *testing.T) {
	t.Run("complete profile", func(t *testing.T) {
		assert.True(t, completeProfile().Complete(false))
	})

	t.Run("nil profile", func(t *testing.T) {
		var p *Profile
		assert.False(t, p.Complete(true))
	})

	t.Run("missing required field", func(t *testing.T) {
		mutations := map[string]func(*Profile){
			"full_name":            func(p *Profile) { p.FullName = "  " },
			"phone":                func(p *Profile) { p.Phone = "" },
			"job_title_preference": func(p *Profile) { p.JobTitlePreference = "" },
			"experience_years":     func(p *Profile) { p.ExperienceYears = 0 },
			"skills":               func(p *Profile) { p.Skills = "" },
			"linkedin_email":       func(p *Profile) { p.LinkedInEmail = "" },
			"linkedin_password":    func(p *Profile) { p.LinkedInPassword = "" },
		}
		for name, mutate := range mutations {
			p := completeProfile()
			mutate(p)
			assert.False(t, p.Complete(true), name)
		}
	})

	t.Run("resume from URL or new attachment", func(t *testing.T) {
		p := completeProfile()
		p.ResumeURL = ""
		assert.False(t, p.Complete(false))
		assert.True(t, p.Complete(true))
	})
}

func TestProfileAttachments(t *testing.T) {
	p := completeProfile()
	p.CoverLetterURL = "https://files.example.com/ada/cover.pdf"

	assert.Equal(t, p.ResumeURL, p.Attachment(AttachmentResume))
	p.RemoveAttachment(AttachmentCoverLetter)
	assert.Empty(t, p.CoverLetterURL)
	assert.NotEmpty(t, p.ResumeURL)

	clone := p.Clone()
	clone.RemoveAttachment(AttachmentResume)
	assert.NotEmpty(t, p.ResumeURL, "clone must not share state")

	kind, err := ParseAttachmentKind("cover")
	require.NoError(t, err)
	assert.Equal(t, AttachmentCoverLetter, kind)

	_, err = ParseAttachmentKind("photo")
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)
}

func TestProfileFormValidate(t *testing.T) {
	t.Run("valid form", func(t *testing.T) {
		form := validForm()
		assert.NoError(t, form.Validate())
	})

	t.Run("first failing field in declaration order", func(t *testing.T) {
		form := validForm()
		form.Phone = ""
		form.Skills = ""

		err := form.Validate()
		var ve *shared.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "phone", ve.Field)
	})

	t.Run("whitespace only counts as missing after trim", func(t *testing.T) {
		form := validForm()
		form.FullName = "   "
		form.Trim()

		var ve *shared.ValidationError
		require.True(t, errors.As(form.Validate(), &ve))
		assert.Equal(t, "full_name", ve.Field)
	})

	t.Run("experience must be numeric", func(t *testing.T) {
		form := validForm()
		form.ExperienceYears = "four"

		var ve *shared.ValidationError
		require.True(t, errors.As(form.Validate(), &ve))
		assert.Equal(t, "experience_years", ve.Field)
		assert.Equal(t, "must be a number", ve.Reason)
	})

	t.Run("malformed platform email", func(t *testing.T) {
		form := validForm()
		form.Credentials = &PlatformCredentials{Email: "not-an-email", Password: "x"}

		var ve *shared.ValidationError
		require.True(t, errors.As(form.Validate(), &ve))
		assert.Equal(t, "linkedin_email", ve.Field)
	})

	t.Run("optional links are checked only when present", func(t *testing.T) {
		form := validForm()
		form.GitHubURL = "github.com/ada"

		var ve *shared.ValidationError
		require.True(t, errors.As(form.Validate(), &ve))
		assert.Equal(t, "github_url", ve.Field)

		form.GitHubURL = "https://github.com/ada"
		assert.NoError(t, form.Validate())
	})
}

func TestProfileFormFields(t *testing.T) {
	form := validForm()
	fields := form.Fields()

	assert.Equal(t, "Ada Lovelace", fields["full_name"])
	assert.Equal(t, "4", fields["experience_years"])
	assert.NotContains(t, fields, "linkedin_email")
	assert.NotContains(t, fields, "github_url")

	form.Credentials = &PlatformCredentials{Email: "ada@example.com", Password: "pw"}
	form.GitHubURL = "https://github.com/ada"
	fields = form.Fields()
	assert.Equal(t, "ada@example.com", fields["linkedin_email"])
	assert.Equal(t, "pw", fields["linkedin_password"])
	assert.Equal(t, "https://github.com/ada", fields["github_url"])

	years, err := form.Years()
	require.NoError(t, err)
	assert.Equal(t, 4, years)
}

func TestFormFromProfile(t *testing.T) {
	form := FormFromProfile(completeProfile())
	assert.Equal(t, "4", form.ExperienceYears)
	require.NotNil(t, form.Credentials)
	assert.Equal(t, "ada@example.com", form.Credentials.Email)

	empty := FormFromProfile(&Profile{})
	assert.Empty(t, empty.ExperienceYears)
	assert.Nil(t, empty.Credentials)
	assert.Equal(t, ProfileForm{}, FormFromProfile(nil))
}

func TestAttachmentsHasResume(t *testing.T) {
	assert.False(t, Attachments{}.HasResume())
	assert.False(t, Attachments{Resume: &Attachment{Filename: "cv.pdf"}}.HasResume())
	assert.True(t, Attachments{Resume: &Attachment{Filename: "cv.pdf", Content: strings.NewReader("%PDF")}}.HasResume())
}
