package models

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/desertthunder/cogniapply/internal/shared"
)

// Profile is the user profile as stored by the backend.
type Profile struct {
	FullName           string `json:"full_name,omitempty"`
	Phone              string `json:"phone,omitempty"`
	DOB                string `json:"dob,omitempty"`
	JobTitlePreference string `json:"job_title_preference,omitempty"`
	ExperienceYears    int    `json:"experience_years,omitempty"`
	SalaryRange        string `json:"salary_range,omitempty"`
	Skills             string `json:"skills,omitempty"`
	LinkedInURL        string `json:"linkedin_url,omitempty"`
	GitHubURL          string `json:"github_url,omitempty"`
	PortfolioURL       string `json:"portfolio_url,omitempty"`
	LinkedInEmail      string `json:"linkedin_email,omitempty"`
	LinkedInPassword   string `json:"linkedin_password,omitempty"`
	ResumeURL          string `json:"resume_url,omitempty"`
	CoverLetterURL     string `json:"cover_letter_url,omitempty"`
}

// Complete reports whether the profile satisfies every precondition of an automation run.
//
// hasNewResume accounts for a resume chosen locally but not yet uploaded.
func (p *Profile) Complete(hasNewResume bool) bool {
	if p == nil {
		return false
	}

	for _, v := range []string{p.FullName, p.Phone, p.JobTitlePreference, p.Skills} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	// Zero years is treated as unanswered, the same as an empty field.
	if p.ExperienceYears <= 0 {
		return false
	}
	if strings.TrimSpace(p.ResumeURL) == "" && !hasNewResume {
		return false
	}
	return p.Credentials().Set()
}

// Credentials returns the stored platform login.
func (p *Profile) Credentials() PlatformCredentials {
	return PlatformCredentials{Email: p.LinkedInEmail, Password: p.LinkedInPassword}
}

// Clone returns a copy that can be mutated without affecting p.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Attachment returns the stored URL for kind.
func (p *Profile) Attachment(kind AttachmentKind) string {
	if p == nil {
		return ""
	}
	switch kind {
	case AttachmentResume:
		return p.ResumeURL
	case AttachmentCoverLetter:
		return p.CoverLetterURL
	}
	return ""
}

// RemoveAttachment clears the stored URL for kind.
func (p *Profile) RemoveAttachment(kind AttachmentKind) {
	switch kind {
	case AttachmentResume:
		p.ResumeURL = ""
	case AttachmentCoverLetter:
		p.CoverLetterURL = ""
	}
}

// PlatformCredentials is the login the automation uses on the job platform.
type PlatformCredentials struct {
	Email    string `json:"linkedin_email,omitempty" validate:"omitempty,email"`
	Password string `json:"linkedin_password,omitempty"`
}

// Set reports whether both halves of the credentials are present.
func (c PlatformCredentials) Set() bool {
	return strings.TrimSpace(c.Email) != "" && strings.TrimSpace(c.Password) != ""
}

// ProfileForm is the profile save payload as entered by the user.
//
// Required fields are declared in the order they are checked.
type ProfileForm struct {
	FullName           string `json:"full_name" validate:"required"`
	Phone              string `json:"phone" validate:"required"`
	DOB                string `json:"dob" validate:"required"`
	JobTitlePreference string `json:"job_title_preference" validate:"required"`
	ExperienceYears    string `json:"experience_years" validate:"required,number"`
	SalaryRange        string `json:"salary_range" validate:"required"`
	Skills             string `json:"skills" validate:"required"`
	LinkedInURL        string `json:"linkedin_url" validate:"omitempty,url"`
	GitHubURL          string `json:"github_url" validate:"omitempty,url"`
	PortfolioURL       string `json:"portfolio_url" validate:"omitempty,url"`

	// Credentials is nil when the user left the platform login untouched.
	Credentials *PlatformCredentials `json:"-"`
}

// FormFromProfile pre-fills a form with the stored profile.
func FormFromProfile(p *Profile) ProfileForm {
	if p == nil {
		return ProfileForm{}
	}

	form := ProfileForm{
		FullName:           p.FullName,
		Phone:              p.Phone,
		DOB:                p.DOB,
		JobTitlePreference: p.JobTitlePreference,
		SalaryRange:        p.SalaryRange,
		Skills:             p.Skills,
		LinkedInURL:        p.LinkedInURL,
		GitHubURL:          p.GitHubURL,
		PortfolioURL:       p.PortfolioURL,
	}
	if p.ExperienceYears > 0 {
		form.ExperienceYears = strconv.Itoa(p.ExperienceYears)
	}
	if creds := p.Credentials(); creds.Set() {
		form.Credentials = &creds
	}
	return form
}

// Trim removes surrounding whitespace from every text field.
func (f *ProfileForm) Trim() {
	for _, s := range []*string{
		&f.FullName, &f.Phone, &f.DOB, &f.JobTitlePreference, &f.ExperienceYears,
		&f.SalaryRange, &f.Skills, &f.LinkedInURL, &f.GitHubURL, &f.PortfolioURL,
	} {
		*s = strings.TrimSpace(*s)
	}
	if f.Credentials != nil {
		f.Credentials.Email = strings.TrimSpace(f.Credentials.Email)
	}
}

// Validate returns the first missing or malformed field as a [shared.ValidationError].
func (f *ProfileForm) Validate() error {
	if err := Validate(f); err != nil {
		return err
	}
	if f.Credentials != nil {
		if err := Validate(f.Credentials); err != nil {
			return err
		}
	}
	return nil
}

// Years parses the experience field.
func (f *ProfileForm) Years() (int, error) {
	n, err := strconv.Atoi(f.ExperienceYears)
	if err != nil {
		return 0, &shared.ValidationError{Field: "experience_years", Reason: "must be a whole number"}
	}
	return n, nil
}

// Fields returns the form as multipart field values, including platform credentials when set.
func (f *ProfileForm) Fields() map[string]string {
	fields := map[string]string{
		"full_name":            f.FullName,
		"phone":                f.Phone,
		"dob":                  f.DOB,
		"job_title_preference": f.JobTitlePreference,
		"experience_years":     f.ExperienceYears,
		"salary_range":         f.SalaryRange,
		"skills":               f.Skills,
	}
	for k, v := range map[string]string{
		"linkedin_url":  f.LinkedInURL,
		"github_url":    f.GitHubURL,
		"portfolio_url": f.PortfolioURL,
	} {
		if v != "" {
			fields[k] = v
		}
	}
	if f.Credentials != nil && f.Credentials.Set() {
		fields["linkedin_email"] = f.Credentials.Email
		fields["linkedin_password"] = f.Credentials.Password
	}
	return fields
}

// AttachmentKind names one of the profile documents.
type AttachmentKind string

const (
	AttachmentResume      AttachmentKind = "resume"
	AttachmentCoverLetter AttachmentKind = "cover_letter"
)

// ParseAttachmentKind accepts the wire names plus the "cover" shorthand.
func ParseAttachmentKind(s string) (AttachmentKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "resume":
		return AttachmentResume, nil
	case "cover_letter", "cover-letter", "cover":
		return AttachmentCoverLetter, nil
	}
	return "", fmt.Errorf("%w: unknown file type %q", shared.ErrInvalidArgument, s)
}

// Attachment is a document selected for upload.
type Attachment struct {
	Filename string
	Content  io.Reader
}

// Attachments holds the documents sent with a profile save. Either may be nil.
type Attachments struct {
	Resume      *Attachment
	CoverLetter *Attachment
}

// HasResume reports whether a new resume accompanies the save.
func (a Attachments) HasResume() bool {
	return a.Resume != nil && a.Resume.Content != nil
}
