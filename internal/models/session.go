package models

import (
	"fmt"

	"github.com/desertthunder/cogniapply/internal/shared"
)

// Session is the logged in identity. The password is sent as HTTP Basic credentials on every call.
type Session struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Valid reports whether the session can authenticate a request.
func (s *Session) Valid() bool {
	return s != nil && s.Username != "" && s.Password != ""
}

// Section is a dashboard section.
type Section string

const (
	SectionProfile      Section = "profile"
	SectionJobSearch    Section = "job-search"
	SectionApplications Section = "applications"
)

// Sections lists the dashboard sections in display order.
var Sections = []Section{SectionProfile, SectionJobSearch, SectionApplications}

// ParseSection returns the section named s.
func ParseSection(s string) (Section, error) {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, nil
		}
	}
	return "", fmt.Errorf("%w: unknown section %q", shared.ErrInvalidArgument, s)
}

// Title is the heading shown for the section.
func (s Section) Title() string {
	switch s {
	case SectionProfile:
		return "Profile"
	case SectionJobSearch:
		return "Job Search"
	case SectionApplications:
		return "Applications"
	}
	return string(s)
}

// Credentials is a login or registration request.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration is a new account request with the confirmation checked before anything is sent.
type Registration struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Confirm  string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// Credentials returns the request body sent to the backend.
func (r Registration) Credentials() Credentials {
	return Credentials{Username: r.Username, Email: r.Email, Password: r.Password}
}
