package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/desertthunder/cogniapply/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Run("empty results leave the rate undefined", func(t *testing.T) {
		s := Summarize(nil)
		assert.Equal(t, 0, s.TotalFound)
		assert.Equal(t, 0, s.TotalApplied)
		assert.Nil(t, s.SuccessRate)
		assert.Equal(t, "n/a", s.Rate())
	})

	t.Run("every result counts as applied", func(t *testing.T) {
		s := Summarize([]JobApplication{{JobTitle: "A"}, {JobTitle: "B"}, {JobTitle: "C"}})
		assert.Equal(t, 3, s.TotalFound)
		assert.Equal(t, 3, s.TotalApplied)
		require.NotNil(t, s.SuccessRate)
		assert.Equal(t, 100, *s.SuccessRate)
		assert.Equal(t, "100%", s.Rate())
	})
}

func TestJobApplicationJSON(t *testing.T) {
	t.Run("run result keys", func(t *testing.T) {
		var app JobApplication
		data := `{"job_id":"42","jobTitle":"Engineer","company":"Acme","status":"Applied","timestamp":"2025-01-02 10:00:00"}`
		require.NoError(t, json.Unmarshal([]byte(data), &app))
		assert.Equal(t, JobApplication{JobID: "42", JobTitle: "Engineer", Company: "Acme", Timestamp: "2025-01-02 10:00:00", Status: StatusApplied}, app)
	})

	t.Run("history keys", func(t *testing.T) {
		var app JobApplication
		data := `{"job_id":"7","job_title":"SRE","company":"Initech","status":"Failed","applied_date":"2025-02-03"}`
		require.NoError(t, json.Unmarshal([]byte(data), &app))
		assert.Equal(t, "SRE", app.JobTitle)
		assert.Equal(t, "2025-02-03", app.Timestamp)
		assert.Equal(t, StatusFailed, app.Status)
	})

	t.Run("marshals with run result keys", func(t *testing.T) {
		out, err := json.Marshal(JobApplication{JobID: "1", JobTitle: "Dev"})
		require.NoError(t, err)
		assert.Contains(t, string(out), `"jobTitle":"Dev"`)
	})
}

func TestSearchCriteriaValidate(t *testing.T) {
	tt := []struct {
		name     string
		criteria SearchCriteria
		field    string
	}{
		{"valid", SearchCriteria{JobTitle: "Go Developer", Location: "Remote", ApplicationsLimit: 5}, ""},
		{"blank title", SearchCriteria{JobTitle: "  ", Location: "Remote", ApplicationsLimit: 5}, "job_title"},
		{"missing location", SearchCriteria{JobTitle: "Go Developer", ApplicationsLimit: 5}, "location"},
		{"zero limit", SearchCriteria{JobTitle: "Go Developer", Location: "Remote"}, "applications_limit"},
		{"limit too high", SearchCriteria{JobTitle: "Go Developer", Location: "Remote", ApplicationsLimit: 500}, "applications_limit"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.criteria.Validate()
			if tc.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *shared.ValidationError
			require.True(t, errors.As(err, &ve), "expected validation error, got %v", err)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestApplicationRecordValidate(t *testing.T) {
	rec := NewApplicationRecord(0, "run-1", "ada", JobApplication{JobTitle: "Engineer"})
	assert.NoError(t, rec.Validate())

	assert.ErrorIs(t, NewApplicationRecord(0, "", "ada", JobApplication{JobTitle: "x"}).Validate(), shared.ErrInvalidInput)
	assert.ErrorIs(t, NewApplicationRecord(0, "run", "", JobApplication{JobTitle: "x"}).Validate(), shared.ErrInvalidInput)
	assert.ErrorIs(t, NewApplicationRecord(0, "run", "ada", JobApplication{}).Validate(), shared.ErrInvalidInput)
}

func TestSessionAndSections(t *testing.T) {
	var missing *Session
	assert.False(t, missing.Valid())
	assert.False(t, (&Session{Username: "ada"}).Valid())
	assert.True(t, (&Session{Username: "ada", Password: "pw"}).Valid())

	sec, err := ParseSection("job-search")
	require.NoError(t, err)
	assert.Equal(t, SectionJobSearch, sec)
	assert.Equal(t, "Job Search", sec.Title())

	_, err = ParseSection("settings")
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)
}

func TestRegistrationValidate(t *testing.T) {
	reg := Registration{Username: "ada", Email: "ada@example.com", Password: "password1", Confirm: "password1"}
	assert.NoError(t, Validate(reg))

	reg.Confirm = "password2"
	var ve *shared.ValidationError
	require.True(t, errors.As(Validate(reg), &ve))
	assert.Equal(t, "confirm_password", ve.Field)

	reg.Confirm = reg.Password
	reg.Email = "ada"
	require.True(t, errors.As(Validate(reg), &ve))
	assert.Equal(t, "email", ve.Field)

	assert.Equal(t, Credentials{Username: "ada", Email: "ada", Password: "password1"}, reg.Credentials())
}
