package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/cogniapply/internal/shared"
)

// ApplicationStatus is the outcome of one application attempt.
type ApplicationStatus string

const (
	StatusApplied ApplicationStatus = "Applied"
	StatusFailed  ApplicationStatus = "Failed"
)

// JobApplication is one outcome reported by a completed automation run.
type JobApplication struct {
	JobID     string            `json:"job_id" yaml:"job_id"`
	JobTitle  string            `json:"jobTitle" yaml:"job_title"`
	Company   string            `json:"company" yaml:"company"`
	Timestamp string            `json:"timestamp" yaml:"timestamp"`
	Status    ApplicationStatus `json:"status" yaml:"status"`
}

// UnmarshalJSON accepts both the run-result keys (jobTitle, timestamp)
// and the history keys (job_title, applied_date).
func (a *JobApplication) UnmarshalJSON(data []byte) error {
	var raw struct {
		JobID       string            `json:"job_id"`
		JobTitle    string            `json:"jobTitle"`
		JobTitleAlt string            `json:"job_title"`
		Company     string            `json:"company"`
		Timestamp   string            `json:"timestamp"`
		AppliedDate string            `json:"applied_date"`
		Status      ApplicationStatus `json:"status"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*a = JobApplication{
		JobID:     raw.JobID,
		JobTitle:  firstNonEmpty(raw.JobTitle, raw.JobTitleAlt),
		Company:   raw.Company,
		Timestamp: firstNonEmpty(raw.Timestamp, raw.AppliedDate),
		Status:    raw.Status,
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// RunSummary aggregates the outcomes of one run.
//
// Every reported job counts as both found and applied, so SuccessRate is 100 whenever
// there are results and undefined (nil) otherwise.
type RunSummary struct {
	TotalFound   int  `json:"total_found" yaml:"total_found"`
	TotalApplied int  `json:"total_applied" yaml:"total_applied"`
	SuccessRate  *int `json:"success_rate,omitempty" yaml:"success_rate,omitempty"`
}

// Summarize derives the [RunSummary] for results.
func Summarize(results []JobApplication) RunSummary {
	summary := RunSummary{TotalFound: len(results), TotalApplied: len(results)}
	if len(results) > 0 {
		rate := 100
		summary.SuccessRate = &rate
	}
	return summary
}

// Rate formats the success rate, or "n/a" when undefined.
func (s RunSummary) Rate() string {
	if s.SuccessRate == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d%%", *s.SuccessRate)
}

// SearchCriteria are the parameters of one automation run.
type SearchCriteria struct {
	JobTitle          string `json:"job_title" yaml:"job_title" validate:"required"`
	Location          string `json:"location" yaml:"location" validate:"required"`
	ApplicationsLimit int    `json:"applications_limit" yaml:"applications_limit" validate:"required,min=1,max=100"`
}

// Validate trims the text fields and returns the first failing field.
func (c *SearchCriteria) Validate() error {
	c.JobTitle = strings.TrimSpace(c.JobTitle)
	c.Location = strings.TrimSpace(c.Location)
	return Validate(c)
}

// ApplicationRecord is a cached run outcome.
type ApplicationRecord struct {
	id          string
	sequence    int
	runID       string
	username    string
	application JobApplication
	createdAt   time.Time
	deletedAt   *time.Time
}

// NewApplicationRecord creates a record for an outcome of run runID.
func NewApplicationRecord(sequence int, runID, username string, app JobApplication) *ApplicationRecord {
	return &ApplicationRecord{
		sequence:    sequence,
		runID:       runID,
		username:    username,
		application: app,
		createdAt:   time.Now(),
	}
}

func (r *ApplicationRecord) ID() string { return r.id }
func (r *ApplicationRecord) Sequence() int { return r.sequence }
func (r *ApplicationRecord) RunID() string { return r.runID }
func (r *ApplicationRecord) Username() string { return r.username }
func (r *ApplicationRecord) Application() JobApplication { return r.application }
func (r *ApplicationRecord) CreatedAt() time.Time { return r.createdAt }
func (r *ApplicationRecord) UpdatedAt() time.Time { return r.createdAt }
func (r *ApplicationRecord) DeletedAt() *time.Time { return r.deletedAt }

func (r *ApplicationRecord) SetID(id string) { r.id = id }
func (r *ApplicationRecord) SetSequence(seq int) { r.sequence = seq }
func (r *ApplicationRecord) SetCreatedAt(t time.Time) { r.createdAt = t }
func (r *ApplicationRecord) SetDeletedAt(t *time.Time) { r.deletedAt = t }

// Validate checks the fields required for persistence.
func (r *ApplicationRecord) Validate() error {
	switch {
	case r.runID == "":
		return fmt.Errorf("%w: run ID is required", shared.ErrInvalidInput)
	case r.username == "":
		return fmt.Errorf("%w: username is required", shared.ErrInvalidInput)
	case r.application.JobTitle == "":
		return fmt.Errorf("%w: job title is required", shared.ErrInvalidInput)
	}
	return nil
}
