package server

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/cogniapply/internal/channel"
	"github.com/desertthunder/cogniapply/internal/models"
	"github.com/desertthunder/cogniapply/internal/shared"
)

const timestampLayout = "2006-01-02 15:04:05"

var companies = []string{"Acme Corp", "Globex", "Initech", "Umbrella Labs", "Hooli"}

// GeneratedCatalog invents up to three jobs matching the search.
func GeneratedCatalog(criteria models.SearchCriteria) []models.JobApplication {
	n := min(criteria.ApplicationsLimit, 3)
	jobs := make([]models.JobApplication, n)
	for i := range jobs {
		jobs[i] = models.JobApplication{
			JobID:    shared.GenerateID(),
			JobTitle: criteria.JobTitle,
			Company:  companies[i%len(companies)],
		}
	}
	return jobs
}

// simulate plays one automation run into outbox until it completes or ctx is cancelled.
func (b *Backend) simulate(ctx context.Context, slot *runSlot, username string, criteria models.SearchCriteria, hasResume bool, outbox chan<- channel.Event) {
	defer b.runs.Done()
	defer slot.cancel()
	defer b.release(username, slot)

	logger := b.logger.With("user", username)
	deliver := func(e channel.Event) bool {
		if ctx.Err() != nil {
			return false
		}
		select {
		case outbox <- e:
		default:
			logger.Warn("channel queue full, dropping event", "type", e.Type)
		}
		return true
	}
	status := func(format string, args ...any) bool {
		return deliver(channel.Event{Type: channel.EventStatus, Message: fmt.Sprintf(format, args...)}) && b.pause(ctx)
	}

	if !hasResume {
		logger.Error("resume not found")
		b.release(username, slot)
		deliver(channel.Event{Type: channel.EventError, Message: "Resume not found"})
		return
	}

	if !status("Starting LinkedIn automation...") ||
		!status("Searching for %s jobs in %s", criteria.JobTitle, criteria.Location) {
		return
	}

	var applied []models.JobApplication
	for _, job := range b.catalog(criteria) {
		if !status("Attempting to apply to: %s at %s", job.JobTitle, job.Company) ||
			!status("Filling out application form for %s", job.JobTitle) {
			return
		}

		job.Status = models.StatusApplied
		job.Timestamp = time.Now().Format(timestampLayout)
		applied = append(applied, job)

		if !status("Successfully applied to %s at %s", job.JobTitle, job.Company) {
			return
		}
	}

	if len(applied) == 0 {
		if !status("No more jobs found matching %s", criteria.JobTitle) {
			return
		}
	} else if !status("Job search completed") {
		return
	}

	b.mu.Lock()
	acct := b.users[username]
	acct.applications = append(acct.applications, applied...)
	b.mu.Unlock()
	b.release(username, slot)

	logger.Info("automation completed", "jobs", len(applied))
	deliver(channel.Event{Type: channel.EventComplete, Results: applied})
}

func (b *Backend) pause(ctx context.Context) bool {
	if b.stepDelay <= 0 {
		return ctx.Err() == nil
	}

	t := time.NewTimer(b.stepDelay)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// release frees the run slot of username if slot still holds it.
//
// Terminal events are queued only after release so the client can start again right away.
func (b *Backend) release(username string, slot *runSlot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if acct := b.users[username]; acct.run == slot {
		acct.run = nil
	}
}
