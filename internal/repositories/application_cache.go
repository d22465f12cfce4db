package repositories

import (
	"fmt"

	"github.com/desertthunder/cogniapply/internal/models"
)

// ApplicationCacheAdapter implements tasks.ResultSink using ApplicationRepository.
//
// Outcomes are deduplicated per run by job ID, so a repeated completion event
// for the same run does not double the history.
type ApplicationCacheAdapter struct {
	repo *ApplicationRepository
}

// NewApplicationCacheAdapter creates a new ApplicationCacheAdapter with the given repository
func NewApplicationCacheAdapter(repo *ApplicationRepository) *ApplicationCacheAdapter {
	return &ApplicationCacheAdapter{repo: repo}
}

// StoreResults caches the outcomes of run runID for username.
func (a *ApplicationCacheAdapter) StoreResults(runID, username string, results []models.JobApplication) error {
	existing, err := a.repo.List(map[string]any{"run_id": runID})
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(existing))
	for _, rec := range existing {
		if id := rec.Application().JobID; id != "" {
			seen[id] = true
		}
	}

	for _, app := range results {
		if app.JobID != "" && seen[app.JobID] {
			continue
		}
		if err := a.repo.Create(models.NewApplicationRecord(0, runID, username, app)); err != nil {
			return fmt.Errorf("failed to cache application: %w", err)
		}
		seen[app.JobID] = true
	}

	return nil
}

// History returns the cached outcomes of username, oldest first.
func (a *ApplicationCacheAdapter) History(username string, limit int) ([]models.JobApplication, error) {
	records, err := a.repo.List(map[string]any{"username": username, "limit": limit})
	if err != nil {
		return nil, err
	}

	apps := make([]models.JobApplication, 0, len(records))
	for _, rec := range records {
		apps = append(apps, rec.Application())
	}
	return apps, nil
}
