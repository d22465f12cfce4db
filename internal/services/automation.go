package services

import (
	"context"

	"github.com/desertthunder/cogniapply/internal/models"
)

// AutomationService starts and stops server-side automation runs and reads their history.
type AutomationService struct {
	api *APIService
}

// NewAutomationService creates an AutomationService backed by api.
func NewAutomationService(api *APIService) *AutomationService {
	return &AutomationService{api: api}
}

// Apply asks the backend to start a run for criteria. Progress arrives on the push channel.
func (s *AutomationService) Apply(ctx context.Context, criteria models.SearchCriteria) error {
	_, err := s.api.PostJSON(ctx, "/apply", criteria, true)
	return err
}

// Stop asks the backend to cancel the running automation.
func (s *AutomationService) Stop(ctx context.Context) error {
	_, err := s.api.PostJSON(ctx, "/stop-automation", nil, true)
	return err
}

// Applications returns the backend's record of past applications.
func (s *AutomationService) Applications(ctx context.Context) ([]models.JobApplication, error) {
	resp, err := s.api.Get(ctx, "/applications")
	if err != nil {
		return nil, err
	}

	var apps []models.JobApplication
	if err := resp.Decode(&apps); err != nil {
		return nil, err
	}
	return apps, nil
}
