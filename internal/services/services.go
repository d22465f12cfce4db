package services

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cogniapply/internal/models"
	"github.com/desertthunder/cogniapply/internal/shared"
	"golang.org/x/sync/errgroup"
)

// Services bundles the backend clients used by the CLI and the dashboard.
type Services struct {
	API        *APIService
	Auth       *AuthService
	Profiles   *ProfileService
	Automation *AutomationService
}

// New wires every service against the backend described by cfg.
func New(cfg shared.BackendConfig, sessions SessionStore, logger *log.Logger) *Services {
	api := NewAPIServiceFromConfig(cfg, sessions, logger)
	profiles := NewProfileService(api)

	return &Services{
		API:        api,
		Auth:       NewAuthService(api, sessions, profiles, logger),
		Profiles:   profiles,
		Automation: NewAutomationService(api),
	}
}

// Dashboard is the data shown when the dashboard opens.
type Dashboard struct {
	Profile      *models.Profile
	Applications []models.JobApplication
}

// LoadDashboard fetches the profile and the application history concurrently.
func (s *Services) LoadDashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := s.Profiles.FetchProfile(ctx)
		d.Profile = p
		return err
	})
	g.Go(func() error {
		apps, err := s.Automation.Applications(ctx)
		d.Applications = apps
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
