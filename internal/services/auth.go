package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cogniapply/internal/models"
	"github.com/desertthunder/cogniapply/internal/shared"
)

// SessionStore persists the logged in session between launches.
type SessionStore interface {
	SessionSource
	Save(s models.Session) error
	Load() (*models.Session, error)
	Clear() error
}

// AuthService registers accounts and manages the client session.
type AuthService struct {
	api      *APIService
	sessions SessionStore
	profiles *ProfileService
	logger   *log.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(api *APIService, sessions SessionStore, profiles *ProfileService, logger *log.Logger) *AuthService {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &AuthService{api: api, sessions: sessions, profiles: profiles, logger: logger}
}

// Register creates an account. The session is not changed.
func (s *AuthService) Register(ctx context.Context, reg models.Registration) error {
	if err := models.Validate(reg); err != nil {
		return err
	}

	if _, err := s.api.PostJSON(ctx, "/register", reg.Credentials(), false); err != nil {
		return err
	}

	s.logger.Info("registered", "username", reg.Username)
	return nil
}

// Login verifies creds, stores them as the session and loads the profile.
//
// The session is kept when only the profile fetch fails; the returned error then
// describes the fetch.
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (*models.Profile, error) {
	if err := models.Validate(creds); err != nil {
		return nil, err
	}

	if _, err := s.api.PostJSON(ctx, "/login", creds, false); err != nil {
		return nil, err
	}

	session := models.Session{Username: creds.Username, Email: creds.Email, Password: creds.Password}
	if err := s.sessions.Save(session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	s.logger.Info("logged in", "username", creds.Username)

	profile, err := s.profiles.FetchProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("logged in but failed to load profile: %w", err)
	}
	return profile, nil
}

// Logout discards the session, the last viewed section and the cached profile.
func (s *AuthService) Logout() error {
	s.profiles.Reset()
	if err := s.sessions.Clear(); err != nil {
		return err
	}
	s.logger.Info("logged out")
	return nil
}

// Resume restores the persisted session at startup.
//
// Rejected credentials clear the session and yield [shared.ErrNotAuthenticated].
// A transport failure keeps the session so a later attempt can succeed.
func (s *AuthService) Resume(ctx context.Context) (*models.Session, *models.Profile, error) {
	session, err := s.sessions.Load()
	if err != nil {
		return nil, nil, shared.ErrNotAuthenticated
	}

	profile, err := s.profiles.FetchProfile(ctx)
	switch {
	case err == nil:
		return session, profile, nil
	case errors.Is(err, shared.ErrNotAuthenticated):
		s.logger.Debug("stored session rejected", "username", session.Username)
		if clearErr := s.sessions.Clear(); clearErr != nil {
			return nil, nil, clearErr
		}
		return nil, nil, shared.ErrNotAuthenticated
	default:
		return session, nil, err
	}
}

// Current returns the logged in session.
func (s *AuthService) Current() (*models.Session, error) {
	return s.sessions.Current()
}
