package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/cogniapply/internal/models"
	"github.com/desertthunder/cogniapply/internal/shared"
)

const (
	keyCurrentUser = "currentUser"
	keyLastSection = "lastSection"
)

// SessionRepository persists the logged in session and the last dashboard section
// in the client_state table.
//
// At most one session exists per database. Clear removes both keys at once.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save persists s as the current user, replacing any previous session.
func (r *SessionRepository) Save(s models.Session) error {
	if s.Username == "" {
		return fmt.Errorf("%w: username is required", shared.ErrInvalidInput)
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	return r.put(keyCurrentUser, string(data))
}

// Load returns the persisted session or [shared.ErrNoSession].
func (r *SessionRepository) Load() (*models.Session, error) {
	value, err := r.get(keyCurrentUser)
	if err != nil {
		return nil, err
	}

	var s models.Session
	if err := json.Unmarshal([]byte(value), &s); err != nil {
		return nil, fmt.Errorf("%w: unreadable session: %v", shared.ErrNoSession, err)
	}
	if s.Username == "" {
		return nil, shared.ErrNoSession
	}
	return &s, nil
}

// Current returns the session used to authenticate API calls.
func (r *SessionRepository) Current() (*models.Session, error) {
	s, err := r.Load()
	if err != nil {
		return nil, &shared.AuthError{Err: err}
	}
	return s, nil
}

// Clear removes the session and the last-viewed section.
func (r *SessionRepository) Clear() error {
	_, err := r.db.Exec("DELETE FROM client_state WHERE key IN (?, ?)", keyCurrentUser, keyLastSection)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// RememberSection persists the section last shown.
func (r *SessionRepository) RememberSection(section models.Section) error {
	if _, err := models.ParseSection(string(section)); err != nil {
		return err
	}
	return r.put(keyLastSection, string(section))
}

// LastSection returns the persisted section, defaulting to [models.SectionProfile].
func (r *SessionRepository) LastSection() (models.Section, error) {
	value, err := r.get(keyLastSection)
	if errors.Is(err, shared.ErrNoSession) {
		return models.SectionProfile, nil
	}
	if err != nil {
		return models.SectionProfile, err
	}

	section, err := models.ParseSection(value)
	if err != nil {
		return models.SectionProfile, nil
	}
	return section, nil
}

func (r *SessionRepository) put(key, value string) error {
	query := `
		INSERT INTO client_state (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

func (r *SessionRepository) get(key string) (string, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM client_state WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", shared.ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}
