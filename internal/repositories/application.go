package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/cogniapply/internal/models"
	"github.com/desertthunder/cogniapply/internal/shared"
)

// ApplicationRepository implements models.Repository[*models.ApplicationRecord] for the
// offline history of completed automation runs.
type ApplicationRepository struct {
	db *sql.DB
}

// NewApplicationRepository creates a new ApplicationRepository with the given database connection
func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts a new [models.ApplicationRecord] into the database with generated ID and sequence
func (r *ApplicationRepository) Create(record *models.ApplicationRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "applications")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	record.SetID(id)
	record.SetSequence(sequence)

	query := `
		INSERT INTO applications (id, sequence, run_id, username, job_id, job_title, company, status, applied_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	app := record.Application()
	_, err = r.db.Exec(query,
		id,
		sequence,
		record.RunID(),
		record.Username(),
		app.JobID,
		app.JobTitle,
		app.Company,
		string(app.Status),
		app.Timestamp,
		record.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert application: %w", err)
	}

	return nil
}

// Get retrieves an application by ID, excluding soft-deleted rows
func (r *ApplicationRepository) Get(id string) (*models.ApplicationRecord, error) {
	query := `
		SELECT id, sequence, run_id, username, job_id, job_title, company, status, applied_at, created_at, deleted_at
		FROM applications
		WHERE id = ? AND deleted_at IS NULL
	`

	record, err := scanApplication(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("application not found: %s", id)
	}
	return record, err
}

// Delete soft-deletes an application by ID
func (r *ApplicationRepository) Delete(id string) error {
	query := `
		UPDATE applications
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("application not found or already deleted: %s", id)
	}

	return nil
}

// Clear soft-deletes every cached application of username and returns how many were removed.
func (r *ApplicationRepository) Clear(username string) (int64, error) {
	result, err := r.db.Exec(
		"UPDATE applications SET deleted_at = ? WHERE username = ? AND deleted_at IS NULL",
		time.Now(), username,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to clear applications: %w", err)
	}
	return result.RowsAffected()
}

// List retrieves applications matching the given criteria in insertion order, excluding soft-deleted rows.
//
// Supported criteria: "username", "run_id" (strings) and "limit" (int, most recent rows).
func (r *ApplicationRepository) List(criteria map[string]any) ([]*models.ApplicationRecord, error) {
	query := `
		SELECT id, sequence, run_id, username, job_id, job_title, company, status, applied_at, created_at, deleted_at
		FROM applications
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if username, ok := criteria["username"].(string); ok && username != "" {
		query += " AND username = ?"
		args = append(args, username)
	}

	if runID, ok := criteria["run_id"].(string); ok && runID != "" {
		query += " AND run_id = ?"
		args = append(args, runID)
	}

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query = "SELECT * FROM (" + query + " ORDER BY sequence DESC LIMIT ?)"
		args = append(args, limit)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer rows.Close()

	var records []*models.ApplicationRecord
	for rows.Next() {
		record, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanApplication scans a [sql.Row] or [sql.Rows] into a [models.ApplicationRecord]
func scanApplication(s scanner) (*models.ApplicationRecord, error) {
	var (
		id        string
		sequence  int
		runID     string
		username  string
		app       models.JobApplication
		status    string
		createdAt time.Time
		deletedAt sql.NullTime
	)

	err := s.Scan(&id, &sequence, &runID, &username, &app.JobID, &app.JobTitle, &app.Company, &status, &app.Timestamp, &createdAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan application: %w", err)
	}

	app.Status = models.ApplicationStatus(status)
	record := models.NewApplicationRecord(sequence, runID, username, app)
	record.SetID(id)
	record.SetCreatedAt(createdAt)
	if deletedAt.Valid {
		record.SetDeletedAt(&deletedAt.Time)
	}

	return record, nil
}
