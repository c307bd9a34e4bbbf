package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"jobtracker/internal/domain"
)

var ErrNotFound = errors.New("job not found")

// DefaultUser is recorded in the audit columns when no user is given.
const DefaultUser = "system"

const jobColumns = `id, company, position, location, application_url, status, notes,
application_date, created_at, created_by, modified_at, modified_by`

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (domain.Job, error) {
	var (
		j      domain.Job
		id     int64
		status string
	)
	if err := s.Scan(
		&id,
		&j.Company,
		&j.Position,
		&j.Location,
		&j.ApplicationURL,
		&status,
		&j.Notes,
		&j.ApplicationDate,
		&j.CreatedAt,
		&j.CreatedBy,
		&j.ModifiedAt,
		&j.ModifiedBy,
	); err != nil {
		return domain.Job{}, err
	}
	j.ID = domain.Int64Ptr(id)
	j.Status = domain.Status(status)
	j.LastUpdated = j.ModifiedAt
	return j, nil
}

func queryJobs(ctx context.Context, db *sql.DB, query string, args ...any) ([]domain.Job, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListJobs returns every job in insertion order.
func ListJobs(ctx context.Context, db *sql.DB) ([]domain.Job, error) {
	return queryJobs(ctx, db, `SELECT `+jobColumns+` FROM jobs ORDER BY id;`)
}

func ListJobsByStatus(ctx context.Context, db *sql.DB, status domain.Status) ([]domain.Job, error) {
	return queryJobs(ctx, db, `SELECT `+jobColumns+` FROM jobs WHERE status = ? ORDER BY id;`, string(status))
}

func GetJob(ctx context.Context, db *sql.DB, id int64) (domain.Job, error) {
	row := db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?;`, id)
	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Job{}, ErrNotFound
	}
	return j, err
}

// InsertJob stores a new job. The id, application date and audit fields
// are assigned here.
func InsertJob(ctx context.Context, db *sql.DB, data domain.JobFormData, user string, now time.Time) (domain.Job, error) {
	if user == "" {
		user = DefaultUser
	}
	ts := now.UTC().Format(time.RFC3339)
	res, err := db.ExecContext(ctx, `
INSERT INTO jobs(company, position, location, application_url, status, notes,
  application_date, created_at, created_by, modified_at, modified_by)
VALUES(?,?,?,?,?,?,?,?,?,?,?);`,
		data.Company, data.Position, data.Location, data.ApplicationURL, string(data.Status), data.Notes,
		now.UTC().Format("2006-01-02"), ts, user, ts, user)
	if err != nil {
		return domain.Job{}, fmt.Errorf("insert job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Job{}, fmt.Errorf("insert job: %w", err)
	}
	return GetJob(ctx, db, id)
}

// UpdateJob overwrites the editable fields of job data.ID.
func UpdateJob(ctx context.Context, db *sql.DB, data domain.JobFormData, user string, now time.Time) (domain.Job, error) {
	if data.ID == nil {
		return domain.Job{}, ErrNotFound
	}
	if user == "" {
		user = DefaultUser
	}
	res, err := db.ExecContext(ctx, `
UPDATE jobs
SET company = ?, position = ?, location = ?, application_url = ?, status = ?, notes = ?,
  modified_at = ?, modified_by = ?
WHERE id = ?;`,
		data.Company, data.Position, data.Location, data.ApplicationURL, string(data.Status), data.Notes,
		now.UTC().Format(time.RFC3339), user, *data.ID)
	if err != nil {
		return domain.Job{}, fmt.Errorf("update job: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Job{}, ErrNotFound
	}
	return GetJob(ctx, db, *data.ID)
}

func DeleteJob(ctx context.Context, db *sql.DB, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
