package postgres

import (
	"context"
	"database/sql"

	"agroapi/internal/model"
	"agroapi/internal/repository"
)

// JobTypePostgres is a PostgreSQL implementation of repository.JobTypeRepository.
type JobTypePostgres struct {
	db *sql.DB
}

// NewJobTypePostgres creates a new JobTypePostgres repository.
func NewJobTypePostgres(db *sql.DB) *JobTypePostgres {
	return &JobTypePostgres{db: db}
}

var _ repository.JobTypeRepository = (*JobTypePostgres)(nil)

const jobTypeColumns = `id, job_name, category, unit, expected_output_per_worker, created_at`

func scanJobType(row rowScanner) (*model.JobType, error) {
	var j model.JobType
	if err := row.Scan(
		&j.ID,
		&j.JobName,
		&j.Category,
		&j.Unit,
		&j.ExpectedOutputPerWorker,
		&j.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &j, nil
}

// List returns all job types ordered by name.
func (r *JobTypePostgres) List(ctx context.Context) ([]model.JobType, error) {
	const q = `SELECT ` + jobTypeColumns + ` FROM daily_job_types ORDER BY job_name ASC`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make([]model.JobType, 0)
	for rows.Next() {
		j, err := scanJobType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return types, nil
}

// Create inserts a job type row and returns the stored record.
func (r *JobTypePostgres) Create(ctx context.Context, j *model.JobType) (*model.JobType, error) {
	const q = `
		INSERT INTO daily_job_types (id, job_name, category, unit, expected_output_per_worker, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + jobTypeColumns

	row := r.db.QueryRowContext(ctx, q,
		j.ID,
		j.JobName,
		j.Category,
		j.Unit,
		j.ExpectedOutputPerWorker,
		j.CreatedAt,
	)
	return scanJobType(row)
}
