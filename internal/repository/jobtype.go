package repository

import (
	"context"

	"agroapi/internal/model"
)

// JobTypeRepository defines data access for daily job types.
type JobTypeRepository interface {
	// List returns all job types ordered by name.
	List(ctx context.Context) ([]model.JobType, error)

	// Create inserts a job type and returns the stored row.
	Create(ctx context.Context, jt *model.JobType) (*model.JobType, error)
}
