package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"agroapi/internal/model"
	"agroapi/internal/repository"
)

var (
	ErrJobNameRequired  = errors.New("job_name is required")
	ErrNegativeOutput   = errors.New("expected output cannot be negative")
	ErrDuplicateJobName = errors.New("job type already exists")
)

// CreateJobTypeInput carries a new daily job type.
type CreateJobTypeInput struct {
	JobName                 string  `json:"job_name" validate:"required,min=2,max=64"`
	Category                string  `json:"category" validate:"max=64"`
	Unit                    string  `json:"unit" validate:"max=16"`
	ExpectedOutputPerWorker float64 `json:"expected_output_per_worker"`
}

// JobTypeService defines the daily job catalog use cases. Reads are served
// through a Redis cache when one is wired in.
type JobTypeService interface {
	// List returns the full catalog ordered by name.
	List(ctx context.Context) ([]model.JobType, error)

	// Create adds a job type to the catalog.
	Create(ctx context.Context, in CreateJobTypeInput) (*model.JobType, error)
}

type jobTypeService struct {
	types repository.JobTypeRepository
}

// NewJobTypeService constructs a new JobTypeService.
func NewJobTypeService(types repository.JobTypeRepository) JobTypeService {
	return &jobTypeService{types: types}
}

func (s *jobTypeService) List(ctx context.Context) ([]model.JobType, error) {
	return s.types.List(ctx)
}

func (s *jobTypeService) Create(ctx context.Context, in CreateJobTypeInput) (*model.JobType, error) {
	name := strings.TrimSpace(in.JobName)
	if name == "" {
		return nil, ErrJobNameRequired
	}
	if in.ExpectedOutputPerWorker < 0 {
		return nil, ErrNegativeOutput
	}

	// The catalog is small; a list scan keeps duplicate detection off the
	// schema's unique index error path.
	existing, err := s.types.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list job types: %w", err)
	}
	for i := range existing {
		if strings.EqualFold(existing[i].JobName, name) {
			return nil, ErrDuplicateJobName
		}
	}

	jt := &model.JobType{
		ID:                      uuid.New().String(),
		JobName:                 strings.ToLower(name),
		Category:                strings.TrimSpace(in.Category),
		Unit:                    strings.TrimSpace(in.Unit),
		ExpectedOutputPerWorker: in.ExpectedOutputPerWorker,
		CreatedAt:               time.Now().UTC(),
	}

	stored, err := s.types.Create(ctx, jt)
	if err != nil {
		return nil, fmt.Errorf("create job type: %w", err)
	}
	return stored, nil
}
