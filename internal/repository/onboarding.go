package repository

import (
	"context"

	"agroapi/internal/model"
)

// OnboardingRepository defines data access for onboarding requests.
type OnboardingRepository interface {
	// Create inserts an onboarding request and returns the stored row.
	Create(ctx context.Context, r *model.OnboardingRequest) (*model.OnboardingRequest, error)

	// FindByID returns an onboarding request by ID.
	FindByID(ctx context.Context, id string) (*model.OnboardingRequest, error)

	// ListByStatus returns requests with the given status, oldest first.
	ListByStatus(ctx context.Context, status string) ([]model.OnboardingRequest, error)

	// Update rewrites the review fields (status, note, reviewer, staff_id)
	// and returns the stored row.
	Update(ctx context.Context, r *model.OnboardingRequest) (*model.OnboardingRequest, error)

	// CountByStatus groups requests by status.
	CountByStatus(ctx context.Context) (map[string]int, error)
}
