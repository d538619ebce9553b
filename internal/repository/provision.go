package repository

import (
	"context"

	"agroapi/internal/model"
)

// ProvisionRepository defines data access for provision requests.
type ProvisionRepository interface {
	// Create inserts a provision request and returns the stored row.
	Create(ctx context.Context, p *model.ProvisionRequest) (*model.ProvisionRequest, error)

	// FindByID returns a provision request by ID.
	FindByID(ctx context.Context, id string) (*model.ProvisionRequest, error)

	// ListByStatus returns requests with the given status, oldest first.
	ListByStatus(ctx context.Context, status string) ([]model.ProvisionRequest, error)

	// Update rewrites the workflow fields (status, notes, reviewers, vendor)
	// and returns the stored row.
	Update(ctx context.Context, p *model.ProvisionRequest) (*model.ProvisionRequest, error)
}
