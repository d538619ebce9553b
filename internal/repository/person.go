package repository

import (
	"context"
	"time"

	"agroapi/internal/model"
)

// PersonFilter narrows person listings. Zero values mean "any".
// RolePrefix matches the staff_id prefix; Search matches name or staff_id.
type PersonFilter struct {
	RolePrefix string
	Search     string
	Status     string
	PersonType string
}

// PersonRepository defines data access for person records using SQL queries only.
// No business logic here — strictly persistence operations.
type PersonRepository interface {
	// Create inserts a new person record and returns the stored row.
	Create(ctx context.Context, p *model.Person) (*model.Person, error)

	// FindByID returns a person by primary key.
	FindByID(ctx context.Context, id string) (*model.Person, error)

	// FindByStaffID returns a person by staff ID.
	FindByStaffID(ctx context.Context, staffID string) (*model.Person, error)

	// List returns a paginated, filtered page of persons with a total count.
	List(ctx context.Context, f PersonFilter, pq PageQuery) (*PageResult[model.Person], error)

	// Update rewrites the mutable profile fields and returns the stored row.
	Update(ctx context.Context, p *model.Person) (*model.Person, error)

	// Delete removes a person by ID. It returns nil if the row did not exist.
	Delete(ctx context.Context, id string) error

	// UpdateFaceEmbedding stores the embedding and enrollment timestamp.
	UpdateFaceEmbedding(ctx context.Context, id string, embedding []float64, at time.Time) error

	// CountByPrefix groups active persons by the segment of staff_id before
	// the first dash. IDs without a dash group under "".
	CountByPrefix(ctx context.Context) (map[string]int, error)

	// CountCreatedSince returns how many persons were registered at or after
	// the cutoff.
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}
