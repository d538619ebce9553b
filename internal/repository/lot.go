package repository

import (
	"context"
	"time"

	"agroapi/internal/model"
)

// LotFilter narrows lot listings. Zero time values mean "unbounded".
type LotFilter struct {
	LotID string
	From  time.Time
	To    time.Time
}

// LotRepository defines data access for harvest lots.
type LotRepository interface {
	// Create inserts a lot and returns the stored row.
	Create(ctx context.Context, l *model.Lot) (*model.Lot, error)

	// FindByLotID returns a lot by its business key (lot_id).
	FindByLotID(ctx context.Context, lotID string) (*model.Lot, error)

	// List returns lots matching the filter, newest harvest first.
	List(ctx context.Context, f LotFilter) ([]model.Lot, error)

	// UpdateWeights records the threshed weight and computed yield for a lot
	// and returns the updated row.
	UpdateWeights(ctx context.Context, lotID string, threshedKG, yieldPct float64) (*model.Lot, error)

	// CountWithPrefix returns how many lot_ids start with the prefix,
	// used to derive the next sequence number for generated IDs.
	CountWithPrefix(ctx context.Context, prefix string) (int, error)
}
