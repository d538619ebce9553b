package postgres

import (
	"context"
	"database/sql"

	"agroapi/internal/model"
	"agroapi/internal/repository"
)

// ProvisionPostgres is a PostgreSQL implementation of repository.ProvisionRepository.
type ProvisionPostgres struct {
	db *sql.DB
}

// NewProvisionPostgres creates a new ProvisionPostgres repository.
func NewProvisionPostgres(db *sql.DB) *ProvisionPostgres {
	return &ProvisionPostgres{db: db}
}

var _ repository.ProvisionRepository = (*ProvisionPostgres)(nil)

const provisionColumns = `id, item_type, description, estimated_cost, vendor_note, requested_by, status, review_note, reviewed_by, approved_by, vendor_id, created_at, updated_at`

func scanProvision(row rowScanner) (*model.ProvisionRequest, error) {
	var p model.ProvisionRequest
	if err := row.Scan(
		&p.ID,
		&p.ItemType,
		&p.Description,
		&p.EstimatedCost,
		&p.VendorNote,
		&p.RequestedBy,
		&p.Status,
		&p.ReviewNote,
		&p.ReviewedBy,
		&p.ApprovedBy,
		&p.VendorID,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a provision request row and returns the stored record.
func (r *ProvisionPostgres) Create(ctx context.Context, p *model.ProvisionRequest) (*model.ProvisionRequest, error) {
	const q = `
		INSERT INTO provision_requests (id, item_type, description, estimated_cost, vendor_note, requested_by, status, review_note, reviewed_by, approved_by, vendor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + provisionColumns

	row := r.db.QueryRowContext(ctx, q,
		p.ID,
		p.ItemType,
		p.Description,
		p.EstimatedCost,
		p.VendorNote,
		p.RequestedBy,
		p.Status,
		p.ReviewNote,
		p.ReviewedBy,
		p.ApprovedBy,
		p.VendorID,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return scanProvision(row)
}

// FindByID fetches a single provision request by primary key.
func (r *ProvisionPostgres) FindByID(ctx context.Context, id string) (*model.ProvisionRequest, error) {
	const q = `SELECT ` + provisionColumns + ` FROM provision_requests WHERE id = $1`
	return scanProvision(r.db.QueryRowContext(ctx, q, id))
}

// ListByStatus returns requests in a given workflow status, oldest first.
// An empty status returns everything.
func (r *ProvisionPostgres) ListByStatus(ctx context.Context, status string) ([]model.ProvisionRequest, error) {
	q := `SELECT ` + provisionColumns + ` FROM provision_requests ORDER BY created_at ASC`
	args := []any{}
	if status != "" {
		q = `SELECT ` + provisionColumns + ` FROM provision_requests WHERE status = $1 ORDER BY created_at ASC`
		args = append(args, status)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reqs := make([]model.ProvisionRequest, 0)
	for rows.Next() {
		p, err := scanProvision(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reqs, nil
}

// Update rewrites the workflow fields and returns the stored row.
func (r *ProvisionPostgres) Update(ctx context.Context, p *model.ProvisionRequest) (*model.ProvisionRequest, error) {
	const q = `
		UPDATE provision_requests
		SET status = $2, review_note = $3, reviewed_by = $4, approved_by = $5, vendor_id = $6, updated_at = $7
		WHERE id = $1
		RETURNING ` + provisionColumns

	row := r.db.QueryRowContext(ctx, q,
		p.ID,
		p.Status,
		p.ReviewNote,
		p.ReviewedBy,
		p.ApprovedBy,
		p.VendorID,
		p.UpdatedAt,
	)
	return scanProvision(row)
}
