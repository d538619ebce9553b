package postgres

import (
	"context"
	"database/sql"

	"agroapi/internal/model"
	"agroapi/internal/repository"
)

// OnboardingPostgres is a PostgreSQL implementation of repository.OnboardingRepository.
type OnboardingPostgres struct {
	db *sql.DB
}

// NewOnboardingPostgres creates a new OnboardingPostgres repository.
func NewOnboardingPostgres(db *sql.DB) *OnboardingPostgres {
	return &OnboardingPostgres{db: db}
}

var _ repository.OnboardingRepository = (*OnboardingPostgres)(nil)

const onboardingColumns = `id, first_name, last_name, mobile, address, role, id_number, entity_type, face_path, document_path, status, review_note, reviewed_by, staff_id, created_at, updated_at`

func scanOnboarding(row rowScanner) (*model.OnboardingRequest, error) {
	var o model.OnboardingRequest
	if err := row.Scan(
		&o.ID,
		&o.FirstName,
		&o.LastName,
		&o.Mobile,
		&o.Address,
		&o.Role,
		&o.IDNumber,
		&o.EntityType,
		&o.FacePath,
		&o.DocumentPath,
		&o.Status,
		&o.ReviewNote,
		&o.ReviewedBy,
		&o.StaffID,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts an onboarding request row and returns the stored record.
func (r *OnboardingPostgres) Create(ctx context.Context, o *model.OnboardingRequest) (*model.OnboardingRequest, error) {
	const q = `
		INSERT INTO onboarding_requests (id, first_name, last_name, mobile, address, role, id_number, entity_type, face_path, document_path, status, review_note, reviewed_by, staff_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + onboardingColumns

	row := r.db.QueryRowContext(ctx, q,
		o.ID,
		o.FirstName,
		o.LastName,
		o.Mobile,
		o.Address,
		o.Role,
		o.IDNumber,
		o.EntityType,
		o.FacePath,
		o.DocumentPath,
		o.Status,
		o.ReviewNote,
		o.ReviewedBy,
		o.StaffID,
		o.CreatedAt,
		o.UpdatedAt,
	)
	return scanOnboarding(row)
}

// FindByID fetches a single onboarding request by primary key.
func (r *OnboardingPostgres) FindByID(ctx context.Context, id string) (*model.OnboardingRequest, error) {
	const q = `SELECT ` + onboardingColumns + ` FROM onboarding_requests WHERE id = $1`
	return scanOnboarding(r.db.QueryRowContext(ctx, q, id))
}

// ListByStatus returns requests in a given status, oldest first.
// An empty status returns everything.
func (r *OnboardingPostgres) ListByStatus(ctx context.Context, status string) ([]model.OnboardingRequest, error) {
	q := `SELECT ` + onboardingColumns + ` FROM onboarding_requests ORDER BY created_at ASC`
	args := []any{}
	if status != "" {
		q = `SELECT ` + onboardingColumns + ` FROM onboarding_requests WHERE status = $1 ORDER BY created_at ASC`
		args = append(args, status)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reqs := make([]model.OnboardingRequest, 0)
	for rows.Next() {
		o, err := scanOnboarding(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reqs, nil
}

// Update rewrites the review fields and returns the stored row.
func (r *OnboardingPostgres) Update(ctx context.Context, o *model.OnboardingRequest) (*model.OnboardingRequest, error) {
	const q = `
		UPDATE onboarding_requests
		SET status = $2, review_note = $3, reviewed_by = $4, staff_id = $5, updated_at = $6
		WHERE id = $1
		RETURNING ` + onboardingColumns

	row := r.db.QueryRowContext(ctx, q,
		o.ID,
		o.Status,
		o.ReviewNote,
		o.ReviewedBy,
		o.StaffID,
		o.UpdatedAt,
	)
	return scanOnboarding(row)
}

// CountByStatus groups requests by status.
func (r *OnboardingPostgres) CountByStatus(ctx context.Context) (map[string]int, error) {
	const q = `SELECT status, COUNT(*) FROM onboarding_requests GROUP BY status`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		out[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
