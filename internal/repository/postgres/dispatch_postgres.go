package postgres

import (
	"context"
	"database/sql"
	"time"

	"agroapi/internal/model"
	"agroapi/internal/repository"
)

// DispatchPostgres is a PostgreSQL implementation of repository.DispatchRepository.
type DispatchPostgres struct {
	db *sql.DB
}

// NewDispatchPostgres creates a new DispatchPostgres repository.
func NewDispatchPostgres(db *sql.DB) *DispatchPostgres {
	return &DispatchPostgres{db: db}
}

var _ repository.DispatchRepository = (*DispatchPostgres)(nil)

const dispatchColumns = `id, vehicle_no, driver_id, lot_id, sack_count, trip_status, tracking_active, started_at, completed_at, created_at`

func scanDispatch(row rowScanner) (*model.Dispatch, error) {
	var d model.Dispatch
	var startedAt, completedAt sql.NullTime
	if err := row.Scan(
		&d.ID,
		&d.VehicleNo,
		&d.DriverID,
		&d.LotID,
		&d.SackCount,
		&d.TripStatus,
		&d.TrackingActive,
		&startedAt,
		&completedAt,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	if startedAt.Valid {
		t := startedAt.Time
		d.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		d.CompletedAt = &t
	}
	return &d, nil
}

// Create inserts a dispatch row and returns the stored record.
func (r *DispatchPostgres) Create(ctx context.Context, d *model.Dispatch) (*model.Dispatch, error) {
	const q = `
		INSERT INTO dispatches (id, vehicle_no, driver_id, lot_id, sack_count, trip_status, tracking_active, started_at, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + dispatchColumns

	row := r.db.QueryRowContext(ctx, q,
		d.ID,
		d.VehicleNo,
		d.DriverID,
		d.LotID,
		d.SackCount,
		d.TripStatus,
		d.TrackingActive,
		d.StartedAt,
		d.CompletedAt,
		d.CreatedAt,
	)
	return scanDispatch(row)
}

// FindByID fetches a single dispatch by primary key.
func (r *DispatchPostgres) FindByID(ctx context.Context, id string) (*model.Dispatch, error) {
	const q = `SELECT ` + dispatchColumns + ` FROM dispatches WHERE id = $1`
	return scanDispatch(r.db.QueryRowContext(ctx, q, id))
}

// SetTracking flips the tracking flag. Starting keeps the earliest start time
// across repeated calls and moves the trip to in_transit.
func (r *DispatchPostgres) SetTracking(ctx context.Context, id string, active bool, at time.Time) (*model.Dispatch, error) {
	if active {
		const q = `
			UPDATE dispatches
			SET tracking_active = TRUE, trip_status = $3, started_at = COALESCE(started_at, $2)
			WHERE id = $1
			RETURNING ` + dispatchColumns
		return scanDispatch(r.db.QueryRowContext(ctx, q, id, at, model.TripInTransit))
	}

	const q = `
		UPDATE dispatches
		SET tracking_active = FALSE
		WHERE id = $1
		RETURNING ` + dispatchColumns
	return scanDispatch(r.db.QueryRowContext(ctx, q, id))
}

// Complete marks the trip delivered and stops tracking.
func (r *DispatchPostgres) Complete(ctx context.Context, id string, at time.Time) (*model.Dispatch, error) {
	const q = `
		UPDATE dispatches
		SET trip_status = $3, tracking_active = FALSE, completed_at = $2
		WHERE id = $1
		RETURNING ` + dispatchColumns

	return scanDispatch(r.db.QueryRowContext(ctx, q, id, at, model.TripDelivered))
}

// ListActive returns dispatches currently being tracked, newest first.
func (r *DispatchPostgres) ListActive(ctx context.Context) ([]model.Dispatch, error) {
	const q = `SELECT ` + dispatchColumns + ` FROM dispatches WHERE tracking_active ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dispatches := make([]model.Dispatch, 0)
	for rows.Next() {
		d, err := scanDispatch(rows)
		if err != nil {
			return nil, err
		}
		dispatches = append(dispatches, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return dispatches, nil
}
