package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"agroapi/internal/model"
	"agroapi/internal/repository"
)

// LotPostgres is a PostgreSQL implementation of repository.LotRepository.
type LotPostgres struct {
	db *sql.DB
}

// NewLotPostgres creates a new LotPostgres repository.
func NewLotPostgres(db *sql.DB) *LotPostgres {
	return &LotPostgres{db: db}
}

var _ repository.LotRepository = (*LotPostgres)(nil)

const lotColumns = `id, lot_id, crop, raw_weight_kg, threshed_weight_kg, yield_pct, date_harvested, worker_count, created_by, created_at`

func scanLot(row rowScanner) (*model.Lot, error) {
	var l model.Lot
	if err := row.Scan(
		&l.ID,
		&l.LotID,
		&l.Crop,
		&l.RawWeightKG,
		&l.ThreshedWeightKG,
		&l.YieldPct,
		&l.DateHarvested,
		&l.WorkerCount,
		&l.CreatedBy,
		&l.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &l, nil
}

// Create inserts a lot row and returns the stored record.
func (r *LotPostgres) Create(ctx context.Context, l *model.Lot) (*model.Lot, error) {
	const q = `
		INSERT INTO lots (id, lot_id, crop, raw_weight_kg, threshed_weight_kg, yield_pct, date_harvested, worker_count, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + lotColumns

	row := r.db.QueryRowContext(ctx, q,
		l.ID,
		l.LotID,
		l.Crop,
		l.RawWeightKG,
		l.ThreshedWeightKG,
		l.YieldPct,
		l.DateHarvested,
		l.WorkerCount,
		l.CreatedBy,
		l.CreatedAt,
	)
	return scanLot(row)
}

// FindByLotID fetches a single lot by its business identifier.
func (r *LotPostgres) FindByLotID(ctx context.Context, lotID string) (*model.Lot, error) {
	const q = `SELECT ` + lotColumns + ` FROM lots WHERE lot_id = $1`
	return scanLot(r.db.QueryRowContext(ctx, q, lotID))
}

// List returns lots matching the filter, newest harvest first.
func (r *LotPostgres) List(ctx context.Context, f repository.LotFilter) ([]model.Lot, error) {
	var conds []string
	var args []any

	if f.LotID != "" {
		args = append(args, f.LotID)
		conds = append(conds, fmt.Sprintf("lot_id = $%d", len(args)))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		conds = append(conds, fmt.Sprintf("date_harvested >= $%d", len(args)))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		conds = append(conds, fmt.Sprintf("date_harvested < $%d", len(args)))
	}

	q := `SELECT ` + lotColumns + ` FROM lots`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY date_harvested DESC, lot_id DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lots := make([]model.Lot, 0)
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, err
		}
		lots = append(lots, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lots, nil
}

// UpdateWeights records the threshed weight and yield for a lot.
func (r *LotPostgres) UpdateWeights(ctx context.Context, lotID string, threshedKG, yieldPct float64) (*model.Lot, error) {
	const q = `
		UPDATE lots
		SET threshed_weight_kg = $2, yield_pct = $3
		WHERE lot_id = $1
		RETURNING ` + lotColumns

	return scanLot(r.db.QueryRowContext(ctx, q, lotID, threshedKG, yieldPct))
}

// CountWithPrefix counts lots whose lot_id starts with the given prefix.
// Used to derive the next sequence number for a harvest day.
func (r *LotPostgres) CountWithPrefix(ctx context.Context, prefix string) (int, error) {
	const q = `SELECT COUNT(*) FROM lots WHERE lot_id LIKE $1`

	var count int
	if err := r.db.QueryRowContext(ctx, q, prefix+"%").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
