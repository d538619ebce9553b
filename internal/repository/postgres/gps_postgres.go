package postgres

import (
	"context"
	"database/sql"
	"time"

	"agroapi/internal/model"
	"agroapi/internal/repository"
)

// GPSPostgres is a PostgreSQL implementation of repository.GPSRepository.
type GPSPostgres struct {
	db *sql.DB
}

// NewGPSPostgres creates a new GPSPostgres repository.
func NewGPSPostgres(db *sql.DB) *GPSPostgres {
	return &GPSPostgres{db: db}
}

var _ repository.GPSRepository = (*GPSPostgres)(nil)

const gpsLogColumns = `id, dispatch_id, driver_id, latitude, longitude, speed_kph, accuracy_m, device_id, recorded_at, inside_fence, nearest_site, distance_km, created_at`

func scanGPSLog(row rowScanner) (*model.GPSLog, error) {
	var g model.GPSLog
	if err := row.Scan(
		&g.ID,
		&g.DispatchID,
		&g.DriverID,
		&g.Latitude,
		&g.Longitude,
		&g.SpeedKPH,
		&g.AccuracyM,
		&g.DeviceID,
		&g.RecordedAt,
		&g.InsideFence,
		&g.NearestSite,
		&g.DistanceKM,
		&g.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &g, nil
}

// InsertLog stores a location sample and returns the stored record.
func (r *GPSPostgres) InsertLog(ctx context.Context, g *model.GPSLog) (*model.GPSLog, error) {
	const q = `
		INSERT INTO gps_tracking_logs (id, dispatch_id, driver_id, latitude, longitude, speed_kph, accuracy_m, device_id, recorded_at, inside_fence, nearest_site, distance_km, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + gpsLogColumns

	row := r.db.QueryRowContext(ctx, q,
		g.ID,
		g.DispatchID,
		g.DriverID,
		g.Latitude,
		g.Longitude,
		g.SpeedKPH,
		g.AccuracyM,
		g.DeviceID,
		g.RecordedAt,
		g.InsideFence,
		g.NearestSite,
		g.DistanceKM,
		g.CreatedAt,
	)
	return scanGPSLog(row)
}

// LogExists reports whether a sample with the same dispatch, instant and device is already stored.
func (r *GPSPostgres) LogExists(ctx context.Context, dispatchID string, recordedAt time.Time, deviceID string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM gps_tracking_logs WHERE dispatch_id = $1 AND recorded_at = $2 AND device_id = $3)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, q, dispatchID, recordedAt, deviceID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Track returns the newest samples for a dispatch, newest first.
func (r *GPSPostgres) Track(ctx context.Context, dispatchID string, limit int) ([]model.GPSLog, error) {
	const q = `
		SELECT ` + gpsLogColumns + `
		FROM gps_tracking_logs
		WHERE dispatch_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, q, dispatchID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]model.GPSLog, 0)
	for rows.Next() {
		g, err := scanGPSLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

// InsertAlert stores a geofence alert row.
func (r *GPSPostgres) InsertAlert(ctx context.Context, a *model.GeofenceAlert) error {
	const q = `
		INSERT INTO geofence_alerts (id, dispatch_id, driver_id, alert_type, latitude, longitude, distance_km, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, q,
		a.ID,
		a.DispatchID,
		a.DriverID,
		a.AlertType,
		a.Latitude,
		a.Longitude,
		a.DistanceKM,
		a.CreatedAt,
	)
	return err
}
