package repository

import (
	"context"
	"time"

	"agroapi/internal/model"
)

// DispatchRepository defines data access for dispatch trips.
type DispatchRepository interface {
	// Create inserts a dispatch and returns the stored row.
	Create(ctx context.Context, d *model.Dispatch) (*model.Dispatch, error)

	// FindByID returns a dispatch by ID.
	FindByID(ctx context.Context, id string) (*model.Dispatch, error)

	// SetTracking flips tracking_active and returns the updated row; when
	// activating it also records started_at and moves the trip to in_transit.
	SetTracking(ctx context.Context, id string, active bool, at time.Time) (*model.Dispatch, error)

	// Complete marks the trip delivered, stops tracking, records
	// completed_at and returns the updated row.
	Complete(ctx context.Context, id string, at time.Time) (*model.Dispatch, error)

	// ListActive returns dispatches currently being tracked.
	ListActive(ctx context.Context) ([]model.Dispatch, error)
}

// GPSRepository defines data access for tracking samples and fence alerts.
type GPSRepository interface {
	// InsertLog stores a location sample and returns the stored row.
	InsertLog(ctx context.Context, g *model.GPSLog) (*model.GPSLog, error)

	// LogExists reports whether a sample already exists for the dedupe key
	// (dispatch_id, recorded_at, device_id).
	LogExists(ctx context.Context, dispatchID string, recordedAt time.Time, deviceID string) (bool, error)

	// Track returns the newest samples for a dispatch, newest first.
	Track(ctx context.Context, dispatchID string, limit int) ([]model.GPSLog, error)

	// InsertAlert stores a geofence alert.
	InsertAlert(ctx context.Context, a *model.GeofenceAlert) error
}
