package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"agroapi/internal/auth"
	"agroapi/internal/geo"
	"agroapi/internal/model"
	"agroapi/internal/repository"
)

var (
	ErrVehicleRequired    = errors.New("vehicle_no is required")
	ErrDriverRequired     = errors.New("driver_id is required")
	ErrDispatchNotFound   = errors.New("dispatch not found")
	ErrTripCompleted      = errors.New("trip already completed")
	ErrTrackingInactive   = errors.New("tracking is not active for this dispatch")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrNotTripDriver      = errors.New("dispatch belongs to another driver")
)

// CreateDispatchInput carries a new trip from the estate to the plant.
type CreateDispatchInput struct {
	VehicleNo string `json:"vehicle_no" validate:"required,min=2,max=20"`
	DriverID  string `json:"driver_id" validate:"required"`
	LotID     string `json:"lot_id" validate:"max=32"`
	SackCount int    `json:"sack_count" validate:"gte=0"`
}

// LogLocationInput is one GPS sample from a driver's phone.
type LogLocationInput struct {
	DispatchID string    `json:"dispatch_id" validate:"required"`
	DriverID   string    `json:"-"`
	Latitude   float64   `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude  float64   `json:"longitude" validate:"gte=-180,lte=180"`
	SpeedKPH   float64   `json:"speed_kph"`
	AccuracyM  float64   `json:"accuracy_m"`
	DeviceID   string    `json:"device_id" validate:"max=64"`
	RecordedAt time.Time `json:"recorded_at"`
}

// LocationResult pairs a stored sample with its fence evaluation. Created is
// false when the sample was a duplicate and skipped.
type LocationResult struct {
	Log     *model.GPSLog `json:"log"`
	Created bool          `json:"created"`
}

// GPSService defines dispatch trips and live location tracking. Every sample
// is checked against the site geofences; samples outside all fences raise a
// route deviation alert.
type GPSService interface {
	// CreateDispatch registers a trip in created status.
	CreateDispatch(ctx context.Context, in CreateDispatchInput) (*model.Dispatch, error)

	// GetDispatch returns a dispatch by ID.
	GetDispatch(ctx context.Context, id string) (*model.Dispatch, error)

	// StartTracking begins location capture for a trip.
	StartTracking(ctx context.Context, dispatchID, driverID string) (*model.Dispatch, error)

	// StopTracking pauses location capture without completing the trip.
	StopTracking(ctx context.Context, dispatchID, driverID string) (*model.Dispatch, error)

	// CompleteTrip marks the dispatch delivered.
	CompleteTrip(ctx context.Context, dispatchID, driverID string) (*model.Dispatch, error)

	// LogLocation ingests one GPS sample, deduplicating by
	// (dispatch, recorded_at, device).
	LogLocation(ctx context.Context, in LogLocationInput) (*LocationResult, error)

	// Track returns the newest samples for a dispatch.
	Track(ctx context.Context, dispatchID string, limit int) ([]model.GPSLog, error)

	// ActiveDispatches returns trips currently being tracked.
	ActiveDispatches(ctx context.Context) ([]model.Dispatch, error)
}

type gpsService struct {
	dispatches repository.DispatchRepository
	samples    repository.GPSRepository
	notifier   Notifier
	sites      []geo.Site
	radiusKM   float64
}

// NewGPSService constructs a new GPSService. notifier may be nil.
func NewGPSService(dispatches repository.DispatchRepository, samples repository.GPSRepository, notifier Notifier, sites []geo.Site, radiusKM float64) GPSService {
	return &gpsService{
		dispatches: dispatches,
		samples:    samples,
		notifier:   notifier,
		sites:      sites,
		radiusKM:   radiusKM,
	}
}

func (s *gpsService) CreateDispatch(ctx context.Context, in CreateDispatchInput) (*model.Dispatch, error) {
	vehicle := strings.ToUpper(strings.TrimSpace(in.VehicleNo))
	if vehicle == "" {
		return nil, ErrVehicleRequired
	}
	driver := strings.ToUpper(strings.TrimSpace(in.DriverID))
	if driver == "" {
		return nil, ErrDriverRequired
	}
	if in.SackCount < 0 {
		return nil, fmt.Errorf("sack_count cannot be negative")
	}

	d := &model.Dispatch{
		ID:         uuid.New().String(),
		VehicleNo:  vehicle,
		DriverID:   driver,
		LotID:      strings.ToUpper(strings.TrimSpace(in.LotID)),
		SackCount:  in.SackCount,
		TripStatus: model.TripCreated,
		CreatedAt:  time.Now().UTC(),
	}

	stored, err := s.dispatches.Create(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("create dispatch: %w", err)
	}
	return stored, nil
}

func (s *gpsService) GetDispatch(ctx context.Context, id string) (*model.Dispatch, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	d, err := s.dispatches.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDispatchNotFound
		}
		return nil, err
	}
	return d, nil
}

// guardDriver verifies the dispatch exists, is not finished and, when
// driverID is non-empty, belongs to that driver.
func (s *gpsService) guardDriver(ctx context.Context, dispatchID, driverID string) (*model.Dispatch, error) {
	d, err := s.GetDispatch(ctx, dispatchID)
	if err != nil {
		return nil, err
	}
	if d.TripStatus == model.TripDelivered {
		return nil, ErrTripCompleted
	}
	if driverID != "" && !strings.EqualFold(d.DriverID, driverID) {
		return nil, ErrNotTripDriver
	}
	return d, nil
}

func (s *gpsService) StartTracking(ctx context.Context, dispatchID, driverID string) (*model.Dispatch, error) {
	if _, err := s.guardDriver(ctx, dispatchID, driverID); err != nil {
		return nil, err
	}
	return s.dispatches.SetTracking(ctx, dispatchID, true, time.Now().UTC())
}

func (s *gpsService) StopTracking(ctx context.Context, dispatchID, driverID string) (*model.Dispatch, error) {
	if _, err := s.guardDriver(ctx, dispatchID, driverID); err != nil {
		return nil, err
	}
	return s.dispatches.SetTracking(ctx, dispatchID, false, time.Now().UTC())
}

func (s *gpsService) CompleteTrip(ctx context.Context, dispatchID, driverID string) (*model.Dispatch, error) {
	if _, err := s.guardDriver(ctx, dispatchID, driverID); err != nil {
		return nil, err
	}
	return s.dispatches.Complete(ctx, dispatchID, time.Now().UTC())
}

func validCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func (s *gpsService) LogLocation(ctx context.Context, in LogLocationInput) (*LocationResult, error) {
	if !validCoordinates(in.Latitude, in.Longitude) {
		return nil, ErrInvalidCoordinates
	}

	d, err := s.guardDriver(ctx, in.DispatchID, in.DriverID)
	if err != nil {
		return nil, err
	}
	if !d.TrackingActive {
		return nil, ErrTrackingInactive
	}

	recordedAt := in.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}
	deviceID := strings.TrimSpace(in.DeviceID)

	exists, err := s.samples.LogExists(ctx, d.ID, recordedAt, deviceID)
	if err != nil {
		return nil, err
	}
	if exists {
		return &LocationResult{Created: false}, nil
	}

	fence := geo.CheckFence(in.Latitude, in.Longitude, s.sites, s.radiusKM)

	log := &model.GPSLog{
		ID:          uuid.New().String(),
		DispatchID:  d.ID,
		DriverID:    d.DriverID,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		SpeedKPH:    in.SpeedKPH,
		AccuracyM:   in.AccuracyM,
		DeviceID:    deviceID,
		RecordedAt:  recordedAt,
		InsideFence: fence.Inside,
		NearestSite: fence.NearestSite,
		DistanceKM:  fence.DistanceKM,
		CreatedAt:   time.Now().UTC(),
	}
	stored, err := s.samples.InsertLog(ctx, log)
	if err != nil {
		return nil, fmt.Errorf("insert gps log: %w", err)
	}

	if !fence.Inside {
		s.raiseDeviation(ctx, d, stored)
	}
	return &LocationResult{Log: stored, Created: true}, nil
}

func (s *gpsService) raiseDeviation(ctx context.Context, d *model.Dispatch, log *model.GPSLog) {
	trace.SpanFromContext(ctx).AddEvent("route_deviation", trace.WithAttributes(
		attribute.String("dispatch_id", d.ID),
		attribute.String("vehicle_no", d.VehicleNo),
		attribute.Float64("distance_km", log.DistanceKM),
	))

	alert := &model.GeofenceAlert{
		ID:         uuid.New().String(),
		DispatchID: d.ID,
		DriverID:   d.DriverID,
		AlertType:  model.AlertRouteDeviation,
		Latitude:   log.Latitude,
		Longitude:  log.Longitude,
		DistanceKM: log.DistanceKM,
		CreatedAt:  time.Now().UTC(),
	}
	// Alert persistence is best-effort; the sample itself is already stored.
	_ = s.samples.InsertAlert(ctx, alert)

	if s.notifier != nil {
		_ = s.notifier.NotifyRole(ctx, auth.RoleEstateManager, model.NotifyGeofence,
			"Route deviation",
			fmt.Sprintf("Vehicle %s is %.1f km from the nearest site", d.VehicleNo, log.DistanceKM),
			map[string]any{"dispatch_id": d.ID, "driver_id": d.DriverID, "distance_km": log.DistanceKM})
	}
}

func (s *gpsService) Track(ctx context.Context, dispatchID string, limit int) ([]model.GPSLog, error) {
	if _, err := s.GetDispatch(ctx, dispatchID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	return s.samples.Track(ctx, dispatchID, limit)
}

func (s *gpsService) ActiveDispatches(ctx context.Context) ([]model.Dispatch, error) {
	return s.dispatches.ListActive(ctx)
}
