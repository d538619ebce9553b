package model

import "time"

// Dispatch trip statuses.
const (
	TripCreated   = "created"
	TripInTransit = "in_transit"
	TripDelivered = "delivered"
)

// Dispatch is a vehicle trip carrying harvested sacks from the estate to the
// processing plant.
type Dispatch struct {
	ID             string     `json:"id"`
	VehicleNo      string     `json:"vehicle_no"`
	DriverID       string     `json:"driver_id"`
	LotID          string     `json:"lot_id,omitempty"`
	SackCount      int        `json:"sack_count"`
	TripStatus     string     `json:"trip_status"`
	TrackingActive bool       `json:"tracking_active"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// GPSLog is a single location sample for a tracked dispatch, annotated with
// the geofence evaluation at ingest time.
type GPSLog struct {
	ID          string    `json:"id"`
	DispatchID  string    `json:"dispatch_id"`
	DriverID    string    `json:"driver_id"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	SpeedKPH    float64   `json:"speed_kph,omitempty"`
	AccuracyM   float64   `json:"accuracy_m,omitempty"`
	DeviceID    string    `json:"device_id,omitempty"`
	RecordedAt  time.Time `json:"recorded_at"`
	InsideFence bool      `json:"inside_fence"`
	NearestSite string    `json:"nearest_site,omitempty"`
	DistanceKM  float64   `json:"distance_km"`
	CreatedAt   time.Time `json:"created_at"`
}

// Geofence alert types.
const (
	AlertRouteDeviation = "route_deviation"
)

// GeofenceAlert records a location sample that fell outside every site fence.
type GeofenceAlert struct {
	ID         string    `json:"id"`
	DispatchID string    `json:"dispatch_id"`
	DriverID   string    `json:"driver_id"`
	AlertType  string    `json:"alert_type"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	DistanceKM float64   `json:"distance_km"`
	CreatedAt  time.Time `json:"created_at"`
}
