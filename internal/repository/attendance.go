package repository

import (
	"context"
	"time"

	"agroapi/internal/model"
)

// TypeBreakdown aggregates one person type's attendance within a window.
type TypeBreakdown struct {
	PersonType string
	Count      int
	AvgHours   float64
}

// AttendanceRepository defines data access for attendance logs.
type AttendanceRepository interface {
	// Create inserts an attendance log and returns the stored row.
	Create(ctx context.Context, a *model.AttendanceLog) (*model.AttendanceLog, error)

	// OpenForPersonOn returns the person's open (checked_in) log whose
	// check_in falls within [dayStart, dayEnd), or sql.ErrNoRows.
	OpenForPersonOn(ctx context.Context, personID string, dayStart, dayEnd time.Time) (*model.AttendanceLog, error)

	// CloseOut sets check_out and flips status on the given log.
	CloseOut(ctx context.Context, id string, out time.Time) (*model.AttendanceLog, error)

	// ListBetween returns logs whose check_in falls within [from, to),
	// oldest first.
	ListBetween(ctx context.Context, from, to time.Time) ([]model.AttendanceLog, error)

	// ListForPerson returns a person's logs within [from, to), oldest first.
	ListForPerson(ctx context.Context, personID string, from, to time.Time) ([]model.AttendanceLog, error)

	// RecentByMethod returns the newest logs captured with the given method
	// since the cutoff.
	RecentByMethod(ctx context.Context, method string, since time.Time, limit int) ([]model.AttendanceLog, error)

	// ExistsAt reports whether a log already exists for the dedupe key
	// (person_id, check_in, device_id).
	ExistsAt(ctx context.Context, personID string, checkIn time.Time, deviceID string) (bool, error)

	// SummarizeByType groups logs within [from, to) by the person's type,
	// counting distinct people and averaging closed-log hours.
	SummarizeByType(ctx context.Context, from, to time.Time) ([]TypeBreakdown, error)
}
