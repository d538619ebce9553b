package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"agroapi/internal/model"
	"agroapi/internal/repository"
)

var (
	ErrAlreadyCheckedIn = errors.New("already checked in today")
	ErrNotCheckedIn     = errors.New("no open check-in today")
	ErrInvalidMethod    = errors.New("invalid attendance method")
	ErrCheckOutBeforeIn = errors.New("check-out before check-in")
)

// CheckInInput records a presence event for a staff member.
type CheckInInput struct {
	StaffID    string   `json:"staff_id" validate:"required"`
	Method     string   `json:"method"`
	Location   string   `json:"location" validate:"max=128"`
	Confidence *float64 `json:"confidence"`
	DeviceID   string   `json:"device_id" validate:"max=64"`
	RecordedBy string   `json:"recorded_by" validate:"max=32"`
	At         time.Time
}

// SyncEntry is one offline-captured attendance record uploaded in a batch.
type SyncEntry struct {
	StaffID  string     `json:"staff_id" validate:"required"`
	CheckIn  time.Time  `json:"check_in" validate:"required"`
	CheckOut *time.Time `json:"check_out"`
	Method   string     `json:"method"`
	Location string     `json:"location"`
	DeviceID string     `json:"device_id"`
}

// SyncResult reports the outcome of an offline batch upload. Duplicates are
// skipped, not errors: devices re-send entire batches after connectivity gaps.
type SyncResult struct {
	Synced  int      `json:"synced"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// DeptSummary aggregates one department (person type) for a day.
type DeptSummary struct {
	Department string  `json:"department"`
	Count      int     `json:"count"`
	AvgHours   float64 `json:"avg_hours"`
}

// DaySummary aggregates one calendar day of attendance.
type DaySummary struct {
	Date        string                `json:"date"`
	Present     int                   `json:"present"`
	CheckedOut  int                   `json:"checked_out"`
	TotalHours  float64               `json:"total_hours"`
	AvgHours    float64               `json:"avg_hours"`
	Departments []DeptSummary         `json:"departments"`
	Logs        []model.AttendanceLog `json:"logs"`
}

// AttendanceService defines attendance capture and reporting use cases.
// Day boundaries follow the configured site timezone, not UTC.
type AttendanceService interface {
	// CheckIn opens a log for the staff member. One open log per day.
	CheckIn(ctx context.Context, in CheckInInput) (*model.AttendanceLog, error)

	// CheckOut closes today's open log.
	CheckOut(ctx context.Context, staffID string, at time.Time) (*model.AttendanceLog, error)

	// Sync ingests offline-captured logs, skipping duplicates by the
	// (person, check_in, device) key.
	Sync(ctx context.Context, entries []SyncEntry) (*SyncResult, error)

	// Day summarizes a calendar day.
	Day(ctx context.Context, date time.Time) (*DaySummary, error)

	// History returns one person's logs within [from, to).
	History(ctx context.Context, staffID string, from, to time.Time) ([]model.AttendanceLog, error)

	// RecentScans returns the latest logs captured by one method, e.g. the
	// badge scans of the last few hours.
	RecentScans(ctx context.Context, method string, hours, limit int) ([]model.AttendanceLog, error)
}

type attendanceService struct {
	logs    repository.AttendanceRepository
	persons repository.PersonRepository
	loc     *time.Location
}

// NewAttendanceService constructs a new AttendanceService. loc sets the
// timezone used for day boundaries.
func NewAttendanceService(logs repository.AttendanceRepository, persons repository.PersonRepository, loc *time.Location) AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &attendanceService{logs: logs, persons: persons, loc: loc}
}

// dayWindow returns [start, end) of the calendar day containing t.
func (s *attendanceService) dayWindow(t time.Time) (time.Time, time.Time) {
	local := t.In(s.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	return start, start.Add(24 * time.Hour)
}

func (s *attendanceService) resolvePerson(ctx context.Context, staffID string) (*model.Person, error) {
	return findActivePerson(ctx, s.persons, staffID)
}

func validMethod(method string) bool {
	switch method {
	case model.MethodBadge, model.MethodFace, model.MethodManual:
		return true
	}
	return false
}

func (s *attendanceService) CheckIn(ctx context.Context, in CheckInInput) (*model.AttendanceLog, error) {
	person, err := s.resolvePerson(ctx, in.StaffID)
	if err != nil {
		return nil, err
	}

	if in.Method == "" {
		in.Method = model.MethodManual
	}
	if !validMethod(in.Method) {
		return nil, ErrInvalidMethod
	}

	at := in.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	dayStart, dayEnd := s.dayWindow(at)
	_, err = s.logs.OpenForPersonOn(ctx, person.ID, dayStart, dayEnd)
	if err == nil {
		return nil, ErrAlreadyCheckedIn
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	log := &model.AttendanceLog{
		ID:         uuid.New().String(),
		PersonID:   person.ID,
		CheckIn:    at,
		Method:     in.Method,
		Status:     model.AttendanceCheckedIn,
		Location:   strings.TrimSpace(in.Location),
		Confidence: in.Confidence,
		DeviceID:   strings.TrimSpace(in.DeviceID),
		RecordedBy: strings.TrimSpace(in.RecordedBy),
		CreatedAt:  time.Now().UTC(),
	}
	stored, err := s.logs.Create(ctx, log)
	if err != nil {
		return nil, fmt.Errorf("create attendance log: %w", err)
	}
	return stored, nil
}

func (s *attendanceService) CheckOut(ctx context.Context, staffID string, at time.Time) (*model.AttendanceLog, error) {
	person, err := s.resolvePerson(ctx, staffID)
	if err != nil {
		return nil, err
	}

	if at.IsZero() {
		at = time.Now().UTC()
	}

	dayStart, dayEnd := s.dayWindow(at)
	open, err := s.logs.OpenForPersonOn(ctx, person.ID, dayStart, dayEnd)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotCheckedIn
		}
		return nil, err
	}
	if at.Before(open.CheckIn) {
		return nil, ErrCheckOutBeforeIn
	}

	return s.logs.CloseOut(ctx, open.ID, at)
}

func (s *attendanceService) Sync(ctx context.Context, entries []SyncEntry) (*SyncResult, error) {
	result := &SyncResult{}

	for i, entry := range entries {
		person, err := s.resolvePerson(ctx, entry.StaffID)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("entry %d (%s): %v", i, entry.StaffID, err))
			continue
		}
		if entry.CheckIn.IsZero() {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("entry %d (%s): check_in is required", i, entry.StaffID))
			continue
		}
		if entry.CheckOut != nil && entry.CheckOut.Before(entry.CheckIn) {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("entry %d (%s): %v", i, entry.StaffID, ErrCheckOutBeforeIn))
			continue
		}

		deviceID := strings.TrimSpace(entry.DeviceID)
		exists, err := s.logs.ExistsAt(ctx, person.ID, entry.CheckIn, deviceID)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("entry %d (%s): %v", i, entry.StaffID, err))
			continue
		}
		if exists {
			result.Skipped++
			continue
		}

		method := entry.Method
		if method == "" {
			method = model.MethodManual
		}
		if !validMethod(method) {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("entry %d (%s): %v", i, entry.StaffID, ErrInvalidMethod))
			continue
		}

		status := model.AttendanceCheckedIn
		if entry.CheckOut != nil {
			status = model.AttendanceCheckedOut
		}
		log := &model.AttendanceLog{
			ID:        uuid.New().String(),
			PersonID:  person.ID,
			CheckIn:   entry.CheckIn,
			CheckOut:  entry.CheckOut,
			Method:    method,
			Status:    status,
			Location:  strings.TrimSpace(entry.Location),
			DeviceID:  deviceID,
			CreatedAt: time.Now().UTC(),
		}
		if _, err := s.logs.Create(ctx, log); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("entry %d (%s): %v", i, entry.StaffID, err))
			continue
		}
		result.Synced++
	}

	return result, nil
}

func (s *attendanceService) Day(ctx context.Context, date time.Time) (*DaySummary, error) {
	if date.IsZero() {
		date = time.Now().In(s.loc)
	}
	dayStart, dayEnd := s.dayWindow(date)

	logs, err := s.logs.ListBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	summary := &DaySummary{
		Date:        dayStart.Format("2006-01-02"),
		Departments: []DeptSummary{},
		Logs:        logs,
	}
	for i := range logs {
		summary.Present++
		if logs[i].Status == model.AttendanceCheckedOut {
			summary.CheckedOut++
			summary.TotalHours += logs[i].DurationHours()
		}
	}
	if summary.CheckedOut > 0 {
		summary.AvgHours = summary.TotalHours / float64(summary.CheckedOut)
	}

	breakdown, err := s.logs.SummarizeByType(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	for _, b := range breakdown {
		summary.Departments = append(summary.Departments, DeptSummary{
			Department: b.PersonType,
			Count:      b.Count,
			AvgHours:   b.AvgHours,
		})
	}
	return summary, nil
}

func (s *attendanceService) History(ctx context.Context, staffID string, from, to time.Time) ([]model.AttendanceLog, error) {
	// History stays readable for deactivated people.
	staffID = strings.ToUpper(strings.TrimSpace(staffID))
	if staffID == "" {
		return nil, ErrStaffIDRequired
	}
	person, err := s.persons.FindByStaffID(ctx, staffID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}

	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	return s.logs.ListForPerson(ctx, person.ID, from, to)
}

func (s *attendanceService) RecentScans(ctx context.Context, method string, hours, limit int) ([]model.AttendanceLog, error) {
	if method == "" {
		method = model.MethodBadge
	}
	if !validMethod(method) {
		return nil, ErrInvalidMethod
	}
	if hours <= 0 {
		hours = 24
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	return s.logs.RecentByMethod(ctx, method, since, limit)
}
