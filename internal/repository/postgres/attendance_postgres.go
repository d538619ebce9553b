package postgres

import (
	"context"
	"database/sql"
	"time"

	"agroapi/internal/model"
	"agroapi/internal/repository"
)

// AttendancePostgres is a PostgreSQL implementation of repository.AttendanceRepository.
type AttendancePostgres struct {
	db *sql.DB
}

// NewAttendancePostgres creates a new AttendancePostgres repository.
func NewAttendancePostgres(db *sql.DB) *AttendancePostgres {
	return &AttendancePostgres{db: db}
}

var _ repository.AttendanceRepository = (*AttendancePostgres)(nil)

const attendanceColumns = `id, person_id, check_in, check_out, method, status, location, confidence, device_id, recorded_by, created_at`

func scanAttendance(row rowScanner) (*model.AttendanceLog, error) {
	var a model.AttendanceLog
	var checkOut sql.NullTime
	var confidence sql.NullFloat64
	if err := row.Scan(
		&a.ID,
		&a.PersonID,
		&a.CheckIn,
		&checkOut,
		&a.Method,
		&a.Status,
		&a.Location,
		&confidence,
		&a.DeviceID,
		&a.RecordedBy,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	if checkOut.Valid {
		t := checkOut.Time
		a.CheckOut = &t
	}
	if confidence.Valid {
		c := confidence.Float64
		a.Confidence = &c
	}
	return &a, nil
}

// Create inserts an attendance log row and returns the stored record.
func (r *AttendancePostgres) Create(ctx context.Context, a *model.AttendanceLog) (*model.AttendanceLog, error) {
	const q = `
		INSERT INTO attendance_logs (id, person_id, check_in, check_out, method, status, location, confidence, device_id, recorded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + attendanceColumns

	row := r.db.QueryRowContext(ctx, q,
		a.ID,
		a.PersonID,
		a.CheckIn,
		a.CheckOut,
		a.Method,
		a.Status,
		a.Location,
		a.Confidence,
		a.DeviceID,
		a.RecordedBy,
		a.CreatedAt,
	)
	return scanAttendance(row)
}

// OpenForPersonOn returns the latest still-open log for a person within a day window.
func (r *AttendancePostgres) OpenForPersonOn(ctx context.Context, personID string, dayStart, dayEnd time.Time) (*model.AttendanceLog, error) {
	const q = `
		SELECT ` + attendanceColumns + `
		FROM attendance_logs
		WHERE person_id = $1 AND status = $2 AND check_in >= $3 AND check_in < $4
		ORDER BY check_in DESC
		LIMIT 1`

	return scanAttendance(r.db.QueryRowContext(ctx, q, personID, model.AttendanceCheckedIn, dayStart, dayEnd))
}

// CloseOut stamps the check-out time on an open log and returns the updated row.
func (r *AttendancePostgres) CloseOut(ctx context.Context, id string, out time.Time) (*model.AttendanceLog, error) {
	const q = `
		UPDATE attendance_logs
		SET check_out = $2, status = $3
		WHERE id = $1
		RETURNING ` + attendanceColumns

	return scanAttendance(r.db.QueryRowContext(ctx, q, id, out, model.AttendanceCheckedOut))
}

// ListBetween returns all logs whose check-in falls inside [from, to).
func (r *AttendancePostgres) ListBetween(ctx context.Context, from, to time.Time) ([]model.AttendanceLog, error) {
	const q = `
		SELECT ` + attendanceColumns + `
		FROM attendance_logs
		WHERE check_in >= $1 AND check_in < $2
		ORDER BY check_in ASC`

	return r.queryLogs(ctx, q, from, to)
}

// ListForPerson returns a single person's logs inside [from, to).
func (r *AttendancePostgres) ListForPerson(ctx context.Context, personID string, from, to time.Time) ([]model.AttendanceLog, error) {
	const q = `
		SELECT ` + attendanceColumns + `
		FROM attendance_logs
		WHERE person_id = $1 AND check_in >= $2 AND check_in < $3
		ORDER BY check_in ASC`

	return r.queryLogs(ctx, q, personID, from, to)
}

// RecentByMethod returns the newest logs recorded with the given method since a cutoff.
func (r *AttendancePostgres) RecentByMethod(ctx context.Context, method string, since time.Time, limit int) ([]model.AttendanceLog, error) {
	const q = `
		SELECT ` + attendanceColumns + `
		FROM attendance_logs
		WHERE method = $1 AND check_in >= $2
		ORDER BY check_in DESC
		LIMIT $3`

	return r.queryLogs(ctx, q, method, since, limit)
}

// ExistsAt reports whether a log with the same person, check-in instant and device already exists.
func (r *AttendancePostgres) ExistsAt(ctx context.Context, personID string, checkIn time.Time, deviceID string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM attendance_logs WHERE person_id = $1 AND check_in = $2 AND device_id = $3)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, q, personID, checkIn, deviceID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// SummarizeByType groups a window's logs by person type, joined against the
// directory. Open logs count people but contribute no hours.
func (r *AttendancePostgres) SummarizeByType(ctx context.Context, from, to time.Time) ([]repository.TypeBreakdown, error) {
	const q = `
		SELECT p.person_type,
		       COUNT(DISTINCT a.person_id),
		       COALESCE(AVG(EXTRACT(EPOCH FROM (a.check_out - a.check_in)) / 3600), 0)
		FROM attendance_logs a
		JOIN person_records p ON p.id = a.person_id
		WHERE a.check_in >= $1 AND a.check_in < $2
		GROUP BY p.person_type
		ORDER BY p.person_type ASC`

	rows, err := r.db.QueryContext(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]repository.TypeBreakdown, 0)
	for rows.Next() {
		var b repository.TypeBreakdown
		if err := rows.Scan(&b.PersonType, &b.Count, &b.AvgHours); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AttendancePostgres) queryLogs(ctx context.Context, q string, args ...any) ([]model.AttendanceLog, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]model.AttendanceLog, 0)
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}
