package model

import "time"

// Attendance capture methods.
const (
	MethodBadge  = "badge"
	MethodFace   = "face"
	MethodManual = "manual"
)

// Attendance statuses.
const (
	AttendanceCheckedIn  = "checked_in"
	AttendanceCheckedOut = "checked_out"
)

// AttendanceLog is a single check-in record, closed by a check-out.
type AttendanceLog struct {
	ID         string     `json:"id"`
	PersonID   string     `json:"person_id"`
	CheckIn    time.Time  `json:"check_in"`
	CheckOut   *time.Time `json:"check_out,omitempty"`
	Method     string     `json:"method"`
	Status     string     `json:"status"`
	Location   string     `json:"location,omitempty"`
	Confidence *float64   `json:"confidence,omitempty"`
	DeviceID   string     `json:"device_id,omitempty"`
	RecordedBy string     `json:"recorded_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// DurationHours returns worked hours for a closed log, zero while open.
func (a *AttendanceLog) DurationHours() float64 {
	if a.CheckOut == nil {
		return 0
	}
	return a.CheckOut.Sub(a.CheckIn).Hours()
}
