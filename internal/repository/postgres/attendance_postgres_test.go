package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"agroapi/internal/model"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var attendanceTestColumns = []string{"id", "person_id", "check_in", "check_out", "method", "status", "location", "confidence", "device_id", "recorded_by", "created_at"}

func TestAttendancePostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAttendancePostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	conf := 0.92
	a := &model.AttendanceLog{
		ID:         "log-uuid",
		PersonID:   "person-uuid",
		CheckIn:    now,
		Method:     model.MethodFace,
		Status:     model.AttendanceCheckedIn,
		Location:   "estate",
		Confidence: &conf,
		DeviceID:   "tab-07",
		RecordedBy: "SUP-VEL01",
		CreatedAt:  now,
	}

	rows := sqlmock.NewRows(attendanceTestColumns).
		AddRow(a.ID, a.PersonID, a.CheckIn, nil, a.Method, a.Status, a.Location, conf, a.DeviceID, a.RecordedBy, a.CreatedAt)

	mock.ExpectQuery("INSERT INTO attendance_logs").
		WithArgs(a.ID, a.PersonID, a.CheckIn, nil, a.Method, a.Status, a.Location, &conf, a.DeviceID, a.RecordedBy, a.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, a)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, a.PersonID, result.PersonID)
	assert.Nil(t, result.CheckOut)
	assert.NotNil(t, result.Confidence)
	assert.InDelta(t, 0.92, *result.Confidence, 1e-9)
}

func TestAttendancePostgres_OpenForPersonOn(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAttendancePostgres(db)
	ctx := context.Background()

	dayStart := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	t.Run("open log exists", func(t *testing.T) {
		rows := sqlmock.NewRows(attendanceTestColumns).
			AddRow("log-id", "person-uuid", dayStart.Add(8*time.Hour), nil, "manual", "checked_in", "", nil, "", "SUP-VEL01", dayStart)

		mock.ExpectQuery("SELECT (.+) FROM attendance_logs WHERE person_id = ?").
			WithArgs("person-uuid", model.AttendanceCheckedIn, dayStart, dayEnd).
			WillReturnRows(rows)

		log, err := repo.OpenForPersonOn(ctx, "person-uuid", dayStart, dayEnd)

		assert.NoError(t, err)
		assert.Equal(t, model.AttendanceCheckedIn, log.Status)
	})

	t.Run("none open", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM attendance_logs WHERE person_id = ?").
			WithArgs("person-uuid", model.AttendanceCheckedIn, dayStart, dayEnd).
			WillReturnError(sql.ErrNoRows)

		log, err := repo.OpenForPersonOn(ctx, "person-uuid", dayStart, dayEnd)

		assert.True(t, IsNoRowsError(err))
		assert.Nil(t, log)
	})
}

func TestAttendancePostgres_CloseOut(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAttendancePostgres(db)
	ctx := context.Background()

	checkIn := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	out := checkIn.Add(9 * time.Hour)

	rows := sqlmock.NewRows(attendanceTestColumns).
		AddRow("log-id", "person-uuid", checkIn, out, "manual", "checked_out", "", nil, "", "", checkIn)

	mock.ExpectQuery("UPDATE attendance_logs").
		WithArgs("log-id", out, model.AttendanceCheckedOut).
		WillReturnRows(rows)

	log, err := repo.CloseOut(ctx, "log-id", out)

	assert.NoError(t, err)
	assert.Equal(t, model.AttendanceCheckedOut, log.Status)
	assert.NotNil(t, log.CheckOut)
	assert.InDelta(t, 9.0, log.DurationHours(), 1e-9)
}

func TestAttendancePostgres_SummarizeByType(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAttendancePostgres(db)
	ctx := context.Background()

	from := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	rows := sqlmock.NewRows([]string{"person_type", "count", "avg"}).
		AddRow("staff", 12, 7.5).
		AddRow("supplier", 3, 0.0)

	mock.ExpectQuery("SELECT p.person_type").
		WithArgs(from, to).
		WillReturnRows(rows)

	breakdown, err := repo.SummarizeByType(ctx, from, to)

	assert.NoError(t, err)
	assert.Len(t, breakdown, 2)
	assert.Equal(t, "staff", breakdown[0].PersonType)
	assert.Equal(t, 12, breakdown[0].Count)
	assert.InDelta(t, 7.5, breakdown[0].AvgHours, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendancePostgres_ExistsAt(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAttendancePostgres(db)
	ctx := context.Background()
	at := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("person-uuid", at, "tab-07").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsAt(ctx, "person-uuid", at, "tab-07")

	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
