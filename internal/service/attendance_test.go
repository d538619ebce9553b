package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"agroapi/internal/model"
	"agroapi/internal/repository"
	repoMocks "agroapi/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func activePerson(id, staffID string) *model.Person {
	return &model.Person{ID: id, StaffID: staffID, Status: model.PersonActive}
}

func TestAttendanceService_CheckIn(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	dayStart := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	tests := []struct {
		name       string
		in         CheckInInput
		setupMocks func(mLogs *repoMocks.MockAttendanceRepository, mPersons *repoMocks.MockPersonRepository)
		wantErr    error
	}{
		{
			name: "badge check-in",
			in:   CheckInInput{StaffID: "sup-mani", Method: model.MethodBadge, Location: "estate gate", At: at},
			setupMocks: func(mLogs *repoMocks.MockAttendanceRepository, mPersons *repoMocks.MockPersonRepository) {
				mPersons.On("FindByStaffID", ctx, "SUP-MANI").Return(activePerson("p1", "SUP-MANI"), nil)
				mLogs.On("OpenForPersonOn", ctx, "p1", dayStart, dayEnd).Return(nil, sql.ErrNoRows)
				mLogs.On("Create", ctx, mock.MatchedBy(func(l *model.AttendanceLog) bool {
					return l.PersonID == "p1" &&
						l.Method == model.MethodBadge &&
						l.Status == model.AttendanceCheckedIn &&
						l.CheckIn.Equal(at)
				})).Return(&model.AttendanceLog{ID: "a1", PersonID: "p1"}, nil)
			},
		},
		{
			name: "second check-in the same day",
			in:   CheckInInput{StaffID: "SUP-MANI", At: at},
			setupMocks: func(mLogs *repoMocks.MockAttendanceRepository, mPersons *repoMocks.MockPersonRepository) {
				mPersons.On("FindByStaffID", ctx, "SUP-MANI").Return(activePerson("p1", "SUP-MANI"), nil)
				mLogs.On("OpenForPersonOn", ctx, "p1", dayStart, dayEnd).
					Return(&model.AttendanceLog{ID: "a1"}, nil)
			},
			wantErr: ErrAlreadyCheckedIn,
		},
		{
			name: "inactive person",
			in:   CheckInInput{StaffID: "SUP-GONE", At: at},
			setupMocks: func(mLogs *repoMocks.MockAttendanceRepository, mPersons *repoMocks.MockPersonRepository) {
				mPersons.On("FindByStaffID", ctx, "SUP-GONE").
					Return(&model.Person{ID: "p2", StaffID: "SUP-GONE", Status: model.PersonInactive}, nil)
			},
			wantErr: ErrPersonInactive,
		},
		{
			name: "invalid method",
			in:   CheckInInput{StaffID: "SUP-MANI", Method: "telepathy", At: at},
			setupMocks: func(mLogs *repoMocks.MockAttendanceRepository, mPersons *repoMocks.MockPersonRepository) {
				mPersons.On("FindByStaffID", ctx, "SUP-MANI").Return(activePerson("p1", "SUP-MANI"), nil)
			},
			wantErr: ErrInvalidMethod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mLogs := new(repoMocks.MockAttendanceRepository)
			mPersons := new(repoMocks.MockPersonRepository)
			svc := NewAttendanceService(mLogs, mPersons, time.UTC)

			tt.setupMocks(mLogs, mPersons)

			log, err := svc.CheckIn(ctx, tt.in)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, log)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, log)
			}
			mLogs.AssertExpectations(t)
			mPersons.AssertExpectations(t)
		})
	}
}

func TestAttendanceService_CheckInDayWindowFollowsTimezone(t *testing.T) {
	ctx := context.Background()
	loc := time.FixedZone("IST", 5*3600+1800)

	// 2025-06-02 01:30 IST is still 2025-06-01 20:00 UTC.
	at := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	dayStart := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)
	dayEnd := dayStart.Add(24 * time.Hour)

	mLogs := new(repoMocks.MockAttendanceRepository)
	mPersons := new(repoMocks.MockPersonRepository)
	svc := NewAttendanceService(mLogs, mPersons, loc)

	mPersons.On("FindByStaffID", ctx, "SUP-MANI").Return(activePerson("p1", "SUP-MANI"), nil)
	mLogs.On("OpenForPersonOn", ctx, "p1", dayStart, dayEnd).Return(nil, sql.ErrNoRows)
	mLogs.On("Create", ctx, mock.Anything).Return(&model.AttendanceLog{ID: "a1"}, nil)

	_, err := svc.CheckIn(ctx, CheckInInput{StaffID: "SUP-MANI", At: at})
	require.NoError(t, err)
	mLogs.AssertExpectations(t)
}

func TestAttendanceService_CheckOut(t *testing.T) {
	ctx := context.Background()
	checkIn := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	at := time.Date(2025, 6, 2, 17, 0, 0, 0, time.UTC)
	dayStart := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	t.Run("closes the open log", func(t *testing.T) {
		mLogs := new(repoMocks.MockAttendanceRepository)
		mPersons := new(repoMocks.MockPersonRepository)
		svc := NewAttendanceService(mLogs, mPersons, time.UTC)

		mPersons.On("FindByStaffID", ctx, "SUP-MANI").Return(activePerson("p1", "SUP-MANI"), nil)
		mLogs.On("OpenForPersonOn", ctx, "p1", dayStart, dayEnd).
			Return(&model.AttendanceLog{ID: "a1", PersonID: "p1", CheckIn: checkIn}, nil)
		mLogs.On("CloseOut", ctx, "a1", at).
			Return(&model.AttendanceLog{ID: "a1", CheckIn: checkIn, CheckOut: &at, Status: model.AttendanceCheckedOut}, nil)

		log, err := svc.CheckOut(ctx, "SUP-MANI", at)
		require.NoError(t, err)
		assert.Equal(t, model.AttendanceCheckedOut, log.Status)
		assert.Equal(t, 9.0, log.DurationHours())
		mLogs.AssertExpectations(t)
	})

	t.Run("no open log", func(t *testing.T) {
		mLogs := new(repoMocks.MockAttendanceRepository)
		mPersons := new(repoMocks.MockPersonRepository)
		svc := NewAttendanceService(mLogs, mPersons, time.UTC)

		mPersons.On("FindByStaffID", ctx, "SUP-MANI").Return(activePerson("p1", "SUP-MANI"), nil)
		mLogs.On("OpenForPersonOn", ctx, "p1", dayStart, dayEnd).Return(nil, sql.ErrNoRows)

		_, err := svc.CheckOut(ctx, "SUP-MANI", at)
		assert.ErrorIs(t, err, ErrNotCheckedIn)
	})

	t.Run("check-out before check-in", func(t *testing.T) {
		mLogs := new(repoMocks.MockAttendanceRepository)
		mPersons := new(repoMocks.MockPersonRepository)
		svc := NewAttendanceService(mLogs, mPersons, time.UTC)

		early := time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)
		mPersons.On("FindByStaffID", ctx, "SUP-MANI").Return(activePerson("p1", "SUP-MANI"), nil)
		mLogs.On("OpenForPersonOn", ctx, "p1", dayStart, dayEnd).
			Return(&model.AttendanceLog{ID: "a1", CheckIn: checkIn}, nil)

		_, err := svc.CheckOut(ctx, "SUP-MANI", early)
		assert.ErrorIs(t, err, ErrCheckOutBeforeIn)
	})
}

func TestAttendanceService_Sync(t *testing.T) {
	ctx := context.Background()
	checkIn := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(8 * time.Hour)

	mLogs := new(repoMocks.MockAttendanceRepository)
	mPersons := new(repoMocks.MockPersonRepository)
	svc := NewAttendanceService(mLogs, mPersons, time.UTC)

	// Entry 0 syncs with a closed status, entry 1 is a duplicate, entry 2
	// references an unknown person.
	mPersons.On("FindByStaffID", ctx, "WRK-ANITA").Return(activePerson("p1", "WRK-ANITA"), nil)
	mLogs.On("ExistsAt", ctx, "p1", checkIn, "tab-7").Return(false, nil)
	mLogs.On("Create", ctx, mock.MatchedBy(func(l *model.AttendanceLog) bool {
		return l.Status == model.AttendanceCheckedOut && l.CheckOut != nil
	})).Return(&model.AttendanceLog{ID: "a1"}, nil)

	mPersons.On("FindByStaffID", ctx, "WRK-BALA").Return(activePerson("p2", "WRK-BALA"), nil)
	mLogs.On("ExistsAt", ctx, "p2", checkIn, "tab-7").Return(true, nil)

	mPersons.On("FindByStaffID", ctx, "WRK-GHOST").Return(nil, sql.ErrNoRows)

	res, err := svc.Sync(ctx, []SyncEntry{
		{StaffID: "WRK-ANITA", CheckIn: checkIn, CheckOut: &checkOut, DeviceID: "tab-7"},
		{StaffID: "WRK-BALA", CheckIn: checkIn, DeviceID: "tab-7"},
		{StaffID: "WRK-GHOST", CheckIn: checkIn, DeviceID: "tab-7"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Synced)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "WRK-GHOST")
	mLogs.AssertExpectations(t)
	mPersons.AssertExpectations(t)
}

func TestAttendanceService_SyncRejectsBadEntries(t *testing.T) {
	ctx := context.Background()
	checkIn := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	before := checkIn.Add(-time.Hour)

	mLogs := new(repoMocks.MockAttendanceRepository)
	mPersons := new(repoMocks.MockPersonRepository)
	svc := NewAttendanceService(mLogs, mPersons, time.UTC)

	mPersons.On("FindByStaffID", ctx, "WRK-ANITA").Return(activePerson("p1", "WRK-ANITA"), nil)

	res, err := svc.Sync(ctx, []SyncEntry{
		{StaffID: "WRK-ANITA", CheckIn: checkIn, CheckOut: &before},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Synced)
	assert.Equal(t, 1, res.Failed)
	assert.Contains(t, res.Errors[0], ErrCheckOutBeforeIn.Error())
}

func TestAttendanceService_Day(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	dayStart := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	in1 := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	out1 := in1.Add(8 * time.Hour)
	in2 := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	mLogs := new(repoMocks.MockAttendanceRepository)
	svc := NewAttendanceService(mLogs, nil, time.UTC)

	mLogs.On("ListBetween", ctx, dayStart, dayEnd).Return([]model.AttendanceLog{
		{ID: "a1", CheckIn: in1, CheckOut: &out1, Status: model.AttendanceCheckedOut},
		{ID: "a2", CheckIn: in2, Status: model.AttendanceCheckedIn},
	}, nil)
	mLogs.On("SummarizeByType", ctx, dayStart, dayEnd).Return([]repository.TypeBreakdown{
		{PersonType: model.PersonTypeStaff, Count: 2, AvgHours: 8},
	}, nil)

	summary, err := svc.Day(ctx, date)
	require.NoError(t, err)

	assert.Equal(t, "2025-06-02", summary.Date)
	assert.Equal(t, 2, summary.Present)
	assert.Equal(t, 1, summary.CheckedOut)
	assert.Equal(t, 8.0, summary.TotalHours)
	assert.Equal(t, 8.0, summary.AvgHours)
	require.Len(t, summary.Departments, 1)
	assert.Equal(t, model.PersonTypeStaff, summary.Departments[0].Department)
	assert.Equal(t, 2, summary.Departments[0].Count)
	mLogs.AssertExpectations(t)
}

func TestAttendanceService_History(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("inactive people stay readable", func(t *testing.T) {
		mLogs := new(repoMocks.MockAttendanceRepository)
		mPersons := new(repoMocks.MockPersonRepository)
		svc := NewAttendanceService(mLogs, mPersons, time.UTC)

		mPersons.On("FindByStaffID", ctx, "WRK-GONE").
			Return(&model.Person{ID: "p9", StaffID: "WRK-GONE", Status: model.PersonInactive}, nil)
		mLogs.On("ListForPerson", ctx, "p9", from, to).Return([]model.AttendanceLog{{ID: "a1"}}, nil)

		logs, err := svc.History(ctx, "wrk-gone", from, to)
		assert.NoError(t, err)
		assert.Len(t, logs, 1)
		mLogs.AssertExpectations(t)
	})

	t.Run("unknown person", func(t *testing.T) {
		mPersons := new(repoMocks.MockPersonRepository)
		svc := NewAttendanceService(new(repoMocks.MockAttendanceRepository), mPersons, time.UTC)

		mPersons.On("FindByStaffID", ctx, "WRK-GHOST").Return(nil, sql.ErrNoRows)

		_, err := svc.History(ctx, "WRK-GHOST", from, to)
		assert.ErrorIs(t, err, ErrPersonNotFound)
	})
}

func TestAttendanceService_RecentScans(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to badge method", func(t *testing.T) {
		mLogs := new(repoMocks.MockAttendanceRepository)
		svc := NewAttendanceService(mLogs, nil, time.UTC)

		mLogs.On("RecentByMethod", ctx, model.MethodBadge, mock.MatchedBy(func(since time.Time) bool {
			return time.Since(since) > 23*time.Hour && time.Since(since) < 25*time.Hour
		}), 50).Return([]model.AttendanceLog{{ID: "a1"}}, nil)

		logs, err := svc.RecentScans(ctx, "", 0, 0)
		assert.NoError(t, err)
		assert.Len(t, logs, 1)
		mLogs.AssertExpectations(t)
	})

	t.Run("invalid method", func(t *testing.T) {
		svc := NewAttendanceService(new(repoMocks.MockAttendanceRepository), nil, time.UTC)

		_, err := svc.RecentScans(ctx, "telepathy", 1, 1)
		assert.ErrorIs(t, err, ErrInvalidMethod)
	})

	t.Run("repository error", func(t *testing.T) {
		mLogs := new(repoMocks.MockAttendanceRepository)
		svc := NewAttendanceService(mLogs, nil, time.UTC)

		mLogs.On("RecentByMethod", ctx, model.MethodFace, mock.Anything, 10).
			Return(nil, errors.New("db fail"))

		_, err := svc.RecentScans(ctx, model.MethodFace, 2, 10)
		assert.Error(t, err)
	})
}
