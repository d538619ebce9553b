package mocks

import (
	"context"
	"time"

	"agroapi/internal/model"
	"agroapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockAttendanceRepository struct {
	mock.Mock
}

func (m *MockAttendanceRepository) Create(ctx context.Context, a *model.AttendanceLog) (*model.AttendanceLog, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AttendanceLog), args.Error(1)
}

func (m *MockAttendanceRepository) OpenForPersonOn(ctx context.Context, personID string, dayStart, dayEnd time.Time) (*model.AttendanceLog, error) {
	args := m.Called(ctx, personID, dayStart, dayEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AttendanceLog), args.Error(1)
}

func (m *MockAttendanceRepository) CloseOut(ctx context.Context, id string, out time.Time) (*model.AttendanceLog, error) {
	args := m.Called(ctx, id, out)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AttendanceLog), args.Error(1)
}

func (m *MockAttendanceRepository) ListBetween(ctx context.Context, from, to time.Time) ([]model.AttendanceLog, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AttendanceLog), args.Error(1)
}

func (m *MockAttendanceRepository) ListForPerson(ctx context.Context, personID string, from, to time.Time) ([]model.AttendanceLog, error) {
	args := m.Called(ctx, personID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AttendanceLog), args.Error(1)
}

func (m *MockAttendanceRepository) RecentByMethod(ctx context.Context, method string, since time.Time, limit int) ([]model.AttendanceLog, error) {
	args := m.Called(ctx, method, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AttendanceLog), args.Error(1)
}

func (m *MockAttendanceRepository) ExistsAt(ctx context.Context, personID string, checkIn time.Time, deviceID string) (bool, error) {
	args := m.Called(ctx, personID, checkIn, deviceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttendanceRepository) SummarizeByType(ctx context.Context, from, to time.Time) ([]repository.TypeBreakdown, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.TypeBreakdown), args.Error(1)
}
