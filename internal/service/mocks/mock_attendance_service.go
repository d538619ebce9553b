package mocks

import (
	"context"
	"time"

	"agroapi/internal/model"
	"agroapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockAttendanceService struct {
	mock.Mock
}

func (m *MockAttendanceService) CheckIn(ctx context.Context, in service.CheckInInput) (*model.AttendanceLog, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AttendanceLog), args.Error(1)
}

func (m *MockAttendanceService) CheckOut(ctx context.Context, staffID string, at time.Time) (*model.AttendanceLog, error) {
	args := m.Called(ctx, staffID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AttendanceLog), args.Error(1)
}

func (m *MockAttendanceService) Sync(ctx context.Context, entries []service.SyncEntry) (*service.SyncResult, error) {
	args := m.Called(ctx, entries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SyncResult), args.Error(1)
}

func (m *MockAttendanceService) Day(ctx context.Context, date time.Time) (*service.DaySummary, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DaySummary), args.Error(1)
}

func (m *MockAttendanceService) History(ctx context.Context, staffID string, from, to time.Time) ([]model.AttendanceLog, error) {
	args := m.Called(ctx, staffID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AttendanceLog), args.Error(1)
}

func (m *MockAttendanceService) RecentScans(ctx context.Context, method string, hours, limit int) ([]model.AttendanceLog, error) {
	args := m.Called(ctx, method, hours, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AttendanceLog), args.Error(1)
}
