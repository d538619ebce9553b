package mocks

import (
	"context"
	"time"

	"agroapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockGPSRepository struct {
	mock.Mock
}

func (m *MockGPSRepository) InsertLog(ctx context.Context, g *model.GPSLog) (*model.GPSLog, error) {
	args := m.Called(ctx, g)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GPSLog), args.Error(1)
}

func (m *MockGPSRepository) LogExists(ctx context.Context, dispatchID string, recordedAt time.Time, deviceID string) (bool, error) {
	args := m.Called(ctx, dispatchID, recordedAt, deviceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGPSRepository) Track(ctx context.Context, dispatchID string, limit int) ([]model.GPSLog, error) {
	args := m.Called(ctx, dispatchID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.GPSLog), args.Error(1)
}

func (m *MockGPSRepository) InsertAlert(ctx context.Context, a *model.GeofenceAlert) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
