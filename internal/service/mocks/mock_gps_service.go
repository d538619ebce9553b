package mocks

import (
	"context"

	"agroapi/internal/model"
	"agroapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockGPSService struct {
	mock.Mock
}

func (m *MockGPSService) CreateDispatch(ctx context.Context, in service.CreateDispatchInput) (*model.Dispatch, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dispatch), args.Error(1)
}

func (m *MockGPSService) GetDispatch(ctx context.Context, id string) (*model.Dispatch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dispatch), args.Error(1)
}

func (m *MockGPSService) StartTracking(ctx context.Context, dispatchID, driverID string) (*model.Dispatch, error) {
	args := m.Called(ctx, dispatchID, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dispatch), args.Error(1)
}

func (m *MockGPSService) StopTracking(ctx context.Context, dispatchID, driverID string) (*model.Dispatch, error) {
	args := m.Called(ctx, dispatchID, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dispatch), args.Error(1)
}

func (m *MockGPSService) CompleteTrip(ctx context.Context, dispatchID, driverID string) (*model.Dispatch, error) {
	args := m.Called(ctx, dispatchID, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dispatch), args.Error(1)
}

func (m *MockGPSService) LogLocation(ctx context.Context, in service.LogLocationInput) (*service.LocationResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LocationResult), args.Error(1)
}

func (m *MockGPSService) Track(ctx context.Context, dispatchID string, limit int) ([]model.GPSLog, error) {
	args := m.Called(ctx, dispatchID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.GPSLog), args.Error(1)
}

func (m *MockGPSService) ActiveDispatches(ctx context.Context) ([]model.Dispatch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Dispatch), args.Error(1)
}
