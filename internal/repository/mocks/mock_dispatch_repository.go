package mocks

import (
	"context"
	"time"

	"agroapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockDispatchRepository struct {
	mock.Mock
}

func (m *MockDispatchRepository) Create(ctx context.Context, d *model.Dispatch) (*model.Dispatch, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dispatch), args.Error(1)
}

func (m *MockDispatchRepository) FindByID(ctx context.Context, id string) (*model.Dispatch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dispatch), args.Error(1)
}

func (m *MockDispatchRepository) SetTracking(ctx context.Context, id string, active bool, at time.Time) (*model.Dispatch, error) {
	args := m.Called(ctx, id, active, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dispatch), args.Error(1)
}

func (m *MockDispatchRepository) Complete(ctx context.Context, id string, at time.Time) (*model.Dispatch, error) {
	args := m.Called(ctx, id, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dispatch), args.Error(1)
}

func (m *MockDispatchRepository) ListActive(ctx context.Context) ([]model.Dispatch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Dispatch), args.Error(1)
}
