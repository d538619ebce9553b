package mocks

import (
	"context"

	"agroapi/internal/model"
	"agroapi/internal/repository"
	"agroapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockLotService struct {
	mock.Mock
}

func (m *MockLotService) Create(ctx context.Context, in service.CreateLotInput) (*model.Lot, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lot), args.Error(1)
}

func (m *MockLotService) Get(ctx context.Context, lotID string) (*model.Lot, error) {
	args := m.Called(ctx, lotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lot), args.Error(1)
}

func (m *MockLotService) List(ctx context.Context, f repository.LotFilter) ([]model.Lot, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lot), args.Error(1)
}

func (m *MockLotService) RecordThreshing(ctx context.Context, lotID string, in service.ThreshingInput) (*model.Lot, error) {
	args := m.Called(ctx, lotID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lot), args.Error(1)
}

func (m *MockLotService) Yields(ctx context.Context, f repository.LotFilter) (*service.YieldReport, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.YieldReport), args.Error(1)
}
