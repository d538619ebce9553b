package mocks

import (
	"context"

	"agroapi/internal/model"
	"agroapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockLotRepository struct {
	mock.Mock
}

func (m *MockLotRepository) Create(ctx context.Context, l *model.Lot) (*model.Lot, error) {
	args := m.Called(ctx, l)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lot), args.Error(1)
}

func (m *MockLotRepository) FindByLotID(ctx context.Context, lotID string) (*model.Lot, error) {
	args := m.Called(ctx, lotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lot), args.Error(1)
}

func (m *MockLotRepository) List(ctx context.Context, f repository.LotFilter) ([]model.Lot, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lot), args.Error(1)
}

func (m *MockLotRepository) UpdateWeights(ctx context.Context, lotID string, threshedKG, yieldPct float64) (*model.Lot, error) {
	args := m.Called(ctx, lotID, threshedKG, yieldPct)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lot), args.Error(1)
}

func (m *MockLotRepository) CountWithPrefix(ctx context.Context, prefix string) (int, error) {
	args := m.Called(ctx, prefix)
	return args.Int(0), args.Error(1)
}
