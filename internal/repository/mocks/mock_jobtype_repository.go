package mocks

import (
	"context"

	"agroapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockJobTypeRepository struct {
	mock.Mock
}

func (m *MockJobTypeRepository) List(ctx context.Context) ([]model.JobType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.JobType), args.Error(1)
}

func (m *MockJobTypeRepository) Create(ctx context.Context, jt *model.JobType) (*model.JobType, error) {
	args := m.Called(ctx, jt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.JobType), args.Error(1)
}
