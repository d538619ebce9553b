package mocks

import (
	"context"

	"agroapi/internal/model"
	"agroapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockJobTypeService struct {
	mock.Mock
}

func (m *MockJobTypeService) List(ctx context.Context) ([]model.JobType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.JobType), args.Error(1)
}

func (m *MockJobTypeService) Create(ctx context.Context, in service.CreateJobTypeInput) (*model.JobType, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.JobType), args.Error(1)
}
