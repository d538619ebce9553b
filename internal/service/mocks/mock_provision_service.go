package mocks

import (
	"context"

	"agroapi/internal/model"
	"agroapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockProvisionService struct {
	mock.Mock
}

func (m *MockProvisionService) Create(ctx context.Context, in service.CreateProvisionInput) (*model.ProvisionRequest, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProvisionRequest), args.Error(1)
}

func (m *MockProvisionService) Get(ctx context.Context, id string) (*model.ProvisionRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProvisionRequest), args.Error(1)
}

func (m *MockProvisionService) List(ctx context.Context, status string) ([]model.ProvisionRequest, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProvisionRequest), args.Error(1)
}

func (m *MockProvisionService) Review(ctx context.Context, id string, in service.ReviewProvisionInput) (*model.ProvisionRequest, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProvisionRequest), args.Error(1)
}

func (m *MockProvisionService) Approve(ctx context.Context, id string, in service.ApproveProvisionInput) (*model.ProvisionRequest, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProvisionRequest), args.Error(1)
}
