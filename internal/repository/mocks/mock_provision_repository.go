package mocks

import (
	"context"

	"agroapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockProvisionRepository struct {
	mock.Mock
}

func (m *MockProvisionRepository) Create(ctx context.Context, p *model.ProvisionRequest) (*model.ProvisionRequest, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProvisionRequest), args.Error(1)
}

func (m *MockProvisionRepository) FindByID(ctx context.Context, id string) (*model.ProvisionRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProvisionRequest), args.Error(1)
}

func (m *MockProvisionRepository) ListByStatus(ctx context.Context, status string) ([]model.ProvisionRequest, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProvisionRequest), args.Error(1)
}

func (m *MockProvisionRepository) Update(ctx context.Context, p *model.ProvisionRequest) (*model.ProvisionRequest, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProvisionRequest), args.Error(1)
}
