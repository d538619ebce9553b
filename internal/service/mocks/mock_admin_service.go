package mocks

import (
	"context"

	"agroapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) Stats(ctx context.Context) (*service.AdminStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AdminStats), args.Error(1)
}

func (m *MockAdminService) Roles() []service.RoleInfo {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]service.RoleInfo)
}

func (m *MockAdminService) SystemHealth(ctx context.Context) *service.SystemHealth {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*service.SystemHealth)
}
