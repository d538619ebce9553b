package mocks

import (
	"context"

	"agroapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockOnboardingRepository struct {
	mock.Mock
}

func (m *MockOnboardingRepository) Create(ctx context.Context, r *model.OnboardingRequest) (*model.OnboardingRequest, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OnboardingRequest), args.Error(1)
}

func (m *MockOnboardingRepository) FindByID(ctx context.Context, id string) (*model.OnboardingRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OnboardingRequest), args.Error(1)
}

func (m *MockOnboardingRepository) ListByStatus(ctx context.Context, status string) ([]model.OnboardingRequest, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OnboardingRequest), args.Error(1)
}

func (m *MockOnboardingRepository) Update(ctx context.Context, r *model.OnboardingRequest) (*model.OnboardingRequest, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OnboardingRequest), args.Error(1)
}

func (m *MockOnboardingRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}
