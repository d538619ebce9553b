package mocks

import (
	"context"

	"agroapi/internal/model"
	"agroapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockOnboardingService struct {
	mock.Mock
}

func (m *MockOnboardingService) Submit(ctx context.Context, in service.SubmitOnboardingInput) (*model.OnboardingRequest, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OnboardingRequest), args.Error(1)
}

func (m *MockOnboardingService) Get(ctx context.Context, id string) (*model.OnboardingRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OnboardingRequest), args.Error(1)
}

func (m *MockOnboardingService) List(ctx context.Context, status string) ([]model.OnboardingRequest, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OnboardingRequest), args.Error(1)
}

func (m *MockOnboardingService) Review(ctx context.Context, id string, in service.ReviewOnboardingInput) (*service.ApprovalResult, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ApprovalResult), args.Error(1)
}

func (m *MockOnboardingService) Stats(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}
