package mocks

import (
	"context"

	"agroapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Notify(ctx context.Context, recipient, ntype, title, message string, data map[string]any) error {
	args := m.Called(ctx, recipient, ntype, title, message, data)
	return args.Error(0)
}

func (m *MockNotificationService) NotifyRole(ctx context.Context, role, ntype, title, message string, data map[string]any) error {
	args := m.Called(ctx, role, ntype, title, message, data)
	return args.Error(0)
}

func (m *MockNotificationService) List(ctx context.Context, recipient string, unreadOnly bool, limit, offset int) (*service.NotificationListResult, error) {
	args := m.Called(ctx, recipient, unreadOnly, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.NotificationListResult), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, id, recipient string) error {
	args := m.Called(ctx, id, recipient)
	return args.Error(0)
}
