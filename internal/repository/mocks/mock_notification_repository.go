package mocks

import (
	"context"

	"agroapi/internal/model"
	"agroapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) ListForRecipient(ctx context.Context, recipient string, unreadOnly bool, pq repository.PageQuery) (*repository.PageResult[model.Notification], error) {
	args := m.Called(ctx, recipient, unreadOnly, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Notification]), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, recipient string) error {
	args := m.Called(ctx, id, recipient)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkDelivery(ctx context.Context, id string, smsSent, whatsappSent bool) error {
	args := m.Called(ctx, id, smsSent, whatsappSent)
	return args.Error(0)
}
