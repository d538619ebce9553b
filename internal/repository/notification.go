package repository

import (
	"context"

	"agroapi/internal/model"
)

// NotificationRepository defines data access for in-app notifications.
type NotificationRepository interface {
	// Create inserts a notification and returns the stored row.
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)

	// ListForRecipient returns a recipient's notifications, newest first.
	ListForRecipient(ctx context.Context, recipient string, unreadOnly bool, pq PageQuery) (*PageResult[model.Notification], error)

	// MarkRead flags a notification read if it belongs to the recipient.
	// Returns sql.ErrNoRows when no matching row exists.
	MarkRead(ctx context.Context, id, recipient string) error

	// MarkDelivery records the outcome of SMS/WhatsApp sends.
	MarkDelivery(ctx context.Context, id string, smsSent, whatsappSent bool) error
}
