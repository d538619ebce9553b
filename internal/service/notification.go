package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"agroapi/internal/auth"
	"agroapi/internal/model"
	"agroapi/internal/notify"
	"agroapi/internal/repository"
)

var (
	ErrRecipientRequired    = errors.New("recipient is required")
	ErrTitleRequired        = errors.New("title is required")
	ErrNotificationNotFound = errors.New("notification not found")
)

// NotificationListResult is the service-level DTO for a notification page.
type NotificationListResult struct {
	Items  []model.Notification `json:"data"`
	Total  int                  `json:"total"`
	Unread int                  `json:"unread"`
}

// NotificationService persists in-app notifications and pushes them out over
// SMS and WhatsApp. Delivery failures never fail the operation that raised
// the notification.
type NotificationService interface {
	Notifier

	// List returns a recipient's notifications, newest first.
	List(ctx context.Context, recipient string, unreadOnly bool, limit, offset int) (*NotificationListResult, error)

	// MarkRead flags one of the recipient's notifications as read.
	MarkRead(ctx context.Context, id, recipient string) error
}

type notificationService struct {
	notifications repository.NotificationRepository
	persons       repository.PersonRepository
	sender        notify.Sender
}

// NewNotificationService constructs a new NotificationService. sender may be
// nil to disable SMS/WhatsApp delivery.
func NewNotificationService(notifications repository.NotificationRepository, persons repository.PersonRepository, sender notify.Sender) NotificationService {
	return &notificationService{notifications: notifications, persons: persons, sender: sender}
}

func (s *notificationService) Notify(ctx context.Context, recipient, ntype, title, message string, data map[string]any) error {
	recipient = strings.ToUpper(strings.TrimSpace(recipient))
	if recipient == "" {
		return ErrRecipientRequired
	}
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	if ntype == "" {
		ntype = model.NotifySystem
	}

	n := &model.Notification{
		ID:        uuid.New().String(),
		Recipient: recipient,
		Type:      ntype,
		Title:     strings.TrimSpace(title),
		Message:   strings.TrimSpace(message),
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
	stored, err := s.notifications.Create(ctx, n)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	s.deliver(ctx, stored)
	return nil
}

// deliver pushes the notification over SMS and WhatsApp when the recipient
// has a mobile number, then records the outcome.
func (s *notificationService) deliver(ctx context.Context, n *model.Notification) {
	if s.sender == nil {
		return
	}
	person, err := s.persons.FindByStaffID(ctx, n.Recipient)
	if err != nil || person.Mobile == "" {
		return
	}

	text := n.Title
	if n.Message != "" {
		text = n.Title + ": " + n.Message
	}

	smsSent := s.sender.Send(ctx, notify.ChannelSMS, person.Mobile, text) == nil
	waSent := s.sender.Send(ctx, notify.ChannelWhatsApp, person.Mobile, text) == nil
	if smsSent || waSent {
		_ = s.notifications.MarkDelivery(ctx, n.ID, smsSent, waSent)
	}
}

func (s *notificationService) NotifyRole(ctx context.Context, role, ntype, title, message string, data map[string]any) error {
	prefix := auth.PrefixForRole(strings.ToLower(strings.TrimSpace(role)))
	if prefix == "" {
		return ErrUnknownRole
	}

	res, err := s.persons.List(ctx, repository.PersonFilter{
		RolePrefix: prefix,
		Status:     model.PersonActive,
	}, repository.PageQuery{Limit: 200, Offset: 0})
	if err != nil {
		return fmt.Errorf("list %s recipients: %w", role, err)
	}

	for i := range res.Items {
		// Per-recipient failures do not stop the fan-out.
		_ = s.Notify(ctx, res.Items[i].StaffID, ntype, title, message, data)
	}
	return nil
}

func (s *notificationService) List(ctx context.Context, recipient string, unreadOnly bool, limit, offset int) (*NotificationListResult, error) {
	recipient = strings.ToUpper(strings.TrimSpace(recipient))
	if recipient == "" {
		return nil, ErrRecipientRequired
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	page, err := s.notifications.ListForRecipient(ctx, recipient, unreadOnly, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}

	result := &NotificationListResult{Items: page.Items, Total: page.Total}
	if unreadOnly {
		result.Unread = page.Total
		return result, nil
	}

	unread, err := s.notifications.ListForRecipient(ctx, recipient, true, repository.PageQuery{Limit: 1, Offset: 0})
	if err != nil {
		return nil, err
	}
	result.Unread = unread.Total
	return result, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, recipient string) error {
	if id == "" {
		return ErrIDRequired
	}
	recipient = strings.ToUpper(strings.TrimSpace(recipient))
	if recipient == "" {
		return ErrRecipientRequired
	}

	if err := s.notifications.MarkRead(ctx, id, recipient); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}
