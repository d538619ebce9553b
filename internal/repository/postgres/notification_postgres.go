package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"agroapi/internal/model"
	"agroapi/internal/repository"
)

// NotificationPostgres is a PostgreSQL implementation of repository.NotificationRepository.
type NotificationPostgres struct {
	db *sql.DB
}

// NewNotificationPostgres creates a new NotificationPostgres repository.
func NewNotificationPostgres(db *sql.DB) *NotificationPostgres {
	return &NotificationPostgres{db: db}
}

var _ repository.NotificationRepository = (*NotificationPostgres)(nil)

const notificationColumns = `id, recipient, type, title, message, data, read, read_at, sms_sent, whatsapp_sent, created_at`

func scanNotification(row rowScanner) (*model.Notification, error) {
	var n model.Notification
	var data []byte
	var readAt sql.NullTime
	if err := row.Scan(
		&n.ID,
		&n.Recipient,
		&n.Type,
		&n.Title,
		&n.Message,
		&data,
		&n.Read,
		&readAt,
		&n.SMSSent,
		&n.WhatsAppSent,
		&n.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &n.Data); err != nil {
			return nil, fmt.Errorf("decode notification data: %w", err)
		}
	}
	if readAt.Valid {
		t := readAt.Time
		n.ReadAt = &t
	}
	return &n, nil
}

// Create inserts a notification row and returns the stored record.
func (r *NotificationPostgres) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	const q = `
		INSERT INTO notifications (id, recipient, type, title, message, data, read, read_at, sms_sent, whatsapp_sent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + notificationColumns

	var data any
	if len(n.Data) > 0 {
		b, err := json.Marshal(n.Data)
		if err != nil {
			return nil, fmt.Errorf("encode notification data: %w", err)
		}
		data = b
	}

	row := r.db.QueryRowContext(ctx, q,
		n.ID,
		n.Recipient,
		n.Type,
		n.Title,
		n.Message,
		data,
		n.Read,
		n.ReadAt,
		n.SMSSent,
		n.WhatsAppSent,
		n.CreatedAt,
	)
	return scanNotification(row)
}

// ListForRecipient returns a recipient's notifications, newest first, with a total count.
func (r *NotificationPostgres) ListForRecipient(ctx context.Context, recipient string, unreadOnly bool, pq repository.PageQuery) (*repository.PageResult[model.Notification], error) {
	where := ` WHERE recipient = $1`
	if unreadOnly {
		where += ` AND read = FALSE`
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications`+where, recipient).Scan(&total); err != nil {
		return nil, err
	}

	q := `SELECT ` + notificationColumns + ` FROM notifications` + where + ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, recipient, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Notification]{
		Items: items,
		Total: total,
	}, nil
}

// MarkRead flags a notification read for its recipient. Returns sql.ErrNoRows
// when the notification does not exist or belongs to someone else.
func (r *NotificationPostgres) MarkRead(ctx context.Context, id, recipient string) error {
	const q = `
		UPDATE notifications
		SET read = TRUE, read_at = now()
		WHERE id = $1 AND recipient = $2 AND read = FALSE`

	res, err := r.db.ExecContext(ctx, q, id, recipient)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		check := `SELECT EXISTS(SELECT 1 FROM notifications WHERE id = $1 AND recipient = $2)`
		if err := r.db.QueryRowContext(ctx, check, id, recipient).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return sql.ErrNoRows
		}
	}
	return nil
}

// MarkDelivery records the outcome of the SMS and WhatsApp delivery attempts.
func (r *NotificationPostgres) MarkDelivery(ctx context.Context, id string, smsSent, whatsappSent bool) error {
	const q = `UPDATE notifications SET sms_sent = $2, whatsapp_sent = $3 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, smsSent, whatsappSent)
	return err
}
