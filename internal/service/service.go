// Package service contains the business use cases behind the HTTP layer.
// Services validate input, enforce workflow transitions and map storage
// errors to sentinel errors the handlers translate to status codes.
package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"agroapi/internal/model"
	"agroapi/internal/repository"
)

// ErrIDRequired is returned when an operation is called without an ID.
var ErrIDRequired = errors.New("id is required")

// findActivePerson normalizes a staff ID and resolves it to an active person.
func findActivePerson(ctx context.Context, persons repository.PersonRepository, staffID string) (*model.Person, error) {
	staffID = strings.ToUpper(strings.TrimSpace(staffID))
	if staffID == "" {
		return nil, ErrStaffIDRequired
	}
	person, err := persons.FindByStaffID(ctx, staffID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}
	if person.Status != model.PersonActive {
		return nil, ErrPersonInactive
	}
	return person, nil
}

// Notifier is the slice of the notification service other services use to
// fan out workflow events. A nil Notifier disables notifications.
type Notifier interface {
	// Notify persists an in-app notification for a staff member and
	// attempts SMS/WhatsApp delivery best-effort.
	Notify(ctx context.Context, recipient, ntype, title, message string, data map[string]any) error

	// NotifyRole notifies every active person holding a role.
	NotifyRole(ctx context.Context, role, ntype, title, message string, data map[string]any) error
}
