package model

import "time"

// Notification types.
const (
	NotifyProvision  = "provision"
	NotifyGeofence   = "geofence"
	NotifyOnboarding = "onboarding"
	NotifySystem     = "system"
)

// Notification is an in-app message for a staff member. SMS and WhatsApp
// delivery are best-effort; the row persists regardless.
type Notification struct {
	ID           string         `json:"id"`
	Recipient    string         `json:"recipient"` // staff_id
	Type         string         `json:"type"`
	Title        string         `json:"title"`
	Message      string         `json:"message"`
	Data         map[string]any `json:"data,omitempty"`
	Read         bool           `json:"read"`
	ReadAt       *time.Time     `json:"read_at,omitempty"`
	SMSSent      bool           `json:"sms_sent"`
	WhatsAppSent bool           `json:"whatsapp_sent"`
	CreatedAt    time.Time      `json:"created_at"`
}
