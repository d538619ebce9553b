package model

import "time"

// Onboarding request statuses.
const (
	OnboardingPending  = "pending"
	OnboardingApproved = "approved"
	OnboardingRejected = "rejected"
)

// OnboardingRequest is a pending registration captured in the field, with
// optional face and identity document uploads held in object storage until
// an admin approves and a person record is created.
type OnboardingRequest struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Mobile       string    `json:"mobile,omitempty"`
	Address      string    `json:"address,omitempty"`
	Role         string    `json:"role"`
	IDNumber     string    `json:"id_number,omitempty"`
	EntityType   string    `json:"entity_type"`
	FacePath     string    `json:"face_path,omitempty"`
	DocumentPath string    `json:"document_path,omitempty"`
	Status       string    `json:"status"`
	ReviewNote   string    `json:"review_note,omitempty"`
	ReviewedBy   string    `json:"reviewed_by,omitempty"`
	StaffID      string    `json:"staff_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
