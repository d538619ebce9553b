package model

import "time"

// Provision request lifecycle: pending -> reviewed -> approved, or rejected
// at either stage. Estate managers raise requests, plant managers review,
// admins approve and may assign a vendor.
const (
	ProvisionPending  = "pending"
	ProvisionReviewed = "reviewed"
	ProvisionApproved = "approved"
	ProvisionRejected = "rejected"
)

// ProvisionRequest is a purchase/supply request moving through review stages.
type ProvisionRequest struct {
	ID            string    `json:"id"`
	ItemType      string    `json:"item_type"`
	Description   string    `json:"description,omitempty"`
	EstimatedCost float64   `json:"estimated_cost"`
	VendorNote    string    `json:"vendor_note,omitempty"`
	RequestedBy   string    `json:"requested_by"`
	Status        string    `json:"status"`
	ReviewNote    string    `json:"review_note,omitempty"`
	ReviewedBy    string    `json:"reviewed_by,omitempty"`
	ApprovedBy    string    `json:"approved_by,omitempty"`
	VendorID      string    `json:"vendor_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
