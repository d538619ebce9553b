package model

import "time"

// Person statuses.
const (
	PersonActive   = "active"
	PersonInactive = "inactive"
)

// Person types distinguish payroll staff from external parties.
const (
	PersonTypeStaff    = "staff"
	PersonTypeSupplier = "supplier"
	PersonTypeVendor   = "vendor"
)

// Person represents a registered worker, staff member, supplier or vendor.
// This is a pure domain model with no database-specific dependencies or tags.
// The role is not stored; it is derived from the StaffID prefix at the auth layer.
type Person struct {
	ID               string     `json:"id"`
	StaffID          string     `json:"staff_id"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	FullName         string     `json:"full_name"`
	PersonType       string     `json:"person_type"`
	Designation      string     `json:"designation,omitempty"`
	Mobile           string     `json:"mobile,omitempty"`
	Address          string     `json:"address,omitempty"`
	Status           string     `json:"status"`
	Seasonal         bool       `json:"seasonal"`
	FaceEmbedding    []float64  `json:"-"`
	FaceRegisteredAt *time.Time `json:"face_registered_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// FaceEnrolled reports whether a usable face embedding is stored.
func (p *Person) FaceEnrolled() bool {
	return len(p.FaceEmbedding) > 0
}
