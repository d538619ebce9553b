package auth

import "strings"

// Roles known to the system. Access checks compare against these values.
const (
	RoleAdmin         = "admin"
	RoleEstateManager = "estate_manager"
	RolePlantManager  = "plant_manager"
	RoleSupervisor    = "supervisor"
	RoleDriver        = "driver"
	RoleVendor        = "vendor"
	RoleWorker        = "worker"
)

// rolePrefixes maps staff ID prefixes to roles. Order matters only for
// presentation; prefixes do not overlap. IDs without a known prefix are
// workers.
var rolePrefixes = []struct {
	Prefix string
	Role   string
}{
	{"ADM-", RoleAdmin},
	{"EST-", RoleEstateManager},
	{"PLT-", RolePlantManager},
	{"SUP-", RoleSupervisor},
	{"DRV-", RoleDriver},
	{"VND-", RoleVendor},
}

// RoleFromStaffID derives the role from the staff ID prefix.
// Matching is case-insensitive; unknown prefixes default to worker.
func RoleFromStaffID(staffID string) string {
	id := strings.ToUpper(staffID)
	for _, rp := range rolePrefixes {
		if strings.HasPrefix(id, rp.Prefix) {
			return rp.Role
		}
	}
	return RoleWorker
}

// PrefixForRole returns the staff ID prefix for a role, empty for worker.
func PrefixForRole(role string) string {
	for _, rp := range rolePrefixes {
		if rp.Role == role {
			return rp.Prefix
		}
	}
	return ""
}

// Roles lists every role, managers first.
func Roles() []string {
	return []string{
		RoleAdmin,
		RoleEstateManager,
		RolePlantManager,
		RoleSupervisor,
		RoleDriver,
		RoleVendor,
		RoleWorker,
	}
}

// ManagerRoles are the roles allowed to view operational summaries.
func ManagerRoles() []string {
	return []string{RoleAdmin, RoleEstateManager, RolePlantManager, RoleSupervisor}
}
