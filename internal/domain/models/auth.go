package models

// Principal is the resolved caller identity every scoped operation runs as.
// OrganizationID comes from the user row, never from client input.
type Principal struct {
	UserID         string
	OrganizationID string
	Role           UserRole
}

// IsAdmin reports whether the principal may administer its organization
func (p Principal) IsAdmin() bool {
	return p.Role == RoleOrgAdmin || p.Role == RoleSuperAdmin
}
