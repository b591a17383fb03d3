package models

import (
	"time"
)

// UserRole controls what a user may administer
type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleOrgAdmin   UserRole = "org_admin"
	RoleSuperAdmin UserRole = "super_admin"
)

// User belongs to at most one organization. Super admins have no organization.
type User struct {
	ID             string    `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	Firstname      string    `json:"firstname" db:"firstname"`
	Lastname       string    `json:"lastname" db:"lastname"`
	Role           UserRole  `json:"role" db:"role"`
	OrganizationID *string   `json:"organization_id,omitempty" db:"organization_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
