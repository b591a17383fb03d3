package models

import (
	"time"
)

// OrganizationStatus is the lifecycle state of an organization
type OrganizationStatus string

const (
	OrgStatusActive   OrganizationStatus = "active"
	OrgStatusInactive OrganizationStatus = "inactive"
	OrgStatusExpired  OrganizationStatus = "expired"
	OrgStatusPending  OrganizationStatus = "pending"
)

// Organization is the tenancy root. Slug is globally unique, URL-safe and
// immutable once documents reference it in stored file paths.
type Organization struct {
	ID        string             `json:"id" db:"id"`
	Name      string             `json:"name" db:"name"`
	Slug      string             `json:"slug" db:"slug"`
	Status    OrganizationStatus `json:"status" db:"status"`
	ExpiresAt *time.Time         `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`
}
