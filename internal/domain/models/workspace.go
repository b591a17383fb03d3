package models

import (
	"encoding/json"
	"time"
)

// Workspace groups documents inside an organization.
// (name, organization_id) is unique.
type Workspace struct {
	ID             string          `json:"id" db:"id"`
	Name           string          `json:"name" db:"name"`
	Description    string          `json:"description" db:"description"`
	OrganizationID string          `json:"organization_id" db:"organization_id"`
	Config         json.RawMessage `json:"config,omitempty" db:"config"` // opaque dynamic field schema, stored verbatim
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// AccessLevel is the grant level on a workspace
type AccessLevel string

const (
	AccessView  AccessLevel = "view"
	AccessAdmin AccessLevel = "admin"
)

// WorkspaceAccess relates users to workspaces. Unique on (user_id, workspace_id).
type WorkspaceAccess struct {
	ID          string      `json:"id" db:"id"`
	UserID      string      `json:"user_id" db:"user_id"`
	WorkspaceID string      `json:"workspace_id" db:"workspace_id"`
	AccessLevel AccessLevel `json:"access_level" db:"access_level"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

// WorkspaceAccessDetail is a grant joined with user identity for listings
type WorkspaceAccessDetail struct {
	WorkspaceAccess
	Email     string `json:"email" db:"email"`
	Firstname string `json:"firstname" db:"firstname"`
	Lastname  string `json:"lastname" db:"lastname"`
}
