package models

import (
	"time"
)

// FileType classifies an uploaded document
type FileType string

const (
	FileOriginal  FileType = "original"
	FileRevision  FileType = "revision"
	FileAmendment FileType = "amendment"
)

// Document is an uploaded file registered with the external index.
// Filepath is storage-relative and always begins with
// "Workspaces/{organizationSlug}/{workspaceName}/".
// Revisions and amendments reference an original in the same workspace.
type Document struct {
	ID             string     `json:"id" db:"id"`
	WorkspaceID    string     `json:"workspace_id" db:"workspace_id"`
	OrganizationID string     `json:"organization_id" db:"organization_id"`
	Filepath       string     `json:"filepath" db:"filepath"`
	FileType       FileType   `json:"file_type" db:"file_type"`
	OriginalFileID *string    `json:"original_file_id,omitempty" db:"original_file_id"`
	ImpactDate     *time.Time `json:"impact_date,omitempty" db:"impact_date"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}
