package models

import (
	"time"
)

// Chat is owned by the chat surface; this core only touches its workspace
// linkage. WorkspaceName is a snapshot kept so history stays readable after
// the workspace is deleted.
type Chat struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"user_id" db:"user_id"`
	WorkspaceID   *string   `json:"workspace_id,omitempty" db:"workspace_id"`
	WorkspaceName string    `json:"workspace_name" db:"workspace_name"`
	Title         string    `json:"title" db:"title"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
