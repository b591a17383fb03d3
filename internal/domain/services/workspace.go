package services

import (
	"context"
	"encoding/json"

	"nova/internal/domain/models"
)

// CreateWorkspaceRequest represents a request to create a workspace
type CreateWorkspaceRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Config      json.RawMessage `json:"config,omitempty"`
	MemberIDs   []string        `json:"member_ids"`
}

// UpdateWorkspaceRequest represents a request to update a workspace.
// A name different from the current one triggers a rename with full
// document-path rewriting.
type UpdateWorkspaceRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Config      json.RawMessage `json:"config,omitempty"`
	MemberIDs   []string        `json:"member_ids"`
}

// WorkspaceService defines workspace lifecycle operations
type WorkspaceService interface {
	// CreateWorkspace creates an empty workspace and establishes the
	// initial grant set (all org admins plus the selected members)
	CreateWorkspace(ctx context.Context, principal models.Principal, req *CreateWorkspaceRequest) (*models.Workspace, error)

	// GetWorkspace retrieves a workspace in the principal's organization
	GetWorkspace(ctx context.Context, principal models.Principal, id string) (*models.Workspace, error)

	// ListWorkspaces returns the workspaces visible to the principal:
	// all of the organization for admins, granted ones otherwise
	ListWorkspaces(ctx context.Context, principal models.Principal) ([]models.Workspace, error)

	// UpdateWorkspace updates description/config, recomputes grants, and
	// renames the workspace (rewriting stored paths) when the name changed
	UpdateWorkspace(ctx context.Context, principal models.Principal, id string, req *UpdateWorkspaceRequest) (*models.Workspace, error)

	// DeleteWorkspace runs the full cascade: external index purge, file and
	// folder removal, chat detachment, grants, documents, workspace row
	DeleteWorkspace(ctx context.Context, principal models.Principal, id string) error

	// GetWorkspaceTree reconstructs the nested folder/file tree from the
	// workspace's stored document paths
	GetWorkspaceTree(ctx context.Context, principal models.Principal, id string) ([]*models.FileTreeNode, error)
}
