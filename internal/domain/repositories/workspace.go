package repositories

import (
	"context"

	"nova/internal/domain/models"
)

// WorkspaceRepository persists workspaces. Every method is scoped by the
// caller's organization ID; callers must never pass client-supplied values.
type WorkspaceRepository interface {
	// Create inserts a workspace. A duplicate (name, organization_id)
	// returns a conflict error carrying the existing workspace ID.
	Create(ctx context.Context, workspace *models.Workspace) error

	// GetByID retrieves a workspace within the organization
	GetByID(ctx context.Context, id, organizationID string) (*models.Workspace, error)

	// GetByName retrieves a workspace by name within the organization
	GetByName(ctx context.Context, name, organizationID string) (*models.Workspace, error)

	// ListByOrganization retrieves all workspaces of the organization
	ListByOrganization(ctx context.Context, organizationID string) ([]models.Workspace, error)

	// ListForUser retrieves the workspaces of the organization the user
	// holds an access grant on
	ListForUser(ctx context.Context, userID, organizationID string) ([]models.Workspace, error)

	// Update writes name, description and config
	Update(ctx context.Context, workspace *models.Workspace) error

	// Delete removes the workspace row
	Delete(ctx context.Context, id, organizationID string) error
}
