package repositories

import (
	"context"

	"nova/internal/domain/models"
)

// AccessRepository persists workspace access grants
type AccessRepository interface {
	// Create inserts a single grant. A duplicate (user_id, workspace_id)
	// returns a conflict error so callers can report "user already has access".
	Create(ctx context.Context, grant *models.WorkspaceAccess) error

	// CreateBatch inserts the given grants
	CreateBatch(ctx context.Context, grants []models.WorkspaceAccess) error

	// DeleteAllByWorkspace removes every grant of a workspace
	DeleteAllByWorkspace(ctx context.Context, workspaceID string) error

	// ListByWorkspace returns grants joined with user identity, scoped to
	// the organization through the workspace join
	ListByWorkspace(ctx context.Context, workspaceID, organizationID string) ([]models.WorkspaceAccessDetail, error)
}
