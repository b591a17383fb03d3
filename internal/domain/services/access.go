package services

import (
	"context"

	"nova/internal/domain/models"
)

// AccessService maintains workspace access grants
type AccessService interface {
	// ReplaceWorkspaceAccess computes the desired grant set (every org
	// admin at admin level, every selected user at view level), deletes all
	// existing grants for the workspace and inserts the computed set.
	ReplaceWorkspaceAccess(ctx context.Context, organizationID, workspaceID string, selectedUserIDs []string) error

	// RevokeAllAccess deletes every grant of a workspace
	RevokeAllAccess(ctx context.Context, workspaceID string) error

	// ListAccess returns the grants of a workspace joined with user identity
	ListAccess(ctx context.Context, workspaceID, organizationID string) ([]models.WorkspaceAccessDetail, error)
}
