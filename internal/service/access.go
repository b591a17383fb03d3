package service

import (
	"context"
	"log/slog"
	"time"

	"nova/internal/domain/models"
	"nova/internal/domain/repositories"
	"nova/internal/domain/services"
)

// accessService implements the AccessService interface
type accessService struct {
	accessRepo repositories.AccessRepository
	userRepo   repositories.UserRepository
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewAccessService creates a new access service
func NewAccessService(
	accessRepo repositories.AccessRepository,
	userRepo repositories.UserRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.AccessService {
	return &accessService{
		accessRepo: accessRepo,
		userRepo:   userRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// ReplaceWorkspaceAccess reconciles the workspace's grants to the desired
// set: every org admin at admin level plus every selected user at view
// level. The replace is a delete-all/insert-new inside one transaction, so a
// failed insert never leaves the workspace without grants. Admin level wins
// for users appearing in both groups, preserving the one-grant-per-user
// constraint.
func (s *accessService) ReplaceWorkspaceAccess(ctx context.Context, organizationID, workspaceID string, selectedUserIDs []string) error {
	admins, err := s.userRepo.ListAdminsByOrganization(ctx, organizationID)
	if err != nil {
		return err
	}

	grants := computeGrantSet(workspaceID, admins, selectedUserIDs)

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.accessRepo.DeleteAllByWorkspace(txCtx, workspaceID); err != nil {
			return err
		}
		return s.accessRepo.CreateBatch(txCtx, grants)
	})
	if err != nil {
		return err
	}

	s.logger.Info("workspace access replaced",
		"workspace_id", workspaceID,
		"grant_count", len(grants),
		"admin_count", len(admins),
	)

	return nil
}

// RevokeAllAccess deletes every grant of a workspace
func (s *accessService) RevokeAllAccess(ctx context.Context, workspaceID string) error {
	return s.accessRepo.DeleteAllByWorkspace(ctx, workspaceID)
}

// ListAccess returns the grants of a workspace joined with user identity
func (s *accessService) ListAccess(ctx context.Context, workspaceID, organizationID string) ([]models.WorkspaceAccessDetail, error) {
	return s.accessRepo.ListByWorkspace(ctx, workspaceID, organizationID)
}

// computeGrantSet builds the desired grant list: admins first at admin
// level, then selected users at view level, de-duplicated by user with the
// admin level taking precedence.
func computeGrantSet(workspaceID string, admins []models.User, selectedUserIDs []string) []models.WorkspaceAccess {
	now := time.Now()
	seen := make(map[string]bool, len(admins)+len(selectedUserIDs))
	grants := make([]models.WorkspaceAccess, 0, len(admins)+len(selectedUserIDs))

	for _, admin := range admins {
		if seen[admin.ID] {
			continue
		}
		seen[admin.ID] = true
		grants = append(grants, models.WorkspaceAccess{
			UserID:      admin.ID,
			WorkspaceID: workspaceID,
			AccessLevel: models.AccessAdmin,
			CreatedAt:   now,
		})
	}

	for _, userID := range selectedUserIDs {
		if userID == "" || seen[userID] {
			continue
		}
		seen[userID] = true
		grants = append(grants, models.WorkspaceAccess{
			UserID:      userID,
			WorkspaceID: workspaceID,
			AccessLevel: models.AccessView,
			CreatedAt:   now,
		})
	}

	return grants
}
