package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"nova/internal/domain"
	"nova/internal/domain/models"
	"nova/internal/domain/repositories"
	"nova/internal/domain/services"
)

const maxWorkspaceNameLength = 120

// workspaceService implements the WorkspaceService interface
type workspaceService struct {
	workspaceRepo repositories.WorkspaceRepository
	docRepo       repositories.DocumentRepository
	orgRepo       repositories.OrganizationRepository
	chatRepo      repositories.ChatRepository
	access        services.AccessService
	store         FileStore
	indexer       Indexer
	locks         *WorkspaceLocks
	logger        *slog.Logger
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(
	workspaceRepo repositories.WorkspaceRepository,
	docRepo repositories.DocumentRepository,
	orgRepo repositories.OrganizationRepository,
	chatRepo repositories.ChatRepository,
	access services.AccessService,
	store FileStore,
	idx Indexer,
	locks *WorkspaceLocks,
	logger *slog.Logger,
) services.WorkspaceService {
	return &workspaceService{
		workspaceRepo: workspaceRepo,
		docRepo:       docRepo,
		orgRepo:       orgRepo,
		chatRepo:      chatRepo,
		access:        access,
		store:         store,
		indexer:       idx,
		locks:         locks,
		logger:        logger,
	}
}

// CreateWorkspace creates an empty workspace and establishes the initial
// grant set
func (s *workspaceService) CreateWorkspace(ctx context.Context, principal models.Principal, req *services.CreateWorkspaceRequest) (*models.Workspace, error) {
	if err := RequireWorkspaceAdmin(principal); err != nil {
		return nil, err
	}
	if err := s.validateWorkspaceRequest(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	workspace := &models.Workspace{
		Name:           strings.TrimSpace(req.Name),
		Description:    strings.TrimSpace(req.Description),
		OrganizationID: principal.OrganizationID,
		Config:         req.Config,
		CreatedAt:      time.Now(),
	}

	// The unique (name, organization_id) constraint is the authority on
	// duplicates; a conflict comes back with the existing workspace's ID
	if err := s.workspaceRepo.Create(ctx, workspace); err != nil {
		return nil, err
	}

	if err := s.access.ReplaceWorkspaceAccess(ctx, principal.OrganizationID, workspace.ID, req.MemberIDs); err != nil {
		return nil, err
	}

	s.logger.Info("workspace created",
		"workspace_id", workspace.ID,
		"name", workspace.Name,
		"organization_id", principal.OrganizationID,
	)

	return workspace, nil
}

// GetWorkspace retrieves a workspace in the principal's organization
func (s *workspaceService) GetWorkspace(ctx context.Context, principal models.Principal, id string) (*models.Workspace, error) {
	if err := RequireOrganization(principal); err != nil {
		return nil, err
	}
	return s.workspaceRepo.GetByID(ctx, id, principal.OrganizationID)
}

// ListWorkspaces returns the workspaces visible to the principal
func (s *workspaceService) ListWorkspaces(ctx context.Context, principal models.Principal) ([]models.Workspace, error) {
	if err := RequireOrganization(principal); err != nil {
		return nil, err
	}

	if principal.IsAdmin() {
		return s.workspaceRepo.ListByOrganization(ctx, principal.OrganizationID)
	}
	return s.workspaceRepo.ListForUser(ctx, principal.UserID, principal.OrganizationID)
}

// UpdateWorkspace updates description/config, recomputes grants, and renames
// the workspace when the name changed. On rename, stored document paths and
// the on-disk folder move before the row's name column commits, keeping the
// inconsistency window as small as the missing cross-resource transaction
// allows; a failed filesystem rename aborts the whole update.
func (s *workspaceService) UpdateWorkspace(ctx context.Context, principal models.Principal, id string, req *services.UpdateWorkspaceRequest) (*models.Workspace, error) {
	if err := RequireWorkspaceAdmin(principal); err != nil {
		return nil, err
	}
	if err := s.validateWorkspaceRequest(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	workspace, err := s.workspaceRepo.GetByID(ctx, id, principal.OrganizationID)
	if err != nil {
		return nil, err
	}

	// Description and config apply whether or not the name changed; the
	// rename branch commits them with the new name in the same Update.
	newName := strings.TrimSpace(req.Name)
	workspace.Description = strings.TrimSpace(req.Description)
	workspace.Config = req.Config

	if newName != workspace.Name {
		if err := s.renameWorkspace(ctx, principal, workspace, newName); err != nil {
			return nil, err
		}
	} else {
		if err := s.workspaceRepo.Update(ctx, workspace); err != nil {
			return nil, err
		}
	}

	// Grants are always recomputed, whether or not access changed
	if err := s.access.ReplaceWorkspaceAccess(ctx, principal.OrganizationID, workspace.ID, req.MemberIDs); err != nil {
		return nil, err
	}

	s.logger.Info("workspace updated",
		"workspace_id", workspace.ID,
		"name", workspace.Name,
	)

	return workspace, nil
}

func (s *workspaceService) renameWorkspace(ctx context.Context, principal models.Principal, workspace *models.Workspace, newName string) error {
	// Reject a collision up front for a clean validation error; the unique
	// constraint still backs this up against races
	if existing, err := s.workspaceRepo.GetByName(ctx, newName, principal.OrganizationID); err == nil && existing.ID != workspace.ID {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("workspace name '%s' already exists", newName),
			ResourceType: "workspace",
			ResourceID:   existing.ID,
		}
	}

	org, err := s.orgRepo.GetByID(ctx, principal.OrganizationID)
	if err != nil {
		return err
	}

	oldRoot := WorkspaceRoot(org.Slug, workspace.Name)
	newRoot := WorkspaceRoot(org.Slug, newName)

	lock := s.locks.lock(workspace.ID)
	defer lock.Unlock()

	// On-disk folder first; a missing folder just means no uploads yet
	if err := s.store.RenameDir(oldRoot, newRoot); err != nil {
		return fmt.Errorf("rename workspace folder: %w", err)
	}

	rewritten, err := s.docRepo.RewritePathPrefix(ctx, workspace.ID, oldRoot+"/", newRoot+"/")
	if err != nil {
		return err
	}

	oldName := workspace.Name
	workspace.Name = newName
	if err := s.workspaceRepo.Update(ctx, workspace); err != nil {
		return err
	}

	s.logger.Info("workspace renamed",
		"workspace_id", workspace.ID,
		"old_name", oldName,
		"new_name", newName,
		"documents_rewritten", rewritten,
	)

	return nil
}

// DeleteWorkspace runs the ordered cascade. The external index purge comes
// first because it needs the document list; file and folder removal are
// best-effort; the row deletes at the end are authoritative.
func (s *workspaceService) DeleteWorkspace(ctx context.Context, principal models.Principal, id string) error {
	if err := RequireWorkspaceAdmin(principal); err != nil {
		return err
	}

	workspace, err := s.workspaceRepo.GetByID(ctx, id, principal.OrganizationID)
	if err != nil {
		return err
	}

	docs, err := s.docRepo.ListByWorkspace(ctx, id, principal.OrganizationID)
	if err != nil {
		return err
	}

	// Purge the external index, but only when there is anything indexed
	if len(docs) > 0 {
		if err := s.indexer.PurgeWorkspace(ctx, id); err != nil {
			return fmt.Errorf("purge workspace from index: %w", err)
		}
	}

	// Delete files; one failure does not stop the rest
	for _, doc := range docs {
		if err := s.store.Delete(doc.Filepath); err != nil {
			s.logger.Warn("workspace file not deleted",
				"workspace_id", id,
				"filepath", doc.Filepath,
				"error", err,
			)
		}
	}

	org, err := s.orgRepo.GetByID(ctx, principal.OrganizationID)
	if err != nil {
		return err
	}
	if err := s.store.RemoveDir(WorkspaceRoot(org.Slug, workspace.Name)); err != nil {
		s.logger.Warn("workspace folder not removed",
			"workspace_id", id,
			"error", err,
		)
	}

	detached, err := s.chatRepo.DetachWorkspace(ctx, id, workspace.Name)
	if err != nil {
		return err
	}

	if err := s.access.RevokeAllAccess(ctx, id); err != nil {
		return err
	}

	if err := s.docRepo.DeleteAllByWorkspace(ctx, id); err != nil {
		return err
	}

	if err := s.workspaceRepo.Delete(ctx, id, principal.OrganizationID); err != nil {
		return err
	}

	s.logger.Info("workspace deleted",
		"workspace_id", id,
		"name", workspace.Name,
		"documents", len(docs),
		"chats_detached", detached,
	)

	return nil
}

// GetWorkspaceTree reconstructs the nested folder/file tree from the
// workspace's stored document paths
func (s *workspaceService) GetWorkspaceTree(ctx context.Context, principal models.Principal, id string) ([]*models.FileTreeNode, error) {
	if err := RequireOrganization(principal); err != nil {
		return nil, err
	}

	// Resolves the workspace through the tenancy filter before exposing
	// any of its documents
	if _, err := s.workspaceRepo.GetByID(ctx, id, principal.OrganizationID); err != nil {
		return nil, err
	}

	docs, err := s.docRepo.ListByWorkspace(ctx, id, principal.OrganizationID)
	if err != nil {
		return nil, err
	}

	return BuildFileTree(docs), nil
}

func (s *workspaceService) validateWorkspaceRequest(name string) error {
	return validation.Validate(name,
		validation.Required,
		validation.Length(1, maxWorkspaceNameLength),
		validation.By(validateWorkspaceName),
	)
}

// validateWorkspaceName rejects names that would break stored paths
func validateWorkspaceName(value interface{}) error {
	name, _ := value.(string)
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("workspace name must not contain path separators")
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("workspace name must not be blank")
	}
	return nil
}
