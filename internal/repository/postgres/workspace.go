package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"nova/internal/domain"
	"nova/internal/domain/models"
	"nova/internal/domain/repositories"
)

// PostgresWorkspaceRepository implements the WorkspaceRepository interface.
// Every query filters on organization_id so no workspace ever crosses a
// tenant boundary.
type PostgresWorkspaceRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(config *RepositoryConfig) repositories.WorkspaceRepository {
	return &PostgresWorkspaceRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new workspace
func (r *PostgresWorkspaceRepository) Create(ctx context.Context, workspace *models.Workspace) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, description, organization_id, config, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, r.tables.Workspaces)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		workspace.Name,
		workspace.Description,
		workspace.OrganizationID,
		workspace.Config,
		workspace.CreatedAt,
	).Scan(&workspace.ID, &workspace.CreatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			existingID, queryErr := r.getExistingWorkspaceID(ctx, workspace.Name, workspace.OrganizationID)
			if queryErr != nil {
				return fmt.Errorf("workspace '%s' already exists: %w", workspace.Name, domain.ErrConflict)
			}

			return &domain.ConflictError{
				Message:      fmt.Sprintf("workspace '%s' already exists", workspace.Name),
				ResourceType: "workspace",
				ResourceID:   existingID,
			}
		}
		return fmt.Errorf("create workspace: %w", err)
	}

	return nil
}

// GetByID retrieves a workspace within the organization
func (r *PostgresWorkspaceRepository) GetByID(ctx context.Context, id, organizationID string) (*models.Workspace, error) {
	query := fmt.Sprintf(`
		SELECT id, name, description, organization_id, config, created_at
		FROM %s
		WHERE id = $1 AND organization_id = $2
	`, r.tables.Workspaces)

	return r.scanOne(ctx, query, id, organizationID)
}

// GetByName retrieves a workspace by name within the organization
func (r *PostgresWorkspaceRepository) GetByName(ctx context.Context, name, organizationID string) (*models.Workspace, error) {
	query := fmt.Sprintf(`
		SELECT id, name, description, organization_id, config, created_at
		FROM %s
		WHERE name = $1 AND organization_id = $2
	`, r.tables.Workspaces)

	return r.scanOne(ctx, query, name, organizationID)
}

// ListByOrganization retrieves all workspaces of the organization
func (r *PostgresWorkspaceRepository) ListByOrganization(ctx context.Context, organizationID string) ([]models.Workspace, error) {
	query := fmt.Sprintf(`
		SELECT id, name, description, organization_id, config, created_at
		FROM %s
		WHERE organization_id = $1
		ORDER BY name
	`, r.tables.Workspaces)

	return r.scanMany(ctx, query, organizationID)
}

// ListForUser retrieves the organization's workspaces the user holds a grant on
func (r *PostgresWorkspaceRepository) ListForUser(ctx context.Context, userID, organizationID string) ([]models.Workspace, error) {
	query := fmt.Sprintf(`
		SELECT w.id, w.name, w.description, w.organization_id, w.config, w.created_at
		FROM %s w
		INNER JOIN %s wa ON wa.workspace_id = w.id
		WHERE wa.user_id = $1 AND w.organization_id = $2
		ORDER BY w.name
	`, r.tables.Workspaces, r.tables.WorkspaceAccess)

	return r.scanMany(ctx, query, userID, organizationID)
}

// Update writes name, description and config
func (r *PostgresWorkspaceRepository) Update(ctx context.Context, workspace *models.Workspace) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, config = $3
		WHERE id = $4 AND organization_id = $5
	`, r.tables.Workspaces)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		workspace.Name,
		workspace.Description,
		workspace.Config,
		workspace.ID,
		workspace.OrganizationID,
	)

	if err != nil {
		if IsPgDuplicateError(err) {
			existingID, queryErr := r.getExistingWorkspaceID(ctx, workspace.Name, workspace.OrganizationID)
			if queryErr != nil {
				return fmt.Errorf("workspace name '%s' already exists: %w", workspace.Name, domain.ErrConflict)
			}

			return &domain.ConflictError{
				Message:      fmt.Sprintf("workspace name '%s' already exists", workspace.Name),
				ResourceType: "workspace",
				ResourceID:   existingID,
			}
		}
		return fmt.Errorf("update workspace: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("workspace %s: %w", workspace.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes the workspace row
func (r *PostgresWorkspaceRepository) Delete(ctx context.Context, id, organizationID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s WHERE id = $1 AND organization_id = $2
	`, r.tables.Workspaces)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, organizationID)
	if err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *PostgresWorkspaceRepository) getExistingWorkspaceID(ctx context.Context, name, organizationID string) (string, error) {
	query := fmt.Sprintf(`
		SELECT id FROM %s WHERE name = $1 AND organization_id = $2
	`, r.tables.Workspaces)

	var id string
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, name, organizationID).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("get existing workspace ID: %w", err)
	}

	return id, nil
}

func (r *PostgresWorkspaceRepository) scanOne(ctx context.Context, query string, args ...interface{}) (*models.Workspace, error) {
	var workspace models.Workspace
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, args...).Scan(
		&workspace.ID,
		&workspace.Name,
		&workspace.Description,
		&workspace.OrganizationID,
		&workspace.Config,
		&workspace.CreatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("workspace: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get workspace: %w", err)
	}

	return &workspace, nil
}

func (r *PostgresWorkspaceRepository) scanMany(ctx context.Context, query string, args ...interface{}) ([]models.Workspace, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer rows.Close()

	workspaces := []models.Workspace{}
	for rows.Next() {
		var workspace models.Workspace
		err := rows.Scan(
			&workspace.ID,
			&workspace.Name,
			&workspace.Description,
			&workspace.OrganizationID,
			&workspace.Config,
			&workspace.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		workspaces = append(workspaces, workspace)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workspaces: %w", err)
	}

	return workspaces, nil
}
