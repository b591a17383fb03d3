package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"nova/internal/domain"
	"nova/internal/domain/models"
	"nova/internal/domain/repositories"
)

// PostgresAccessRepository implements the AccessRepository interface
type PostgresAccessRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewAccessRepository creates a new access repository
func NewAccessRepository(config *RepositoryConfig) repositories.AccessRepository {
	return &PostgresAccessRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a single grant
func (r *PostgresAccessRepository) Create(ctx context.Context, grant *models.WorkspaceAccess) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, workspace_id, access_level, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, r.tables.WorkspaceAccess)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		grant.UserID,
		grant.WorkspaceID,
		grant.AccessLevel,
		grant.CreatedAt,
	).Scan(&grant.ID, &grant.CreatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      "user already has access to this workspace",
				ResourceType: "access grant",
				ResourceID:   grant.UserID,
			}
		}
		// A stale member selection references a user or workspace that no
		// longer exists
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("%w: user %s or workspace %s does not exist", domain.ErrValidation, grant.UserID, grant.WorkspaceID)
		}
		return fmt.Errorf("create access grant: %w", err)
	}

	return nil
}

// CreateBatch inserts the given grants
func (r *PostgresAccessRepository) CreateBatch(ctx context.Context, grants []models.WorkspaceAccess) error {
	for i := range grants {
		if err := r.Create(ctx, &grants[i]); err != nil {
			return err
		}
	}
	return nil
}

// DeleteAllByWorkspace removes every grant of a workspace
func (r *PostgresAccessRepository) DeleteAllByWorkspace(ctx context.Context, workspaceID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE workspace_id = $1`, r.tables.WorkspaceAccess)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, workspaceID); err != nil {
		return fmt.Errorf("delete access grants: %w", err)
	}

	return nil
}

// ListByWorkspace returns grants joined with user identity. The workspace
// join carries the organization filter so grants never leak across tenants.
func (r *PostgresAccessRepository) ListByWorkspace(ctx context.Context, workspaceID, organizationID string) ([]models.WorkspaceAccessDetail, error) {
	query := fmt.Sprintf(`
		SELECT wa.id, wa.user_id, wa.workspace_id, wa.access_level, wa.created_at,
		       u.email, u.firstname, u.lastname
		FROM %s wa
		INNER JOIN %s u ON u.id = wa.user_id
		INNER JOIN %s w ON w.id = wa.workspace_id
		WHERE wa.workspace_id = $1 AND w.organization_id = $2
		ORDER BY wa.access_level, u.email
	`, r.tables.WorkspaceAccess, r.tables.Users, r.tables.Workspaces)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, workspaceID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list access grants: %w", err)
	}
	defer rows.Close()

	grants := []models.WorkspaceAccessDetail{}
	for rows.Next() {
		var grant models.WorkspaceAccessDetail
		err := rows.Scan(
			&grant.ID,
			&grant.UserID,
			&grant.WorkspaceID,
			&grant.AccessLevel,
			&grant.CreatedAt,
			&grant.Email,
			&grant.Firstname,
			&grant.Lastname,
		)
		if err != nil {
			return nil, fmt.Errorf("scan access grant: %w", err)
		}
		grants = append(grants, grant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate access grants: %w", err)
	}

	return grants, nil
}
