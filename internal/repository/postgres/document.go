package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"nova/internal/domain"
	"nova/internal/domain/models"
	"nova/internal/domain/repositories"
)

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const documentColumns = "id, workspace_id, organization_id, filepath, file_type, original_file_id, impact_date, created_at"

// Create inserts a document with its caller-generated ID
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, workspace_id, organization_id, filepath, file_type, original_file_id, impact_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.ID,
		doc.WorkspaceID,
		doc.OrganizationID,
		doc.Filepath,
		doc.FileType,
		doc.OriginalFileID,
		doc.ImpactDate,
		doc.CreatedAt,
	).Scan(&doc.CreatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("document '%s' already exists", doc.Filepath),
				ResourceType: "document",
				ResourceID:   doc.ID,
			}
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document within the organization
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id, organizationID string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE id = $1 AND organization_id = $2
	`, documentColumns, r.tables.Documents)

	return r.scanOne(ctx, query, id, organizationID)
}

// GetOriginal retrieves a document of type original within the workspace
func (r *PostgresDocumentRepository) GetOriginal(ctx context.Context, id, workspaceID string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE id = $1 AND workspace_id = $2 AND file_type = $3
	`, documentColumns, r.tables.Documents)

	return r.scanOne(ctx, query, id, workspaceID, models.FileOriginal)
}

// ListByWorkspace retrieves all documents of a workspace
func (r *PostgresDocumentRepository) ListByWorkspace(ctx context.Context, workspaceID, organizationID string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE workspace_id = $1 AND organization_id = $2
		ORDER BY filepath
	`, documentColumns, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, workspaceID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		var doc models.Document
		err := rows.Scan(
			&doc.ID,
			&doc.WorkspaceID,
			&doc.OrganizationID,
			&doc.Filepath,
			&doc.FileType,
			&doc.OriginalFileID,
			&doc.ImpactDate,
			&doc.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return docs, nil
}

// RewritePathPrefix replaces oldPrefix with newPrefix on every document of
// the workspace whose filepath starts with oldPrefix
func (r *PostgresDocumentRepository) RewritePathPrefix(ctx context.Context, workspaceID, oldPrefix, newPrefix string) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET filepath = $1 || substring(filepath from char_length($2) + 1)
		WHERE workspace_id = $3 AND filepath LIKE $2 || '%%'
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, newPrefix, oldPrefix, workspaceID)
	if err != nil {
		return 0, fmt.Errorf("rewrite document paths: %w", err)
	}

	return result.RowsAffected(), nil
}

// Delete removes a document row
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id, organizationID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s WHERE id = $1 AND organization_id = $2
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, organizationID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteAllByWorkspace removes every document row of a workspace
func (r *PostgresDocumentRepository) DeleteAllByWorkspace(ctx context.Context, workspaceID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE workspace_id = $1`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, workspaceID); err != nil {
		return fmt.Errorf("delete documents: %w", err)
	}

	return nil
}

func (r *PostgresDocumentRepository) scanOne(ctx context.Context, query string, args ...interface{}) (*models.Document, error) {
	var doc models.Document
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, args...).Scan(
		&doc.ID,
		&doc.WorkspaceID,
		&doc.OrganizationID,
		&doc.Filepath,
		&doc.FileType,
		&doc.OriginalFileID,
		&doc.ImpactDate,
		&doc.CreatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return &doc, nil
}
