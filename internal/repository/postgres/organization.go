package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"nova/internal/domain"
	"nova/internal/domain/models"
	"nova/internal/domain/repositories"
)

// PostgresOrganizationRepository implements the OrganizationRepository interface
type PostgresOrganizationRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(config *RepositoryConfig) repositories.OrganizationRepository {
	return &PostgresOrganizationRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new organization
func (r *PostgresOrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, slug, status, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, r.tables.Organizations)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		org.Name,
		org.Slug,
		org.Status,
		org.ExpiresAt,
		org.CreatedAt,
	).Scan(&org.ID, &org.CreatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("organization slug '%s' already exists", org.Slug),
				ResourceType: "organization",
				ResourceID:   org.Slug,
			}
		}
		return fmt.Errorf("create organization: %w", err)
	}

	return nil
}

// GetByID retrieves an organization by ID
func (r *PostgresOrganizationRepository) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	query := fmt.Sprintf(`
		SELECT id, name, slug, status, expires_at, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Organizations)

	return r.scanOne(ctx, query, id)
}

// GetBySlug retrieves an organization by slug
func (r *PostgresOrganizationRepository) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	query := fmt.Sprintf(`
		SELECT id, name, slug, status, expires_at, created_at
		FROM %s
		WHERE slug = $1
	`, r.tables.Organizations)

	return r.scanOne(ctx, query, slug)
}

// List retrieves all organizations, newest first
func (r *PostgresOrganizationRepository) List(ctx context.Context) ([]models.Organization, error) {
	query := fmt.Sprintf(`
		SELECT id, name, slug, status, expires_at, created_at
		FROM %s
		ORDER BY created_at DESC
	`, r.tables.Organizations)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	orgs := []models.Organization{}
	for rows.Next() {
		var org models.Organization
		err := rows.Scan(
			&org.ID,
			&org.Name,
			&org.Slug,
			&org.Status,
			&org.ExpiresAt,
			&org.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		orgs = append(orgs, org)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate organizations: %w", err)
	}

	return orgs, nil
}

func (r *PostgresOrganizationRepository) scanOne(ctx context.Context, query string, arg interface{}) (*models.Organization, error) {
	var org models.Organization
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, arg).Scan(
		&org.ID,
		&org.Name,
		&org.Slug,
		&org.Status,
		&org.ExpiresAt,
		&org.CreatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("organization %v: %w", arg, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}

	return &org, nil
}
