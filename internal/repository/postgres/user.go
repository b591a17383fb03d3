package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"nova/internal/domain"
	"nova/internal/domain/models"
	"nova/internal/domain/repositories"
)

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewUserRepository creates a new user repository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const userColumns = "id, email, password_hash, firstname, lastname, role, organization_id, created_at"

// Create inserts a new user
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (email, password_hash, firstname, lastname, role, organization_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.Firstname,
		user.Lastname,
		user.Role,
		user.OrganizationID,
		user.CreatedAt,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("user with email '%s' already exists", user.Email),
				ResourceType: "user",
				ResourceID:   user.Email,
			}
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1
	`, userColumns, r.tables.Users)

	return r.scanOne(ctx, query, id)
}

// GetByEmail retrieves a user by email
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE email = $1
	`, userColumns, r.tables.Users)

	return r.scanOne(ctx, query, email)
}

// ListAdminsByOrganization returns every org_admin of an organization
func (r *PostgresUserRepository) ListAdminsByOrganization(ctx context.Context, organizationID string) ([]models.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE organization_id = $1 AND role = $2
		ORDER BY created_at
	`, userColumns, r.tables.Users)

	return r.scanMany(ctx, query, organizationID, models.RoleOrgAdmin)
}

// ListByRole returns all users holding the given role
func (r *PostgresUserRepository) ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE role = $1
		ORDER BY created_at
	`, userColumns, r.tables.Users)

	return r.scanMany(ctx, query, role)
}

// Delete removes a user by ID
func (r *PostgresUserRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *PostgresUserRepository) scanOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Firstname,
		&user.Lastname,
		&user.Role,
		&user.OrganizationID,
		&user.CreatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("user %v: %w", arg, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *PostgresUserRepository) scanMany(ctx context.Context, query string, args ...interface{}) ([]models.User, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.PasswordHash,
			&user.Firstname,
			&user.Lastname,
			&user.Role,
			&user.OrganizationID,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}
