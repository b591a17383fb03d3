package repositories

import (
	"context"

	"nova/internal/domain/models"
)

// UserRepository persists users
type UserRepository interface {
	// Create inserts a user. A duplicate email returns a conflict error.
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// ListAdminsByOrganization returns every org_admin of an organization
	ListAdminsByOrganization(ctx context.Context, organizationID string) ([]models.User, error)

	// ListByRole returns all users holding the given role
	ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error)

	// Delete removes a user by ID
	Delete(ctx context.Context, id string) error
}
