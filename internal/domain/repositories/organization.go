package repositories

import (
	"context"

	"nova/internal/domain/models"
)

// OrganizationRepository persists organizations
type OrganizationRepository interface {
	// Create inserts an organization. A duplicate slug returns a conflict error.
	Create(ctx context.Context, org *models.Organization) error

	// GetByID retrieves an organization by ID
	GetByID(ctx context.Context, id string) (*models.Organization, error)

	// GetBySlug retrieves an organization by its unique slug
	GetBySlug(ctx context.Context, slug string) (*models.Organization, error)

	// List retrieves all organizations, newest first
	List(ctx context.Context) ([]models.Organization, error)
}
